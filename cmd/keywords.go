package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sheetbrief/internal/schema"
	"github.com/KaramelBytes/sheetbrief/internal/stats"
)

var (
	kwColumn string
	kwTop    int
	kwRules  string
	kwSource sourceFlags
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords <file>",
	Short: "Extract the most frequent phrases from a text column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		tab, err := kwSource.load(args[0])
		if err != nil {
			return err
		}
		col := kwColumn
		if col == "" {
			col = schema.Detect(tab.Data, c.SchemaOptions(logger)).TextColumn
			if col == "" {
				return fmt.Errorf("no text column detected in %s; use --column", tab.Name)
			}
		}
		if !tab.Data.Has(col) {
			return fmt.Errorf("column %q not found in %s", col, tab.Name)
		}
		eng, err := engine(kwRules)
		if err != nil {
			return err
		}
		calc := stats.New(eng.Normalizer, eng.Extractor, c.Limits(), logger)
		b, err := render("json", calc.Keywords(tab.Data, col, kwTop))
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), b, "")
	},
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
	keywordsCmd.Flags().StringVar(&kwColumn, "column", "", "text column (detected if omitted)")
	keywordsCmd.Flags().IntVarP(&kwTop, "top", "n", 10, "number of phrases to show")
	keywordsCmd.Flags().StringVar(&kwRules, "rules", "", "YAML rule file (overrides rules_file)")
	kwSource.register(keywordsCmd)
}
