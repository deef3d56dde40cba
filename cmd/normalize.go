package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var normRules string

var normalizeCmd = &cobra.Command{
	Use:   "normalize <value>...",
	Short: "Show the canonical form of categorical values",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := engine(normRules)
		if err != nil {
			return err
		}
		for _, v := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", v, eng.Normalizer.Normalize(v))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normalizeCmd.Flags().StringVar(&normRules, "rules", "", "YAML rule file (overrides rules_file)")
}
