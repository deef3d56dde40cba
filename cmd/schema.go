package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sheetbrief/internal/schema"
)

var schemaSource sourceFlags

var schemaCmd = &cobra.Command{
	Use:   "schema <file>",
	Short: "Show the detected date, text and categorical columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tab, err := schemaSource.load(args[0])
		if err != nil {
			return err
		}
		sch := schema.Detect(tab.Data, settings().SchemaOptions(logger))
		b, err := render("json", sch)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), b, "")
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaSource.register(schemaCmd)
}
