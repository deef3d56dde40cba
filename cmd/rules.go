package cmd

import (
	"github.com/spf13/cobra"
)

var dumpRules string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect normalization and keyword rules",
}

var rulesDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the active rule tables as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := settings().Rules(dumpRules)
		if err != nil {
			return err
		}
		b, err := f.Marshal()
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), b, "")
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesDumpCmd)
	rulesDumpCmd.Flags().StringVar(&dumpRules, "rules", "", "YAML rule file (overrides rules_file)")
}
