package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sheetbrief/internal/analysis"
	"github.com/KaramelBytes/sheetbrief/internal/schema"
)

var (
	profFormat     string
	profSampleRows int
	profOutlierThr float64
	profOutputPath string
	profSource     sourceFlags
)

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Summarize column kinds, missing values and spread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tab, err := profSource.load(args[0])
		if err != nil {
			return err
		}
		opt := analysis.DefaultOptions()
		opt.SampleRows = profSampleRows
		opt.OutlierThreshold = profOutlierThr
		sch := schema.Detect(tab.Data, settings().SchemaOptions(logger))
		rep := analysis.Profile(tab.Name, tab.Data, sch, opt)

		var out []byte
		switch profFormat {
		case "markdown":
			out = []byte(rep.Markdown(opt.OutlierThreshold))
		case "json", "yaml":
			if out, err = render(profFormat, rep); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported --format: %s (use markdown|json|yaml)", profFormat)
		}
		if err := emit(cmd.OutOrStdout(), out, profOutputPath); err != nil {
			return err
		}
		if profOutputPath != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote profile to %s\n", profOutputPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVarP(&profFormat, "format", "f", "markdown", "output format: markdown|json|yaml")
	profileCmd.Flags().IntVar(&profSampleRows, "sample-rows", 5, "number of sample rows to include")
	profileCmd.Flags().Float64Var(&profOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based, 0 disables)")
	profileCmd.Flags().StringVarP(&profOutputPath, "output", "o", "", "optional path to write the profile")
	profSource.register(profileCmd)
}
