package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	cfgpkg "github.com/KaramelBytes/sheetbrief/internal/config"
	"github.com/KaramelBytes/sheetbrief/internal/dataset"
	"github.com/KaramelBytes/sheetbrief/internal/report"
	"github.com/KaramelBytes/sheetbrief/internal/schema"
	"github.com/KaramelBytes/sheetbrief/internal/stats"
	"github.com/KaramelBytes/sheetbrief/internal/utils"
)

var (
	anaYear       int
	anaMonth      int
	anaKind       string
	anaFormat     string
	anaRules      string
	anaOutputPath string
	anaSource     sourceFlags
)

// reportEnvelope is the machine-readable analyze output.
type reportEnvelope struct {
	RequestID  string              `json:"request_id" yaml:"request_id"`
	Source     string              `json:"source" yaml:"source"`
	Kind       report.Kind         `json:"kind" yaml:"kind"`
	Year       int                 `json:"year" yaml:"year"`
	Month      int                 `json:"month" yaml:"month"`
	Schema     schema.ColumnSchema `json:"schema" yaml:"schema"`
	Components []report.Component  `json:"components" yaml:"components"`
}

type errorEnvelope struct {
	Error string `json:"error" yaml:"error"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Build report components from a CSV/TSV, XLSX or JSON table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		format := c.OutputFormat
		if cmd.Flags().Changed("format") {
			format = anaFormat
		}
		if !cfgpkg.ValidFormat(format) {
			return fmt.Errorf("unsupported --format: %s (use json|yaml|markdown|html)", format)
		}
		env, err := buildReport(cmd, args[0])
		if err != nil {
			if format == "json" || format == "yaml" {
				if b, mErr := render(format, errorEnvelope{Error: err.Error()}); mErr == nil {
					_ = emit(cmd.OutOrStdout(), b, "")
				}
			}
			return err
		}
		var out []byte
		switch format {
		case "markdown":
			out = []byte(report.Markdown(env.Source, env.Components))
		case "html":
			out = report.HTML(env.Source, env.Components)
		default:
			if out, err = render(format, env); err != nil {
				return err
			}
		}
		if err := emit(cmd.OutOrStdout(), out, anaOutputPath); err != nil {
			return err
		}
		if anaOutputPath != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", anaOutputPath)
		}
		return nil
	},
}

func buildReport(cmd *cobra.Command, path string) (*reportEnvelope, error) {
	c := settings()
	tab, err := anaSource.load(path)
	if err != nil {
		return nil, err
	}

	// Flags win over request envelope defaults, which win over the clock.
	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if tab.Year != 0 {
		year = tab.Year
	}
	if tab.Month != 0 {
		month = tab.Month
	}
	if cmd.Flags().Changed("year") {
		year = anaYear
	}
	if cmd.Flags().Changed("month") {
		month = anaMonth
	}
	kindName := tab.Kind
	if cmd.Flags().Changed("kind") || kindName == "" {
		kindName = anaKind
	}
	kind, err := report.ParseKind(kindName)
	if err != nil {
		return nil, err
	}

	eng, err := engine(anaRules)
	if err != nil {
		return nil, err
	}
	sch := schema.Detect(tab.Data, c.SchemaOptions(logger))
	calc := stats.New(eng.Normalizer, eng.Extractor, c.Limits(), logger)
	b := report.NewBuilder(calc, c.ReportOptions(), logger)

	id := uuid.NewString()
	logger.Debug("building report",
		zap.String("request_id", id), zap.String("source", tab.Name),
		zap.String("kind", string(kind)), zap.Int("rows", tab.Data.Len()))
	comps, err := b.Build(kind, tab.Data, sch, dataset.Period{Year: year, Month: time.Month(month)})
	if err != nil {
		return nil, err
	}
	return &reportEnvelope{
		RequestID:  id,
		Source:     tab.Name,
		Kind:       kind,
		Year:       year,
		Month:      month,
		Schema:     sch,
		Components: comps,
	}, nil
}

// render marshals v as JSON or YAML.
func render(format string, v any) ([]byte, error) {
	if format == "yaml" {
		b, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	}
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// emit writes b to path when set, otherwise to w.
func emit(w io.Writer, b []byte, path string) error {
	if path != "" {
		return utils.SafeWriteFile(path, b)
	}
	_, err := w.Write(b)
	return err
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().IntVar(&anaYear, "year", 0, "report year (default: request file value or current year)")
	analyzeCmd.Flags().IntVar(&anaMonth, "month", 0, "report month 1-12 (default: request file value or current month)")
	analyzeCmd.Flags().StringVarP(&anaKind, "kind", "k", "single", "report kind: single|comparison|cumulative")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "json", "output format: json|yaml|markdown|html (default from config)")
	analyzeCmd.Flags().StringVar(&anaRules, "rules", "", "YAML rule file (overrides rules_file)")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	anaSource.register(analyzeCmd)
}
