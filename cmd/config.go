package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	cfgpkg "github.com/KaramelBytes/sheetbrief/internal/config"
	"github.com/KaramelBytes/sheetbrief/internal/rules"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set sheetbrief configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "date_min_ratio: %.3f\n", c.DateMinRatio)
		fmt.Fprintf(w, "text_min_avg_length: %.1f\n", c.TextMinAvgLength)
		fmt.Fprintf(w, "category_top_k: %d\n", c.CategoryTopK)
		fmt.Fprintf(w, "daily_max_days: %d\n", c.DailyMaxDays)
		fmt.Fprintf(w, "summary_keyword_pool: %d\n", c.SummaryKeywordPool)
		fmt.Fprintf(w, "summary_keywords: %d\n", c.SummaryKeywords)
		fmt.Fprintf(w, "change_threshold_percent: %.3f\n", c.ChangeThresholdPercent)
		fmt.Fprintf(w, "chart_keywords: %d\n", c.ChartKeywords)
		fmt.Fprintf(w, "monthly_top_n: %d\n", c.MonthlyTopN)
		fmt.Fprintf(w, "min_token_length: %d\n", c.MinTokenLength)
		fmt.Fprintf(w, "tokenizer_backend: %s\n", c.TokenizerBackend)
		if c.RulesFile != "" {
			fmt.Fprintf(w, "rules_file: %s\n", c.RulesFile)
		}
		fmt.Fprintf(w, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(w, "output_format: %s\n", c.OutputFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c := settings()
		switch key {
		case "date_min_ratio":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f > 1 {
				return fmt.Errorf("invalid ratio for date_min_ratio: %v (use 0..1)", val)
			}
			c.DateMinRatio = f
		case "text_min_avg_length":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid float for text_min_avg_length: %v", val)
			}
			c.TextMinAvgLength = f
		case "change_threshold_percent":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid float for change_threshold_percent: %v", val)
			}
			c.ChangeThresholdPercent = f
		case "category_top_k", "daily_max_days", "summary_keyword_pool", "summary_keywords",
			"chart_keywords", "monthly_top_n", "min_token_length":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			*intField(c, key) = i
		case "tokenizer_backend":
			switch val {
			case rules.BackendRegex, rules.BackendLexicon:
				c.TokenizerBackend = val
			default:
				return fmt.Errorf("invalid tokenizer_backend: %s (use regex or lexicon)", val)
			}
		case "rules_file":
			if val != "" {
				if _, err := rules.Load(val); err != nil {
					return err
				}
			}
			c.RulesFile = val
		case "log_level":
			if _, err := zapcore.ParseLevel(val); err != nil {
				return fmt.Errorf("invalid log_level: %s", val)
			}
			c.LogLevel = val
		case "output_format":
			if !cfgpkg.ValidFormat(val) {
				return fmt.Errorf("invalid output_format: %s (use json|yaml|markdown|html)", val)
			}
			c.OutputFormat = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func intField(c *cfgpkg.Global, key string) *int {
	switch key {
	case "category_top_k":
		return &c.CategoryTopK
	case "daily_max_days":
		return &c.DailyMaxDays
	case "summary_keyword_pool":
		return &c.SummaryKeywordPool
	case "summary_keywords":
		return &c.SummaryKeywords
	case "chart_keywords":
		return &c.ChartKeywords
	case "monthly_top_n":
		return &c.MonthlyTopN
	}
	return &c.MinTokenLength
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
