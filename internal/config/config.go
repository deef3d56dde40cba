package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/sheetbrief/internal/report"
	"github.com/KaramelBytes/sheetbrief/internal/rules"
	"github.com/KaramelBytes/sheetbrief/internal/schema"
	"github.com/KaramelBytes/sheetbrief/internal/stats"
)

// Global configuration structure.
type Global struct {
	// Schema detection
	DateMinRatio     float64 `mapstructure:"date_min_ratio" yaml:"date_min_ratio"`
	TextMinAvgLength float64 `mapstructure:"text_min_avg_length" yaml:"text_min_avg_length"`

	// Statistics caps
	CategoryTopK       int `mapstructure:"category_top_k" yaml:"category_top_k"`
	DailyMaxDays       int `mapstructure:"daily_max_days" yaml:"daily_max_days"`
	SummaryKeywordPool int `mapstructure:"summary_keyword_pool" yaml:"summary_keyword_pool"`
	SummaryKeywords    int `mapstructure:"summary_keywords" yaml:"summary_keywords"`

	// Report layout
	ChangeThresholdPercent float64 `mapstructure:"change_threshold_percent" yaml:"change_threshold_percent"`
	ChartKeywords          int     `mapstructure:"chart_keywords" yaml:"chart_keywords"`
	MonthlyTopN            int     `mapstructure:"monthly_top_n" yaml:"monthly_top_n"`

	// Text processing
	MinTokenLength   int    `mapstructure:"min_token_length" yaml:"min_token_length"`
	TokenizerBackend string `mapstructure:"tokenizer_backend" yaml:"tokenizer_backend"`
	RulesFile        string `mapstructure:"rules_file" yaml:"rules_file"`

	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
}

// Output formats accepted by output_format.
var Formats = []string{"json", "yaml", "markdown", "html"}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".sheetbrief"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.sheetbrief/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("date_min_ratio", 0.5)
	v.SetDefault("text_min_avg_length", 20.0)
	v.SetDefault("category_top_k", 5)
	v.SetDefault("daily_max_days", 10)
	v.SetDefault("summary_keyword_pool", 5)
	v.SetDefault("summary_keywords", 4)
	v.SetDefault("change_threshold_percent", 0.1)
	v.SetDefault("chart_keywords", 5)
	v.SetDefault("monthly_top_n", 12)
	v.SetDefault("min_token_length", 2)
	v.SetDefault("tokenizer_backend", rules.BackendRegex)
	v.SetDefault("rules_file", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("output_format", "json")
	return v
}

// Defaults returns the built-in configuration, ignoring files and environment.
func Defaults() *Global {
	v := newViper()
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (including a .env file in the working directory) > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := newViper()
	v.SetEnvPrefix("SHEETBRIEF")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Validate checks value ranges and enumerations.
func (c *Global) Validate() error {
	if c.DateMinRatio < 0 || c.DateMinRatio > 1 {
		return fmt.Errorf("date_min_ratio must be within [0,1], got %v", c.DateMinRatio)
	}
	switch c.TokenizerBackend {
	case "", rules.BackendRegex, rules.BackendLexicon:
	default:
		return fmt.Errorf("tokenizer_backend must be %s or %s, got %q", rules.BackendRegex, rules.BackendLexicon, c.TokenizerBackend)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if !ValidFormat(c.OutputFormat) {
		return fmt.Errorf("output_format must be one of %v, got %q", Formats, c.OutputFormat)
	}
	return nil
}

// ValidFormat reports whether f names an output format.
func ValidFormat(f string) bool {
	for _, x := range Formats {
		if f == x {
			return true
		}
	}
	return false
}

// SchemaOptions returns detection options with the configured thresholds.
func (c *Global) SchemaOptions(log *zap.Logger) schema.Options {
	o := schema.DefaultOptions()
	o.DateMinRatio = c.DateMinRatio
	o.TextMinAvgLength = c.TextMinAvgLength
	o.Logger = log
	return o
}

// Limits returns the statistics caps.
func (c *Global) Limits() stats.Limits {
	return stats.Limits{
		MaxDaily:     c.DailyMaxDays,
		MaxCategory:  c.CategoryTopK,
		SummaryPool:  c.SummaryKeywordPool,
		SummaryItems: c.SummaryKeywords,
	}
}

// ReportOptions returns the component builder settings.
func (c *Global) ReportOptions() report.Options {
	o := report.DefaultOptions()
	o.ChangeThreshold = c.ChangeThresholdPercent
	o.ChartKeywords = c.ChartKeywords
	o.MonthlyTopN = c.MonthlyTopN
	return o
}

// EngineOptions returns the text engine settings.
func (c *Global) EngineOptions(log *zap.Logger) rules.EngineOptions {
	return rules.EngineOptions{Backend: c.TokenizerBackend, MinLength: c.MinTokenLength, Logger: log}
}

// Rules loads the configured rule file, or the built-in tables when none is set.
// A non-empty override takes precedence over rules_file.
func (c *Global) Rules(override string) (rules.File, error) {
	path := c.RulesFile
	if override != "" {
		path = override
	}
	if path == "" {
		return rules.Default(), nil
	}
	return rules.Load(path)
}

// NewLogger builds a console logger on stderr at the configured level.
func (c *Global) NewLogger(debug bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	if debug {
		lvl = zapcore.DebugLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
