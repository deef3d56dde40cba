package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/sheetbrief/internal/config"
	"github.com/KaramelBytes/sheetbrief/internal/parser"
	"github.com/KaramelBytes/sheetbrief/internal/rules"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration and logger
	cfg    *cfgpkg.Global
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "sheetbrief",
	Short: "sheetbrief: turn inquiry spreadsheets into report components",
	Long: `sheetbrief reads a customer-inquiry table (CSV, XLSX or JSON), detects its date,
text and categorical columns, and builds display-ready report components:
KPIs, distributions, daily breakdowns, keyword charts and monthly series.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.sheetbrief/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in settings
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c
	l, err := cfg.NewLogger(debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		return
	}
	logger = l
}

func settings() *cfgpkg.Global {
	if cfg == nil {
		loadConfig()
	}
	return cfg
}

// engine compiles the active rule set; rulesPath overrides rules_file.
func engine(rulesPath string) (*rules.Engine, error) {
	c := settings()
	f, err := c.Rules(rulesPath)
	if err != nil {
		return nil, err
	}
	return f.Engine(c.EngineOptions(logger))
}

// sourceFlags are the input selection flags shared by file commands.
type sourceFlags struct {
	sheetName  string
	sheetIndex int
}

func (s *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.sheetName, "sheet-name", "", "XLSX: sheet name to load")
	cmd.Flags().IntVar(&s.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

func (s *sourceFlags) load(path string) (*parser.Table, error) {
	return parser.LoadFile(path, parser.Options{SheetName: s.sheetName, SheetIndex: s.sheetIndex})
}
