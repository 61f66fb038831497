package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/summarizer-cli/internal/config"
	"github.com/KaramelBytes/summarizer-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile            string
	debug              bool
	flagHTTPTimeoutSec int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "summarizer",
	Short: "Summarizer CLI: per-column descriptive statistics for tabular data",
	Long: `Summarizer loads a table (CSV/TSV, XLSX, Parquet, or a Postgres query), computes
per-column descriptive statistics, and exports the summary as markdown, html, or a spreadsheet.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.summarizer/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP timeout in seconds for remote sources (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	applyOverrides()
}

// ensureConfig returns the loaded configuration, loading it on first use.
func ensureConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = c
		applyOverrides()
	}
	return cfg, nil
}

func applyOverrides() {
	if rootCmd.PersistentFlags().Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	setupLogging()
}

// setupLogging sets the process logger from --debug, then log_level, then LOG_LEVEL.
func setupLogging() {
	level := logging.Default().Level()
	if cfg != nil {
		if lv, ok := logging.ParseLevel(cfg.LogLevel); ok {
			level = lv
		}
	}
	if lv, ok := logging.ParseLevel(os.Getenv("LOG_LEVEL")); ok {
		level = lv
	}
	if debug {
		level = logging.LevelDebug
	}
	logging.SetDefault(logging.New(level, os.Stderr))
}
