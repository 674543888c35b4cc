package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/reviewloom-cli/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
	// logger is a no-op unless --debug is set
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "reviewloom",
	Short: "ReviewLoom CLI: mine review text for words and n-grams",
	Long: `ReviewLoom reads review datasets (CSV, TSV, XLSX), cleans the review text and
reports word frequencies, per-review and corpus n-grams, ratings per year and
word-cloud charts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.reviewloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig() {
	logger = newLogger(debug)
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
	logger.Debug("config loaded", zap.String("file", cfgFile), zap.String("encoding", cfg.Encoding))
}

func newLogger(enabled bool) *zap.Logger {
	if !enabled {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: debug logger unavailable: %v\n", err)
		return zap.NewNop()
	}
	return l
}
