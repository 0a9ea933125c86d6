package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd 批量转换命令
var rootCmd = &cobra.Command{
	Use:   "shiftconv",
	Short: "Convert clinic shift sheets into a per-employee shift-code matrix",
	Long: `shiftconv reads a clinic shift workbook (merged cells allowed) and an
employee roster, and writes a workbook with three sheets:
班別資料 (raw shift records), 班別分析 (per person/day class codes) and
班別總表 (employee x date matrix).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config.toml (default: next to the executable)")

	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newSheetsCmd())
	rootCmd.AddCommand(newInitConfigCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
