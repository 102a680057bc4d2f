package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global output flags only
	verbose      bool
	quiet        bool
	outputFormat string

	logger *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "go-multiboot",
	Short: "Multiboot v1 boot information inspector",
	Long: `go-multiboot decodes the Multiboot v1 boot information structure from
a raw physical memory dump, e.g. one captured with QEMU's pmemsave.

Works entirely offline against the dump file; nothing is executed or
booted. Useful for debugging bootloaders and early kernel bring-up.

Commands:
  info        Decode the full boot information structure
  memmap      Walk the BIOS-provided memory map
  modules     List the boot modules
  header      Scan an OS image for its Multiboot header`,
	Version: "0.1.0-dev",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Only global output control flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json)")
}

func initLogger() error {
	cfg := zap.NewDevelopmentConfig()
	switch {
	case quiet:
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	case verbose:
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	base, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	logger = base.Sugar()
	return nil
}
