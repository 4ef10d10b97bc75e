// Package cmd provides the CLI commands for deathrun-power.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"deathrun-power/internal/config"
	"deathrun-power/internal/logging"
)

// version is the tool version
const version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "deathrun-power",
	Short: "Simulate DeathRun power cost adjustments",
	Long: `deathrun-power applies the DeathRun power rules to a simulated host.

It rewrites every energy gain and draw by difficulty tier, radiation and
running activities, vetoes crafting that cannot be paid for, and records
every adjustment it makes.

Examples:
  deathrun-power simulate examples/crafting_veto.hcl
  deathrun-power simulate --format json --ledger examples/charging.hcl
  deathrun-power adjust consume 10 --tier hard --radiation`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file, JSON or YAML (default is built-in settings)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(adjustCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	// Initialize logging
	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "deathrun-power version %s\n", version)
	},
}
