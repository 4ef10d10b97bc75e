// Package cmd - simulate command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"deathrun-power/adapters/scenario"
	"deathrun-power/adapters/sim"
	"deathrun-power/adapters/storage"
	"deathrun-power/core/notify"
	"deathrun-power/core/output"
	"deathrun-power/internal/config"
	"deathrun-power/internal/logging"
)

var (
	outputFormat string
	showLedger   bool
	tierOverride string
	saveDir      string
	strictRun    bool
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario>...",
	Short: "Run scenarios against the simulated host",
	Long: `Run one or more scenario files against the simulated host with the power
and survival patches installed, then report every step, the final endpoint
charge and the adjustment totals.

Scenario files are HCL (.hcl) or JSON (.json).

Examples:
  deathrun-power simulate examples/crafting_veto.hcl
  deathrun-power simulate --format markdown --ledger examples/*.hcl
  deathrun-power simulate --tier hard examples/radiation_leak.hcl
  deathrun-power simulate --save .deathrun/runs examples/charging.hcl`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json, markdown); defaults to the configured format")
	simulateCmd.Flags().BoolVarP(&showLedger, "ledger", "l", false, "list every adjustment")
	simulateCmd.Flags().StringVarP(&tierOverride, "tier", "t", "", "tier for scenarios that do not set difficulty")
	simulateCmd.Flags().StringVar(&saveDir, "save", "", "keep every run result under this directory")
	simulateCmd.Flags().BoolVar(&strictRun, "strict", false, "abort when a run breaks a power invariant")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	tier := cfg.Tier()
	if tierOverride != "" {
		t, err := config.ParseTier(tierOverride)
		if err != nil {
			return err
		}
		tier = t
	}

	format := outputFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	formatter, err := output.New(format, output.Options{ShowLedger: showLedger || cfg.Output.ShowLedger})
	if err != nil {
		return err
	}

	var store storage.Store
	if saveDir != "" {
		store, err = storage.NewFileStore(saveDir)
		if err != nil {
			return err
		}
	}

	runner := sim.NewRunner(sim.RunOptions{
		Tier:      tier,
		Survival:  cfg.SurvivalSettings(),
		Messenger: notify.NewLogMessenger(logging.Named("messages")),
		Strict:    strictRun,
		Logger:    logging.Named("sim"),
	})
	parser := scenario.NewParser()

	for i, path := range args {
		sc, err := parser.ParseFile(path)
		if err != nil {
			return err
		}

		logging.Info("Running scenario", zap.String("path", path), zap.String("name", sc.Name))
		result, err := runner.Run(cmd.Context(), sc)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if store != nil {
			if err := store.Save(cmd.Context(), storage.NewStoredRun(result, path)); err != nil {
				return err
			}
			logging.Info("Saved run", zap.String("id", result.RunID.String()), zap.String("dir", saveDir))
		}

		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		if err := formatter.Render(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	}
	return nil
}
