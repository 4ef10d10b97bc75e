// Package cmd - runs command
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"deathrun-power/adapters/storage"
	"deathrun-power/core/output"
	"deathrun-power/internal/config"
)

var (
	runsDir      string
	runsScenario string
	runsFailed   bool
	runsLimit    int
	runsFormat   string
)

// runsCmd groups the saved run commands
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect runs saved with simulate --save",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openRunStore()
		if err != nil {
			return err
		}
		runs, err := store.List(cmd.Context(), &storage.ListFilter{
			Scenario:   runsScenario,
			OnlyFailed: runsFailed,
			Limit:      runsLimit,
		})
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSCENARIO\tFAILED\tCREATED")
		for _, run := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", run.ID, run.Scenario, run.FailedSteps,
				run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		}
		return tw.Flush()
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Render a saved run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openRunStore()
		if err != nil {
			return err
		}
		run, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		formatter, err := output.New(runsFormat, output.Options{ShowLedger: true})
		if err != nil {
			return err
		}
		if run.Source != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Source: %s\n", run.Source)
		}
		return formatter.Render(cmd.OutOrStdout(), run.Result)
	},
}

func openRunStore() (storage.Store, error) {
	dir := runsDir
	if dir == "" {
		dir = config.Get().Storage.Path
	}
	return storage.NewFileStore(dir)
}

func init() {
	runsCmd.PersistentFlags().StringVar(&runsDir, "dir", "", "run directory (default is storage.path from the config)")

	runsListCmd.Flags().StringVar(&runsScenario, "scenario", "", "only runs of this scenario")
	runsListCmd.Flags().BoolVar(&runsFailed, "failed", false, "only runs with failed steps")
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum number of runs (0 lists all)")

	runsShowCmd.Flags().StringVarP(&runsFormat, "format", "f", "cli", "output format (cli, json, markdown)")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
