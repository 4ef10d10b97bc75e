// Package cmd - adjust command
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"deathrun-power/core/engine"
	"deathrun-power/core/types"
	"deathrun-power/internal/config"
	"deathrun-power/internal/errors"
)

var (
	adjustTier       string
	adjustRadiation  bool
	adjustElevated   bool
	adjustKind       string
	adjustActivities []string
)

// adjustCmd computes a single adjustment
var adjustCmd = &cobra.Command{
	Use:   "adjust <gain|consume> <amount>",
	Short: "Apply the power rules to one transfer",
	Long: `Show what the power rules make of a single energy transfer.

Examples:
  deathrun-power adjust gain 12 --radiation
  deathrun-power adjust consume 5 --kind installation
  deathrun-power adjust consume 5 --activity crafting --tier hard`,
	Args: cobra.ExactArgs(2),
	RunE: runAdjust,
}

func init() {
	adjustCmd.Flags().StringVarP(&adjustTier, "tier", "t", "", "tier (normal, hard, deathrun); defaults to the configured tier")
	adjustCmd.Flags().BoolVarP(&adjustRadiation, "radiation", "r", false, "the endpoint is in radiation")
	adjustCmd.Flags().BoolVarP(&adjustElevated, "elevated", "e", false, "force the elevated context")
	adjustCmd.Flags().StringVarP(&adjustKind, "kind", "k", "", "endpoint kind (installation, mobile_relay, tool, vehicle)")
	adjustCmd.Flags().StringSliceVarP(&adjustActivities, "activity", "a", nil, "running activities (crafting, filtration, scanning, charging)")
}

func runAdjust(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return errors.Wrap(errors.TypeInput, "invalid amount "+args[1], err)
	}

	tier := config.Get().Tier()
	if adjustTier != "" {
		tier = types.Tier(adjustTier)
	}

	adj, err := engine.Adjust(engine.AdjustRequest{
		Direction:  types.Direction(args[0]),
		Amount:     amount,
		Tier:       tier,
		Radiation:  adjustRadiation,
		Kind:       types.EndpointKind(adjustKind),
		Activities: adjustActivities,
		Elevated:   adjustElevated,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%g -> %g\n", adj.Requested, adj.Adjusted)
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", adj.Formula)
	return nil
}
