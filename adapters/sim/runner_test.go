package sim

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deathrun-power/adapters/scenario"
	"deathrun-power/core/engine"
	"deathrun-power/core/power"
	"deathrun-power/core/radiation"
	"deathrun-power/core/survival"
	"deathrun-power/core/types"
	"deathrun-power/internal/errors"
)

func craftScenario(power float64) *engine.Scenario {
	return &engine.Scenario{
		Name: "craft",
		Tier: types.TierDeathrun,
		Endpoints: []engine.EndpointSpec{
			{Name: "base", Kind: types.KindInstallation, Power: power, Capacity: 100},
		},
		Machines: []engine.MachineSpec{
			{Name: "fab", Kind: engine.MachineFabricator, Relay: "base", Cost: 5},
		},
		Steps: []engine.Step{{Action: engine.ActionCraft, Target: "fab"}},
	}
}

func TestRunVetoesCraftingWithoutEnoughPower(t *testing.T) {
	res, err := Run(context.Background(), craftScenario(4), RunOptions{})
	require.NoError(t, err)
	require.Len(t, res.Steps, 1)

	assert.False(t, res.Steps[0].OK)
	base, ok := res.Endpoint("base")
	require.True(t, ok)
	assert.Equal(t, 4.0, base.Power, "vetoed draw must leave power untouched")

	require.Len(t, res.Messages, 1)
	assert.Equal(t, power.NotEnoughPower, res.Messages[0].Text)

	require.Len(t, res.Ledger, 1)
	assert.True(t, res.Ledger[0].Vetoed)
	assert.Equal(t, 15.0, res.Ledger[0].Adjusted)
	assert.Equal(t, 1, res.Ledger[0].Step)
	assert.Empty(t, res.Violations)
}

func TestRunStrictHoldsOnHealthyRun(t *testing.T) {
	runner := NewRunner(RunOptions{Strict: true})
	for _, p := range []float64{4, 100} {
		assert.NotPanics(t, func() {
			res, err := runner.Run(context.Background(), craftScenario(p))
			require.NoError(t, err)
			assert.Empty(t, res.Violations)
		})
	}
}

func TestRunCraftingDrawsAdjustedAmount(t *testing.T) {
	res, err := Run(context.Background(), craftScenario(100), RunOptions{})
	require.NoError(t, err)

	assert.True(t, res.Steps[0].OK)
	base, _ := res.Endpoint("base")
	assert.Equal(t, 85.0, base.Power)
	assert.Empty(t, res.Messages)
}

func TestRunChargerNestsGainInsideCharging(t *testing.T) {
	sc := &engine.Scenario{
		Name: "charge",
		Tier: types.TierDeathrun,
		Endpoints: []engine.EndpointSpec{
			{Name: "base", Kind: types.KindInstallation, Power: 100, Capacity: 100},
			{Name: "cell", Kind: types.KindTool, Power: 0, Capacity: 100},
		},
		Machines: []engine.MachineSpec{
			{Name: "charger", Kind: engine.MachineCharger, Relay: "base", Cost: 9, Batteries: []string{"cell"}},
		},
		Steps: []engine.Step{{Action: engine.ActionCharge, Target: "charger"}},
	}

	res, err := Run(context.Background(), sc, RunOptions{})
	require.NoError(t, err)
	assert.True(t, res.Steps[0].OK)

	base, _ := res.Endpoint("base")
	cell, _ := res.Endpoint("cell")
	assert.Equal(t, 73.0, base.Power)
	assert.Equal(t, 3.0, cell.Power)

	require.Len(t, res.Ledger, 2)
	assert.Equal(t, types.DirectionConsumption, res.Ledger[0].Direction)
	assert.Equal(t, types.DirectionGain, res.Ledger[1].Direction)
	assert.Contains(t, res.Ledger[1].Activities, types.ActivityCharging)
}

func TestRunRadiationAndSealing(t *testing.T) {
	sc := &engine.Scenario{
		Name: "leak",
		Tier: types.TierHard,
		Zones: []radiation.Zone{
			{Name: "aurora", Center: types.Vec3{}, Radius: 50, Active: true},
		},
		Endpoints: []engine.EndpointSpec{
			{Name: "sub", Kind: types.KindVehicle, Position: types.Vec3{X: 10}, Power: 100, Capacity: 100},
		},
		Steps: []engine.Step{
			{Action: engine.ActionConsume, Target: "sub", Amount: 10},
			{Action: engine.ActionSeal, Target: "aurora"},
			{Action: engine.ActionConsume, Target: "sub", Amount: 10},
			{Action: engine.ActionUnseal, Target: "aurora"},
			{Action: engine.ActionMove, Target: "sub", Position: &types.Vec3{X: 500}},
			{Action: engine.ActionConsume, Target: "sub", Amount: 10},
		},
	}

	res, err := Run(context.Background(), sc, RunOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Failed())

	sub, _ := res.Endpoint("sub")
	assert.Equal(t, 100.0-30-10-10, sub.Power)
	assert.True(t, res.Ledger[0].Radiation)
	assert.False(t, res.Ledger[1].Radiation)
	assert.False(t, res.Ledger[2].Radiation)
}

func TestRunToolFollowsHolder(t *testing.T) {
	sc := &engine.Scenario{
		Name:   "tool",
		Tier:   types.TierDeathrun,
		Player: types.Vec3{X: 1},
		Zones: []radiation.Zone{
			{Name: "crater", Radius: 20, Active: true},
		},
		Endpoints: []engine.EndpointSpec{
			{Name: "knife", Kind: types.KindTool, Power: 0, Capacity: 100, Held: true},
		},
		Steps: []engine.Step{
			{Action: engine.ActionAdd, Target: "knife", Amount: 8},
			{Action: engine.ActionDrop, Target: "knife"},
			{Action: engine.ActionAdd, Target: "knife", Amount: 9},
		},
	}

	res, err := Run(context.Background(), sc, RunOptions{})
	require.NoError(t, err)

	knife, _ := res.Endpoint("knife")
	assert.Equal(t, 2.0+3.0, knife.Power)
	assert.True(t, res.Ledger[0].Radiation)
	assert.False(t, res.Ledger[1].Radiation)
}

func TestRunSurvivalSteps(t *testing.T) {
	sc := &engine.Scenario{
		Name:          "survival",
		FoodChallenge: types.FoodVegan,
		StartedAt:     90,
		Nitrogen:      survival.Nitrogen{SafeDepth: 100, Level: 40},
		Steps: []engine.Step{
			{Action: engine.ActionUse, Item: string(types.TechFirstAidKit)},
			{Action: engine.ActionEat, Item: "Peeper", FoodValue: -25},
			{Action: engine.ActionWait, Seconds: 600},
			{Action: engine.ActionRespawn},
		},
	}

	res, err := Run(context.Background(), sc, RunOptions{})
	require.NoError(t, err)

	assert.True(t, res.Steps[0].OK, "first aid use is forced to succeed after a purge")
	assert.Equal(t, 50.0, res.Nitrogen.SafeDepth)
	assert.Equal(t, 690.0, res.GameTime)

	require.Len(t, res.Messages, 2)
	assert.Equal(t, survival.FirstAidNotice, res.Messages[0].Text)
	assert.Equal(t, "Vegan Challenge: Negative Food Value!", res.Messages[1].Text)
	assert.True(t, res.Messages[1].Center)

	assert.InDelta(t, 25*0.9, res.Stats.Food, 1e-9)
	assert.InDelta(t, 50*0.9, res.Stats.Water, 1e-9)
}

func TestRunHoldsPurgeNoticeDuringFirstMinute(t *testing.T) {
	sc := &engine.Scenario{
		Name:      "early purge",
		StartedAt: 1,
		Nitrogen:  survival.Nitrogen{SafeDepth: 100},
		Steps: []engine.Step{
			{Action: engine.ActionUse, Item: string(types.TechFirstAidKit)},
			{Action: engine.ActionWait, Seconds: 60},
			{Action: engine.ActionUse, Item: string(types.TechFirstAidKit)},
		},
	}

	res, err := Run(context.Background(), sc, RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 25.0, res.Nitrogen.SafeDepth, "both uses purge")
	require.Len(t, res.Messages, 1)
	assert.Equal(t, survival.FirstAidNotice, res.Messages[0].Text)
}

func TestRunEarlyRespawnRefills(t *testing.T) {
	sc := &engine.Scenario{
		Name:      "respawn",
		StartedAt: 1,
		Steps:     []engine.Step{{Action: engine.ActionRespawn}},
	}

	res, err := Run(context.Background(), sc, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, types.Stats{Food: RespawnFill, Water: RespawnFill}, res.Stats)
}

func TestRunRejectsInvalidScenario(t *testing.T) {
	sc := craftScenario(10)
	sc.Steps = append(sc.Steps, engine.Step{Action: engine.ActionCraft, Target: "fba"})

	_, err := Run(context.Background(), sc, RunOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeScenario))
	assert.Contains(t, err.Error(), "did you mean fab?")
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, craftScenario(10), RunOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRepeatsStopAtFirstFailure(t *testing.T) {
	sc := craftScenario(40)
	sc.Steps[0].Count = 5

	res, err := Run(context.Background(), sc, RunOptions{})
	require.NoError(t, err)
	assert.False(t, res.Steps[0].OK)

	base, _ := res.Endpoint("base")
	assert.Equal(t, 10.0, base.Power)
	assert.Equal(t, 1, res.Summary.Consumption.Vetoed)
}

func TestRunExampleCraftingVeto(t *testing.T) {
	sc, err := scenario.NewParser().ParseFile(filepath.Join("..", "..", "examples", "crafting_veto.hcl"))
	require.NoError(t, err)

	res, err := Run(context.Background(), sc, RunOptions{})
	require.NoError(t, err)
	require.Len(t, res.Steps, 3)

	assert.False(t, res.Steps[0].OK)
	assert.True(t, res.Steps[2].OK)
	base, _ := res.Endpoint("base")
	assert.Equal(t, 4.0+20-15, base.Power)
}
