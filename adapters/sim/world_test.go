package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deathrun-power/core/engine"
	"deathrun-power/core/types"
)

func newSessionWorld(t *testing.T, tier types.Tier) (*World, *engine.Session) {
	t.Helper()
	w := NewWorld(nil, nil)
	s := engine.NewSession(engine.SessionConfig{Tier: tier, Zones: w.Zones(), Clock: w})
	require.NoError(t, s.Register(w.Hooks()))
	return w, s
}

func TestHostDrainsOnFailedDrawWithoutHooks(t *testing.T) {
	w := NewWorld(nil, nil)
	relay := w.NewRelay("base", true, types.Vec3{}, 4, 100)

	assert.False(t, relay.ConsumeEnergy(5))
	assert.Equal(t, 0.0, relay.Power())

	relay.AddEnergy(500)
	assert.Equal(t, 100.0, relay.Power())
}

func TestIDsAreUniqueAcrossEndpointsAndMachines(t *testing.T) {
	w := NewWorld(nil, nil)
	relay := w.NewRelay("base", true, types.Vec3{}, 10, 100)
	require.NoError(t, w.AddEndpoint(relay))

	assert.Error(t, w.AddEndpoint(w.NewVehicle("base", types.Vec3{}, 0, 10)))
	assert.Error(t, w.AddMachine(w.NewFabricator("base", relay, 1)))
	assert.Error(t, w.AddMachine(w.NewScanner("", relay, 1)))
	require.NoError(t, w.AddMachine(w.NewScanner("scanner", relay, 1)))
}

func TestActivityFlagLoweredWhenHostPanics(t *testing.T) {
	w, s := newSessionWorld(t, types.TierDeathrun)

	func() {
		defer func() {
			assert.NotNil(t, recover())
		}()
		w.Hooks().Activity(types.ActivityCrafting, func() bool {
			require.True(t, s.Activities.IsRaised(types.ActivityCrafting))
			panic("host failure")
		})
	}()

	assert.False(t, s.Activities.IsRaised(types.ActivityCrafting))
	assert.False(t, s.Activities.Any())
}

func TestMobileRelayElevatedOnlyDuringActivity(t *testing.T) {
	w, _ := newSessionWorld(t, types.TierDeathrun)
	relay := w.NewRelay("cyclops", false, types.Vec3{}, 100, 100)
	scanner := w.NewScanner("scanner", relay, 10)

	require.True(t, relay.ConsumeEnergy(10))
	assert.Equal(t, 90.0, relay.Power())

	require.True(t, scanner.Run())
	assert.Equal(t, 60.0, relay.Power())
}

func TestScanningDoesNotVetoButDrains(t *testing.T) {
	w, s := newSessionWorld(t, types.TierDeathrun)
	relay := w.NewRelay("base", true, types.Vec3{}, 20, 100)
	scanner := w.NewScanner("scanner", relay, 10)

	assert.False(t, scanner.Run())
	assert.Equal(t, 0.0, relay.Power(), "only crafting is protected from partial drains")
	assert.Empty(t, s.Inbox.Messages())
}

func TestChargerSkipsFullBatteries(t *testing.T) {
	w, _ := newSessionWorld(t, types.TierNormal)
	relay := w.NewRelay("base", true, types.Vec3{}, 100, 100)
	full := w.NewVehicle("full", types.Vec3{}, 10, 10)
	empty := w.NewVehicle("empty", types.Vec3{}, 0, 10)
	charger := w.NewCharger("charger", relay, 4, full)
	charger.Insert(empty)

	require.True(t, charger.Run())
	assert.Equal(t, 10.0, full.Power())
	assert.Equal(t, 4.0, empty.Power())
	assert.Equal(t, 96.0, relay.Power())

	w2, _ := newSessionWorld(t, types.TierNormal)
	idle := w2.NewCharger("idle", w2.NewRelay("r", true, types.Vec3{}, 5, 5), 1, w2.NewVehicle("v", types.Vec3{}, 1, 1))
	assert.False(t, idle.Run(), "a charger with only full batteries draws nothing")
}

func TestPlayerUseAndClock(t *testing.T) {
	w, _ := newSessionWorld(t, types.TierNormal)
	p := w.Player()

	p.SetHealth(30)
	assert.True(t, p.Use(types.TechFirstAidKit))
	assert.Equal(t, 80.0, p.Health())
	assert.False(t, p.Use(types.TechBoomerang))

	w.Advance(-5)
	assert.Equal(t, 0.0, w.Now())
	w.Advance(12.5)
	assert.Equal(t, 12.5, w.Now())
}
