package power

import (
	"testing"

	"deathrun-power/core/activity"
	"deathrun-power/core/notify"
	"deathrun-power/core/radiation"
	"deathrun-power/core/types"
)

type fakeEndpoint struct {
	id        string
	kind      types.EndpointKind
	transform *types.Transform
	power     float64
}

func (f *fakeEndpoint) ID() string                  { return f.id }
func (f *fakeEndpoint) Kind() types.EndpointKind    { return f.kind }
func (f *fakeEndpoint) Transform() *types.Transform { return f.transform }
func (f *fakeEndpoint) Power() float64              { return f.power }

type recorded []Adjustment

func (r *recorded) Record(adj Adjustment) { *r = append(*r, adj) }

var (
	irradiated = &types.Transform{Position: types.Vec3{X: 1000}}
	safe       = &types.Transform{Position: types.Vec3{X: -1000}}
)

func newTestPatcher(tier types.Tier) (*Patcher, *notify.Inbox, *recorded) {
	zones := radiation.NewZoneSet(radiation.Zone{
		Name:   "aurora",
		Center: types.Vec3{X: 1000},
		Radius: 100,
		Active: true,
	})
	inbox := notify.NewInbox()
	rec := &recorded{}
	p := NewPatcher(Options{
		Tier:       tier,
		Radiation:  radiation.NewClassifier(zones),
		Activities: activity.NewCoordinator(nil),
		Messages:   inbox,
		Recorder:   rec,
	})
	return p, inbox, rec
}

func TestCraftingVetoKeepsPartialPower(t *testing.T) {
	p, inbox, rec := newTestPatcher(types.TierDeathrun)
	base := &fakeEndpoint{id: "seabase", kind: types.KindInstallation, transform: safe, power: 4}

	p.Enter(types.ActivityCrafting)
	d := p.BeforeConsume(base, 5)
	p.Exit(types.ActivityCrafting)

	if d.Amount != 15 {
		t.Errorf("Expected adjusted amount 15, got %v", d.Amount)
	}
	if !d.Skip || d.Result {
		t.Errorf("Expected a vetoed decision, got %+v", d)
	}
	if base.power != 4 {
		t.Errorf("Expected stored power to stay 4, got %v", base.power)
	}
	if n := inbox.Count(NotEnoughPower); n != 1 {
		t.Errorf("Expected exactly one %q message, got %d", NotEnoughPower, n)
	}
	if len(*rec) != 1 || !(*rec)[0].Vetoed || (*rec)[0].Available != 4 {
		t.Errorf("Expected one vetoed adjustment, got %+v", *rec)
	}
}

func TestSmallDrawProceedsAtNormalTier(t *testing.T) {
	p, inbox, _ := newTestPatcher(types.TierNormal)
	base := &fakeEndpoint{id: "seabase", kind: types.KindMobileRelay, transform: safe, power: 4}

	d := p.BeforeConsume(base, 1)

	if d.Skip {
		t.Fatalf("Expected host call to proceed, got %+v", d)
	}
	if d.Amount != 1 {
		t.Errorf("Expected amount 1, got %v", d.Amount)
	}
	if len(inbox.Messages()) != 0 {
		t.Errorf("Expected no messages, got %v", inbox.Messages())
	}
}

func TestVetoOnlyAppliesToRelaysWhileCrafting(t *testing.T) {
	p, inbox, _ := newTestPatcher(types.TierDeathrun)
	vehicle := &fakeEndpoint{id: "seamoth", kind: types.KindVehicle, transform: safe, power: 1}
	base := &fakeEndpoint{id: "seabase", kind: types.KindInstallation, transform: safe, power: 1}

	p.Enter(types.ActivityCrafting)
	if d := p.BeforeConsume(vehicle, 10); d.Skip {
		t.Error("vehicles are never vetoed")
	}
	p.Exit(types.ActivityCrafting)

	p.Enter(types.ActivityFiltration)
	if d := p.BeforeConsume(base, 10); d.Skip {
		t.Error("only crafting draws are vetoed")
	}
	p.Exit(types.ActivityFiltration)

	if len(inbox.Messages()) != 0 {
		t.Errorf("Expected no messages, got %v", inbox.Messages())
	}
}

func TestElevatedContext(t *testing.T) {
	p, _, _ := newTestPatcher(types.TierHard)
	tool := &fakeEndpoint{id: "scanner", kind: types.KindTool, transform: safe}
	base := &fakeEndpoint{id: "seabase", kind: types.KindInstallation, transform: safe, power: 100}
	cyclops := &fakeEndpoint{id: "cyclops", kind: types.KindMobileRelay, transform: safe, power: 100}

	if got := p.BeforeConsume(tool, 3).Amount; got != 3 {
		t.Errorf("idle tool draw: got %v, want 3", got)
	}
	if got := p.BeforeConsume(base, 3).Amount; got != 6 {
		t.Errorf("installation draw: got %v, want 6", got)
	}
	if got := p.BeforeConsume(cyclops, 3).Amount; got != 3 {
		t.Errorf("mobile relay draw: got %v, want 3", got)
	}

	p.Enter(types.ActivityCharging)
	if got := p.BeforeConsume(tool, 3).Amount; got != 6 {
		t.Errorf("tool draw while charging: got %v, want 6", got)
	}
	if got := p.BeforeConsume(cyclops, 3).Amount; got != 6 {
		t.Errorf("mobile relay draw while charging: got %v, want 6", got)
	}
	p.Exit(types.ActivityCharging)

	if p.Activities().Any() {
		t.Error("Expected every activity lowered")
	}
}

func TestRadiationDrivesBothDirections(t *testing.T) {
	p, _, rec := newTestPatcher(types.TierDeathrun)
	hot := &fakeEndpoint{id: "panel", kind: types.KindInstallation, transform: irradiated, power: 100}

	if got := p.BeforeAdd(hot, 8); got != 2 {
		t.Errorf("gain in radiation: got %v, want 2", got)
	}
	if got := p.BeforeConsume(hot, 2).Amount; got != 10 {
		t.Errorf("draw in radiation: got %v, want 10", got)
	}
	for _, adj := range *rec {
		if !adj.Radiation {
			t.Errorf("Expected radiation lineage, got %+v", adj)
		}
	}
}

func TestMissingTransformTakesSafeBranch(t *testing.T) {
	p, _, rec := newTestPatcher(types.TierDeathrun)
	loose := &fakeEndpoint{id: "battery", kind: types.KindTool}

	if got := p.BeforeAdd(loose, 9); got != 3 {
		t.Errorf("gain without transform: got %v, want 3", got)
	}
	if got := p.BeforeConsume(loose, 2).Amount; got != 2 {
		t.Errorf("draw without transform: got %v, want 2", got)
	}
	for _, adj := range *rec {
		if adj.Radiation {
			t.Errorf("Expected no radiation without a transform, got %+v", adj)
		}
	}
}

func TestDefaults(t *testing.T) {
	p := NewPatcher(Options{})
	if p.Tier() != types.TierNormal {
		t.Errorf("Expected default tier normal, got %s", p.Tier())
	}
	ep := &fakeEndpoint{id: "x", kind: types.KindInstallation, power: 0}
	p.Enter(types.ActivityCrafting)
	d := p.BeforeConsume(ep, 1)
	p.Exit(types.ActivityCrafting)
	if !d.Skip {
		t.Error("Expected veto without a messenger to still skip the host")
	}
}
