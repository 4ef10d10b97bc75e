// Package power - Hook bodies for power endpoints and activities
package power

import (
	"go.uber.org/zap"

	"deathrun-power/core/activity"
	"deathrun-power/core/hook"
	"deathrun-power/core/notify"
	"deathrun-power/core/radiation"
	"deathrun-power/core/types"
)

// NotEnoughPower is shown when a crafting draw is vetoed
const NotEnoughPower = "Not Enough Power"

// Adjustment is the lineage of one rewritten energy transfer
type Adjustment struct {
	EndpointID string             `json:"endpoint_id"`
	Kind       types.EndpointKind `json:"kind"`
	Direction  types.Direction    `json:"direction"`
	Tier       types.Tier         `json:"tier"`
	Requested  float64            `json:"requested"`
	Adjusted   float64            `json:"adjusted"`
	Radiation  bool               `json:"radiation"`
	Elevated   bool               `json:"elevated,omitempty"`
	Activities []types.Activity   `json:"activities,omitempty"`
	Formula    string             `json:"formula"`
	Vetoed     bool               `json:"vetoed,omitempty"`
	Available  float64            `json:"available,omitempty"`
}

// Recorder receives every adjustment the patcher makes
type Recorder interface {
	Record(adj Adjustment)
}

// Options configures a Patcher
type Options struct {
	// Tier is fixed for the patcher's lifetime
	Tier types.Tier

	Radiation  *radiation.Classifier
	Activities *activity.Coordinator
	Messages   notify.Messenger

	// Recorder is optional
	Recorder Recorder

	Logger *zap.Logger
}

// Patcher rewrites power transfers on every endpoint kind and tracks the
// four consuming activities. It implements hook.EnergyHook and hook.ActivityHook.
type Patcher struct {
	tier       types.Tier
	radiation  *radiation.Classifier
	activities *activity.Coordinator
	messages   notify.Messenger
	recorder   Recorder
	log        *zap.Logger
}

var (
	_ hook.EnergyHook   = (*Patcher)(nil)
	_ hook.ActivityHook = (*Patcher)(nil)
)

// NewPatcher creates a power patcher
func NewPatcher(opts Options) *Patcher {
	p := &Patcher{
		tier:       opts.Tier,
		radiation:  opts.Radiation,
		activities: opts.Activities,
		messages:   opts.Messages,
		recorder:   opts.Recorder,
		log:        opts.Logger,
	}
	if p.tier == "" {
		p.tier = types.TierNormal
	}
	if p.activities == nil {
		p.activities = activity.NewCoordinator(opts.Logger)
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	return p
}

// Name implements hook.EnergyHook and hook.ActivityHook
func (p *Patcher) Name() string {
	return "power"
}

// Tier returns the session tier
func (p *Patcher) Tier() types.Tier {
	return p.tier
}

// Activities returns the coordinator the patcher reads
func (p *Patcher) Activities() *activity.Coordinator {
	return p.activities
}

// elevated reports whether ep is a fixed installation or any activity is running
func (p *Patcher) elevated(ep types.Endpoint) bool {
	return ep.Kind().IsFixed() || p.activities.Any()
}

// BeforeConsume rewrites the amount drawn from ep. On a relay, a crafting
// draw larger than the available power is vetoed so the host does not
// drain the partial power it would otherwise take on failure.
func (p *Patcher) BeforeConsume(ep types.Endpoint, amount float64) hook.Decision {
	inRadiation := p.radiation.EndpointInRadiation(ep)
	elevated := p.elevated(ep)
	adjusted := AdjustConsumption(amount, inRadiation, elevated, p.tier)

	adj := Adjustment{
		EndpointID: ep.ID(),
		Kind:       ep.Kind(),
		Direction:  types.DirectionConsumption,
		Tier:       p.tier,
		Requested:  amount,
		Adjusted:   adjusted,
		Radiation:  inRadiation,
		Elevated:   elevated,
		Activities: p.activities.Raised(),
		Formula:    Formula(types.DirectionConsumption, inRadiation, elevated, p.tier),
	}

	decision := hook.Proceed(adjusted)
	if ep.Kind().IsRelay() && p.activities.IsRaised(types.ActivityCrafting) {
		if available := ep.Power(); available < adjusted {
			adj.Vetoed = true
			adj.Available = available
			decision = hook.Veto(adjusted)
			if p.messages != nil {
				p.messages.AddMessage(NotEnoughPower)
			}
			p.log.Info("crafting draw vetoed",
				zap.String("endpoint", ep.ID()),
				zap.Float64("available", available),
				zap.Float64("required", adjusted))
		}
	}

	p.record(adj)
	return decision
}

// BeforeAdd rewrites the amount added to ep
func (p *Patcher) BeforeAdd(ep types.Endpoint, amount float64) float64 {
	inRadiation := p.radiation.EndpointInRadiation(ep)
	adjusted := AdjustGain(amount, inRadiation, p.tier)

	p.record(Adjustment{
		EndpointID: ep.ID(),
		Kind:       ep.Kind(),
		Direction:  types.DirectionGain,
		Tier:       p.tier,
		Requested:  amount,
		Adjusted:   adjusted,
		Radiation:  inRadiation,
		Activities: p.activities.Raised(),
		Formula:    Formula(types.DirectionGain, inRadiation, false, p.tier),
	})
	return adjusted
}

// Enter raises the activity flag
func (p *Patcher) Enter(a types.Activity) {
	p.activities.Raise(a)
}

// Exit lowers the activity flag
func (p *Patcher) Exit(a types.Activity) {
	p.activities.Lower(a)
}

func (p *Patcher) record(adj Adjustment) {
	p.log.Debug("power adjusted",
		zap.String("endpoint", adj.EndpointID),
		zap.String("kind", adj.Kind.String()),
		zap.String("direction", string(adj.Direction)),
		zap.String("tier", adj.Tier.String()),
		zap.Bool("radiation", adj.Radiation),
		zap.Bool("elevated", adj.Elevated),
		zap.Float64("requested", adj.Requested),
		zap.Float64("adjusted", adj.Adjusted))
	if p.recorder != nil {
		p.recorder.Record(adj)
	}
}
