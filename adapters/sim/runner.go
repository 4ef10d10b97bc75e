// Package sim - Scenario runner
package sim

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"deathrun-power/core/engine"
	"deathrun-power/core/guards"
	"deathrun-power/core/hook"
	"deathrun-power/core/notify"
	"deathrun-power/core/survival"
	"deathrun-power/core/types"
	"deathrun-power/internal/errors"
)

// RunOptions configures a scenario run
type RunOptions struct {
	// Tier is used when the scenario does not name one
	Tier types.Tier

	// Survival tunes the survival patches; the scenario's food challenge wins
	Survival survival.Settings

	// Messenger also receives every in-game message
	Messenger notify.Messenger

	// Strict panics when a finished run breaks a power invariant
	Strict bool

	Logger *zap.Logger
}

// Runner executes scenarios against a fresh World per run
type Runner struct {
	opts RunOptions
	log  *zap.Logger
}

// NewRunner creates a runner
func NewRunner(opts RunOptions) *Runner {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Survival == (survival.Settings{}) {
		opts.Survival = survival.DefaultSettings()
	}
	return &Runner{opts: opts, log: log}
}

// Run builds a world from the scenario, registers a session on it and
// executes the steps in order. Failed host calls are reported per step;
// only invalid scenarios and cancellation return an error.
func (r *Runner) Run(ctx context.Context, sc *engine.Scenario) (*engine.Result, error) {
	start := time.Now()

	if sc == nil {
		return nil, errors.Input("scenario is required")
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	tier := sc.Tier
	if tier == "" {
		tier = r.opts.Tier
	}
	settings := r.opts.Survival
	if sc.FoodChallenge != "" {
		settings.Challenge = sc.FoodChallenge
	}

	log := r.log.With(zap.String("scenario", sc.Name))
	reg := hook.NewRegistry(log.Named("hooks"))
	world := NewWorld(reg, log.Named("host"))
	for _, z := range sc.Zones {
		world.Zones().Put(z)
	}
	world.Advance(sc.StartedAt)
	world.Player().MoveTo(sc.Player)

	nitrogen := sc.Nitrogen
	session := engine.NewSession(engine.SessionConfig{
		Tier:      tier,
		Survival:  settings,
		Zones:     world.Zones(),
		Clock:     world,
		Nitrogen:  &nitrogen,
		Messenger: r.opts.Messenger,
		Logger:    log,
	})
	if err := session.Register(reg); err != nil {
		return nil, errors.Internal("failed to register hooks", err)
	}
	session.Survival.StartGame(sc.StartedAt)

	if err := build(world, sc); err != nil {
		return nil, err
	}

	result := &engine.Result{
		RunID:    session.ID,
		Scenario: sc.Name,
		Tier:     session.Tier,
		Steps:    make([]engine.StepResult, 0, len(sc.Steps)),
	}

	log.Info("scenario started",
		zap.String("run", session.ID.String()),
		zap.String("tier", session.Tier.String()),
		zap.Int("steps", len(sc.Steps)))

	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(errors.TypeScenario, err, "run cancelled before step %d", i+1)
		}
		session.Ledger.SetStep(i + 1)
		sr := execute(world, st)
		sr.Index = i + 1
		result.Steps = append(result.Steps, sr)
	}
	session.Ledger.SetStep(0)

	for _, ep := range world.Endpoints() {
		result.Endpoints = append(result.Endpoints, engine.EndpointState{
			ID:       ep.ID(),
			Kind:     ep.Kind(),
			Power:    ep.Power(),
			Capacity: ep.Capacity(),
		})
	}
	result.Nitrogen = *session.Survival.Nitrogen()
	result.Stats = world.Player().Stats()
	result.Health = world.Player().Health()
	result.GameTime = world.Now()
	result.Messages = session.Inbox.Messages()
	result.Ledger = session.Ledger.Entries()
	result.Summary = session.Ledger.Summarize()
	result.Duration = time.Since(start).String()

	violations := guards.Check(result, session.Activities.Raised())
	for _, v := range violations {
		log.Error("invariant violated",
			zap.String("rule", string(v.Rule)),
			zap.String("subject", v.Subject),
			zap.String("message", v.Message))
	}
	if r.opts.Strict {
		guards.MustHold(violations)
	}
	result.Violations = guards.Strings(violations)

	log.Info("scenario finished",
		zap.String("run", session.ID.String()),
		zap.Int("failed_steps", len(result.Failed())),
		zap.Int("adjustments", session.Ledger.Len()),
		zap.Int("messages", len(result.Messages)))
	return result, nil
}

// Run executes a scenario with a one-off runner
func Run(ctx context.Context, sc *engine.Scenario, opts RunOptions) (*engine.Result, error) {
	return NewRunner(opts).Run(ctx, sc)
}

// build creates the scenario's endpoints and machines in the world
func build(world *World, sc *engine.Scenario) error {
	for _, e := range sc.Endpoints {
		var ep Powered
		switch e.Kind {
		case types.KindInstallation:
			ep = world.NewRelay(e.Name, true, e.Position, e.Power, e.Capacity)
		case types.KindMobileRelay:
			ep = world.NewRelay(e.Name, false, e.Position, e.Power, e.Capacity)
		case types.KindVehicle:
			ep = world.NewVehicle(e.Name, e.Position, e.Power, e.Capacity)
		case types.KindTool:
			var holder *Player
			if e.Held {
				holder = world.Player()
			}
			ep = world.NewToolBattery(e.Name, holder, e.Power, e.Capacity)
		default:
			return errors.NotSupported("endpoint kind " + string(e.Kind))
		}
		if err := world.AddEndpoint(ep); err != nil {
			return errors.Wrap(errors.TypeScenario, "failed to add endpoint", err)
		}
	}

	for _, m := range sc.Machines {
		ep, ok := world.Endpoint(m.Relay)
		if !ok {
			return errors.NotFound("relay", m.Relay)
		}
		relay, ok := ep.(*Relay)
		if !ok {
			return errors.Scenario(fmt.Sprintf("machine %s: %s is not a relay", m.Name, m.Relay))
		}

		var machine Machine
		switch m.Kind {
		case engine.MachineFabricator:
			machine = world.NewFabricator(m.Name, relay, m.Cost)
		case engine.MachineFiltration:
			machine = world.NewFiltrationMachine(m.Name, relay, m.Cost)
		case engine.MachineScanner:
			machine = world.NewScanner(m.Name, relay, m.Cost)
		case engine.MachineCharger:
			charger := world.NewCharger(m.Name, relay, m.Cost)
			for _, id := range m.Batteries {
				b, ok := world.Endpoint(id)
				if !ok {
					return errors.NotFound("battery", id)
				}
				charger.Insert(b)
			}
			machine = charger
		default:
			return errors.NotSupported("machine kind " + string(m.Kind))
		}
		if err := world.AddMachine(machine); err != nil {
			return errors.Wrap(errors.TypeScenario, "failed to add machine", err)
		}
	}
	return nil
}

// execute performs one step, repeated Count times. Repeats stop at the
// first failure.
func execute(world *World, st engine.Step) engine.StepResult {
	sr := engine.StepResult{Action: st.Action, Target: st.Target, OK: true}

	times := st.Count
	if times < 1 {
		times = 1
	}
	for n := 0; n < times && sr.OK; n++ {
		sr.OK, sr.Detail = executeOnce(world, st)
	}
	return sr
}

func executeOnce(world *World, st engine.Step) (bool, string) {
	switch st.Action {
	case engine.ActionConsume:
		ep, _ := world.Endpoint(st.Target)
		ok := ep.ConsumeEnergy(st.Amount)
		return ok, fmt.Sprintf("power %g", ep.Power())

	case engine.ActionAdd:
		ep, _ := world.Endpoint(st.Target)
		ep.AddEnergy(st.Amount)
		return true, fmt.Sprintf("power %g", ep.Power())

	case engine.ActionCraft, engine.ActionFilter, engine.ActionScan, engine.ActionCharge:
		m, _ := world.Machine(st.Target)
		return m.Run(), ""

	case engine.ActionMove:
		if st.Target == engine.PlayerTarget {
			world.Player().MoveTo(*st.Position)
			return true, ""
		}
		ep, _ := world.Endpoint(st.Target)
		mv, ok := ep.(Movable)
		if !ok {
			return false, "not movable"
		}
		mv.MoveTo(*st.Position)
		return true, ""

	case engine.ActionSeal, engine.ActionUnseal:
		return world.Zones().SetActive(st.Target, st.Action == engine.ActionUnseal), ""

	case engine.ActionHold, engine.ActionDrop:
		ep, _ := world.Endpoint(st.Target)
		tool, ok := ep.(*ToolBattery)
		if !ok {
			return false, "not a tool"
		}
		if st.Action == engine.ActionHold {
			tool.SetHolder(world.Player())
		} else {
			tool.SetHolder(nil)
		}
		return true, ""

	case engine.ActionUse:
		ok := world.Player().Use(types.TechType(st.Item))
		return ok, fmt.Sprintf("health %g", world.Player().Health())

	case engine.ActionEat:
		ok := world.Player().Eat(types.Food{Tech: types.TechType(st.Item), FoodValue: st.FoodValue})
		return ok, fmt.Sprintf("food %g", world.Player().Stats().Food)

	case engine.ActionRespawn:
		world.Player().Respawn()
		s := world.Player().Stats()
		return true, fmt.Sprintf("food %g water %g", s.Food, s.Water)

	case engine.ActionWait:
		world.Advance(st.Seconds)
		return true, ""
	}
	return false, "unsupported action"
}
