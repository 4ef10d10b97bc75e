// Package sim is a simulated host power subsystem.
//
// It stands in for the game: it owns endpoints, machines, the player and the
// hazard zones, and runs its own power logic after giving the registered
// hooks first refusal on every call. Everything runs on the caller's
// goroutine, mirroring the game's single update thread.
package sim

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"deathrun-power/core/hook"
	"deathrun-power/core/radiation"
	"deathrun-power/core/types"
)

// Powered is an endpoint the host can draw from and charge
type Powered interface {
	types.Endpoint

	// ConsumeEnergy draws amount and reports whether there was enough
	ConsumeEnergy(amount float64) bool

	// AddEnergy stores amount, up to capacity
	AddEnergy(amount float64)

	// Capacity returns the maximum storable power
	Capacity() float64
}

// World is the simulated host
type World struct {
	hooks  *hook.Registry
	zones  *radiation.ZoneSet
	player *Player
	time   float64
	log    *zap.Logger

	endpoints map[string]Powered
	machines  map[string]Machine
}

// NewWorld creates an empty world dispatching through hooks
func NewWorld(hooks *hook.Registry, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	if hooks == nil {
		hooks = hook.NewRegistry(log)
	}
	w := &World{
		hooks:     hooks,
		zones:     radiation.NewZoneSet(),
		log:       log,
		endpoints: make(map[string]Powered),
		machines:  make(map[string]Machine),
	}
	w.player = newPlayer(w)
	return w
}

// Hooks returns the registry the world dispatches through
func (w *World) Hooks() *hook.Registry {
	return w.hooks
}

// Zones returns the world's hazard zones
func (w *World) Zones() *radiation.ZoneSet {
	return w.zones
}

// Player returns the player
func (w *World) Player() *Player {
	return w.player
}

// Now implements survival.Clock
func (w *World) Now() float64 {
	return w.time
}

// Advance moves game time forward
func (w *World) Advance(seconds float64) {
	if seconds > 0 {
		w.time += seconds
	}
}

func (w *World) claim(id string) error {
	if id == "" {
		return fmt.Errorf("empty id")
	}
	if _, exists := w.endpoints[id]; exists {
		return fmt.Errorf("id already in use: %s", id)
	}
	if _, exists := w.machines[id]; exists {
		return fmt.Errorf("id already in use: %s", id)
	}
	return nil
}

// AddEndpoint registers a powered endpoint
func (w *World) AddEndpoint(ep Powered) error {
	if err := w.claim(ep.ID()); err != nil {
		return err
	}
	w.endpoints[ep.ID()] = ep
	return nil
}

// AddMachine registers a machine
func (w *World) AddMachine(m Machine) error {
	if err := w.claim(m.ID()); err != nil {
		return err
	}
	w.machines[m.ID()] = m
	return nil
}

// Endpoint looks up an endpoint by ID
func (w *World) Endpoint(id string) (Powered, bool) {
	ep, ok := w.endpoints[id]
	return ep, ok
}

// Machine looks up a machine by ID
func (w *World) Machine(id string) (Machine, bool) {
	m, ok := w.machines[id]
	return m, ok
}

// Endpoints returns every endpoint sorted by ID
func (w *World) Endpoints() []Powered {
	out := make([]Powered, 0, len(w.endpoints))
	for _, ep := range w.endpoints {
		out = append(out, ep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// consume routes a draw through the hooks and then the host logic
func (w *World) consume(ep types.Endpoint, amount float64, host func(float64) bool) bool {
	ok := w.hooks.ConsumeEnergy(ep, amount, host)
	w.log.Debug("host consume",
		zap.String("endpoint", ep.ID()),
		zap.Float64("requested", amount),
		zap.Bool("ok", ok),
		zap.Float64("remaining", ep.Power()))
	return ok
}

// add routes a gain through the hooks and then the host logic
func (w *World) add(ep types.Endpoint, amount float64, host func(float64)) {
	w.hooks.AddEnergy(ep, amount, host)
	w.log.Debug("host add",
		zap.String("endpoint", ep.ID()),
		zap.Float64("requested", amount),
		zap.Float64("stored", ep.Power()))
}
