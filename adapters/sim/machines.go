// Package sim - Power-consuming machines
package sim

import (
	"deathrun-power/core/types"
)

// Machine is a host subsystem whose single power draw is one activity
type Machine interface {
	ID() string

	// Activity returns the activity the machine's draw is bracketed with
	Activity() types.Activity

	// Run performs one cycle of the machine and reports whether it had power
	Run() bool
}

// station is a machine powered by a relay
type station struct {
	id       string
	activity types.Activity
	relay    *Relay
	cost     float64
	world    *World
}

func (s *station) ID() string               { return s.id }
func (s *station) Activity() types.Activity { return s.activity }

// Run brackets the relay draw with the machine's activity
func (s *station) Run() bool {
	return s.world.hooks.Activity(s.activity, func() bool {
		return s.relay.ConsumeEnergy(s.cost)
	})
}

// NewFabricator creates a fabricator that draws cost per crafted item
func (w *World) NewFabricator(id string, relay *Relay, cost float64) Machine {
	return &station{id: id, activity: types.ActivityCrafting, relay: relay, cost: cost, world: w}
}

// NewFiltrationMachine creates a water filtration machine that draws cost per cycle
func (w *World) NewFiltrationMachine(id string, relay *Relay, cost float64) Machine {
	return &station{id: id, activity: types.ActivityFiltration, relay: relay, cost: cost, world: w}
}

// NewScanner creates a scanner room that draws cost per scan
func (w *World) NewScanner(id string, relay *Relay, cost float64) Machine {
	return &station{id: id, activity: types.ActivityScanning, relay: relay, cost: cost, world: w}
}

// Charger draws from its relay and spreads the energy over its batteries
type Charger struct {
	id        string
	relay     *Relay
	rate      float64
	batteries []Powered
	world     *World
}

// NewCharger creates a charger that draws rate per cycle
func (w *World) NewCharger(id string, relay *Relay, rate float64, batteries ...Powered) *Charger {
	return &Charger{id: id, relay: relay, rate: rate, batteries: batteries, world: w}
}

func (c *Charger) ID() string               { return c.id }
func (c *Charger) Activity() types.Activity { return types.ActivityCharging }

// Insert puts another battery into the charger
func (c *Charger) Insert(b Powered) {
	c.batteries = append(c.batteries, b)
}

// Run draws one cycle and, if the draw succeeded, charges every battery
// that is not yet full with an equal share
func (c *Charger) Run() bool {
	return c.world.hooks.Activity(types.ActivityCharging, func() bool {
		var pending []Powered
		for _, b := range c.batteries {
			if b.Power() < b.Capacity() {
				pending = append(pending, b)
			}
		}
		if len(pending) == 0 {
			return false
		}
		if !c.relay.ConsumeEnergy(c.rate) {
			return false
		}
		share := c.rate / float64(len(pending))
		for _, b := range pending {
			b.AddEnergy(share)
		}
		return true
	})
}
