// Package engine - Scenario model
package engine

import (
	"fmt"

	"go.uber.org/multierr"

	"deathrun-power/core/power"
	"deathrun-power/core/radiation"
	"deathrun-power/core/survival"
	"deathrun-power/core/types"
	"deathrun-power/internal/errors"
	"deathrun-power/internal/suggest"
)

// Action is what a scenario step does
type Action string

const (
	ActionConsume Action = "consume"
	ActionAdd     Action = "add"
	ActionCraft   Action = "craft"
	ActionFilter  Action = "filter"
	ActionScan    Action = "scan"
	ActionCharge  Action = "charge"
	ActionMove    Action = "move"
	ActionSeal    Action = "seal"
	ActionUnseal  Action = "unseal"
	ActionHold    Action = "hold"
	ActionDrop    Action = "drop"
	ActionUse     Action = "use"
	ActionEat     Action = "eat"
	ActionRespawn Action = "respawn"
	ActionWait    Action = "wait"
)

// Actions lists every step action
var Actions = []Action{
	ActionConsume, ActionAdd, ActionCraft, ActionFilter, ActionScan, ActionCharge,
	ActionMove, ActionSeal, ActionUnseal, ActionHold, ActionDrop,
	ActionUse, ActionEat, ActionRespawn, ActionWait,
}

// MachineActivity maps machine actions to the activity they bracket
var MachineActivity = map[Action]types.Activity{
	ActionCraft:  types.ActivityCrafting,
	ActionFilter: types.ActivityFiltration,
	ActionScan:   types.ActivityScanning,
	ActionCharge: types.ActivityCharging,
}

// PlayerTarget is the reserved target name of the player
const PlayerTarget = "player"

// MachineKind names a machine type
type MachineKind string

const (
	MachineFabricator MachineKind = "fabricator"
	MachineFiltration MachineKind = "filtration"
	MachineScanner    MachineKind = "scanner"
	MachineCharger    MachineKind = "charger"
)

// Activity returns the activity a machine kind brackets
func (k MachineKind) Activity() (types.Activity, bool) {
	switch k {
	case MachineFabricator:
		return types.ActivityCrafting, true
	case MachineFiltration:
		return types.ActivityFiltration, true
	case MachineScanner:
		return types.ActivityScanning, true
	case MachineCharger:
		return types.ActivityCharging, true
	}
	return 0, false
}

// EndpointSpec declares a power endpoint
type EndpointSpec struct {
	Name     string             `json:"name"`
	Kind     types.EndpointKind `json:"kind"`
	Position types.Vec3         `json:"position"`
	Power    float64            `json:"power"`
	Capacity float64            `json:"capacity"`

	// Held applies to tools: whether the player carries it at the start
	Held bool `json:"held,omitempty"`
}

// MachineSpec declares a machine powered by a relay
type MachineSpec struct {
	Name      string      `json:"name"`
	Kind      MachineKind `json:"kind"`
	Relay     string      `json:"relay"`
	Cost      float64     `json:"cost"`
	Batteries []string    `json:"batteries,omitempty"`
}

// Step is one scripted host call
type Step struct {
	Action    Action      `json:"action"`
	Target    string      `json:"target,omitempty"`
	Amount    float64     `json:"amount,omitempty"`
	Count     int         `json:"count,omitempty"`
	Position  *types.Vec3 `json:"position,omitempty"`
	Item      string      `json:"item,omitempty"`
	FoodValue float64     `json:"food_value,omitempty"`
	Seconds   float64     `json:"seconds,omitempty"`

	// Line is the source line of the step, 0 when not parsed from a file
	Line int `json:"line,omitempty"`
}

// Scenario is a complete scripted run against the simulated host
type Scenario struct {
	Name          string              `json:"name"`
	Tier          types.Tier          `json:"tier"`
	FoodChallenge types.FoodChallenge `json:"food_challenge"`
	StartedAt     float64             `json:"started_at"`
	Player        types.Vec3          `json:"player"`
	Nitrogen      survival.Nitrogen   `json:"nitrogen"`
	Zones         []radiation.Zone    `json:"zones,omitempty"`
	Endpoints     []EndpointSpec      `json:"endpoints,omitempty"`
	Machines      []MachineSpec       `json:"machines,omitempty"`
	Steps         []Step              `json:"steps"`
}

func (s *Scenario) names() (endpoints map[string]EndpointSpec, machines map[string]MachineSpec, zones map[string]bool) {
	endpoints = make(map[string]EndpointSpec)
	machines = make(map[string]MachineSpec)
	zones = make(map[string]bool)
	for _, e := range s.Endpoints {
		endpoints[e.Name] = e
	}
	for _, m := range s.Machines {
		machines[m.Name] = m
	}
	for _, z := range s.Zones {
		zones[z.Name] = true
	}
	return endpoints, machines, zones
}

type number struct {
	field string
	value float64
}

// numbers lists every numeric input of the scenario with a readable field name
func (s *Scenario) numbers() []number {
	var out []number
	add := func(field string, v float64) { out = append(out, number{field, v}) }
	vec := func(field string, v types.Vec3) {
		add(field+".x", v.X)
		add(field+".y", v.Y)
		add(field+".z", v.Z)
	}

	add("started_at", s.StartedAt)
	vec("player", s.Player)
	add("nitrogen.safe_depth", s.Nitrogen.SafeDepth)
	add("nitrogen.level", s.Nitrogen.Level)
	for _, z := range s.Zones {
		vec("zone "+z.Name+" center", z.Center)
		add("zone "+z.Name+" radius", z.Radius)
		add("zone "+z.Name+" max_depth", z.MaxDepth)
	}
	for _, e := range s.Endpoints {
		vec("endpoint "+e.Name+" position", e.Position)
		add("endpoint "+e.Name+" power", e.Power)
		add("endpoint "+e.Name+" capacity", e.Capacity)
	}
	for _, m := range s.Machines {
		add("machine "+m.Name+" cost", m.Cost)
	}
	for i, st := range s.Steps {
		where := fmt.Sprintf("step %d", i+1)
		add(where+" amount", st.Amount)
		add(where+" food_value", st.FoodValue)
		add(where+" seconds", st.Seconds)
		if st.Position != nil {
			vec(where+" position", *st.Position)
		}
	}
	return out
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// Validate checks every reference in the scenario and reports all problems at once
func (s *Scenario) Validate() error {
	var errs error
	fail := func(format string, args ...interface{}) {
		errs = multierr.Append(errs, errors.Newf(errors.TypeScenario, format, args...))
	}

	if s.Tier != "" && !s.Tier.IsValid() {
		fail("unknown tier %q", s.Tier)
	}
	if s.FoodChallenge != "" && !s.FoodChallenge.IsValid() {
		fail("unknown food challenge %q", s.FoodChallenge)
	}
	for _, n := range s.numbers() {
		if !power.InRange(n.value) {
			fail("%s: %g is out of range (magnitude at most %g)", n.field, n.value, power.MaxAmount)
		}
	}

	endpoints, machines, zones := s.names()
	seen := make(map[string]bool)
	for _, e := range s.Endpoints {
		switch {
		case e.Name == "" || e.Name == PlayerTarget:
			fail("invalid endpoint name %q", e.Name)
		case seen[e.Name]:
			fail("duplicate name %q", e.Name)
		}
		seen[e.Name] = true
		switch e.Kind {
		case types.KindInstallation, types.KindMobileRelay, types.KindTool, types.KindVehicle:
		default:
			fail("endpoint %s: unknown kind %q", e.Name, e.Kind)
		}
		if e.Capacity < e.Power {
			fail("endpoint %s: power %g exceeds capacity %g", e.Name, e.Power, e.Capacity)
		}
	}

	for _, m := range s.Machines {
		if seen[m.Name] || m.Name == "" || m.Name == PlayerTarget {
			fail("invalid or duplicate machine name %q", m.Name)
		}
		seen[m.Name] = true
		if _, ok := m.Kind.Activity(); !ok {
			fail("machine %s: unknown kind %q", m.Name, m.Kind)
		}
		relay, ok := endpoints[m.Relay]
		if !ok {
			fail("machine %s: relay %q not found%s", m.Name, m.Relay, suggest.Hint(m.Relay, keys(endpoints)))
		} else if !relay.Kind.IsRelay() {
			fail("machine %s: %q is a %s, not a relay", m.Name, m.Relay, relay.Kind)
		}
		if len(m.Batteries) > 0 && m.Kind != MachineCharger {
			fail("machine %s: only chargers hold batteries", m.Name)
		}
		for _, b := range m.Batteries {
			if _, ok := endpoints[b]; !ok {
				fail("machine %s: battery %q not found%s", m.Name, b, suggest.Hint(b, keys(endpoints)))
			}
		}
	}

	for i, st := range s.Steps {
		where := fmt.Sprintf("step %d", i+1)
		if st.Line > 0 {
			where = fmt.Sprintf("step %d (line %d)", i+1, st.Line)
		}
		if err := s.validateStep(st, endpoints, machines, zones); err != "" {
			fail("%s: %s", where, err)
		}
	}

	return errs
}

func (s *Scenario) validateStep(st Step, endpoints map[string]EndpointSpec, machines map[string]MachineSpec, zones map[string]bool) string {
	switch st.Action {
	case ActionConsume, ActionAdd:
		if _, ok := endpoints[st.Target]; !ok {
			return fmt.Sprintf("endpoint %q not found%s", st.Target, suggest.Hint(st.Target, keys(endpoints)))
		}
	case ActionCraft, ActionFilter, ActionScan, ActionCharge:
		m, ok := machines[st.Target]
		if !ok {
			return fmt.Sprintf("machine %q not found%s", st.Target, suggest.Hint(st.Target, keys(machines)))
		}
		if a, _ := m.Kind.Activity(); a != MachineActivity[st.Action] {
			return fmt.Sprintf("machine %q is a %s and cannot %s", st.Target, m.Kind, st.Action)
		}
	case ActionMove:
		if st.Position == nil {
			return "move needs a position"
		}
		if st.Target == PlayerTarget {
			break
		}
		e, ok := endpoints[st.Target]
		if !ok {
			return fmt.Sprintf("target %q not found%s", st.Target, suggest.Hint(st.Target, append(keys(endpoints), PlayerTarget)))
		}
		if e.Kind == types.KindInstallation || e.Kind == types.KindTool {
			return fmt.Sprintf("%q is a %s and cannot be moved", st.Target, e.Kind)
		}
	case ActionSeal, ActionUnseal:
		if !zones[st.Target] {
			return fmt.Sprintf("zone %q not found%s", st.Target, suggest.Hint(st.Target, keys(zones)))
		}
	case ActionHold, ActionDrop:
		if e, ok := endpoints[st.Target]; !ok || e.Kind != types.KindTool {
			return fmt.Sprintf("tool %q not found", st.Target)
		}
	case ActionUse, ActionEat:
		if st.Item == "" {
			return fmt.Sprintf("%s needs an item", st.Action)
		}
	case ActionRespawn:
	case ActionWait:
		if st.Seconds <= 0 {
			return "wait needs a positive number of seconds"
		}
	default:
		names := make([]string, len(Actions))
		for i, a := range Actions {
			names[i] = string(a)
		}
		return fmt.Sprintf("unknown action %q%s", st.Action, suggest.Hint(string(st.Action), names))
	}
	if st.Count < 0 {
		return "count must not be negative"
	}
	return ""
}
