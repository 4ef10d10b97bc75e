// Package engine - Run results
package engine

import (
	"github.com/google/uuid"

	"deathrun-power/core/ledger"
	"deathrun-power/core/notify"
	"deathrun-power/core/survival"
	"deathrun-power/core/types"
)

// StepResult is the outcome of one scenario step
type StepResult struct {
	Index  int    `json:"index"`
	Action Action `json:"action"`
	Target string `json:"target,omitempty"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// EndpointState is an endpoint's stored power after the run
type EndpointState struct {
	ID       string             `json:"id"`
	Kind     types.EndpointKind `json:"kind"`
	Power    float64            `json:"power"`
	Capacity float64            `json:"capacity"`
}

// Result is the complete outcome of a scenario run
type Result struct {
	RunID     uuid.UUID         `json:"run_id"`
	Scenario  string            `json:"scenario"`
	Tier      types.Tier        `json:"tier"`
	Steps     []StepResult      `json:"steps"`
	Endpoints []EndpointState   `json:"endpoints"`
	Nitrogen  survival.Nitrogen `json:"nitrogen"`
	Stats     types.Stats       `json:"stats"`
	Health    float64           `json:"health"`
	GameTime  float64           `json:"game_time"`
	Messages  []notify.Message  `json:"messages,omitempty"`
	Ledger    []ledger.Entry    `json:"ledger,omitempty"`
	Summary   *ledger.Summary   `json:"summary"`
	Duration  string            `json:"duration"`

	// Violations lists broken power invariants; empty on a healthy run
	Violations []string `json:"violations,omitempty"`
}

// Failed returns the steps whose host call reported failure
func (r *Result) Failed() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if !s.OK {
			out = append(out, s)
		}
	}
	return out
}

// Endpoint returns the final state of an endpoint by ID
func (r *Result) Endpoint(id string) (EndpointState, bool) {
	for _, e := range r.Endpoints {
		if e.ID == id {
			return e, true
		}
	}
	return EndpointState{}, false
}
