// Package guards - Runtime assertion guards
// Checks a finished run against the power invariants. Strict callers panic
// on the first violation; everyone else reports them with the result.
package guards

import (
	"fmt"
	"strings"

	"deathrun-power/core/engine"
	"deathrun-power/core/ledger"
	"deathrun-power/core/types"
)

// Rule names a checked invariant
type Rule string

const (
	RulePowerBounds     Rule = "power_bounds"
	RuleGainShrinks     Rule = "gain_shrinks"
	RuleDrawGrows       Rule = "draw_grows"
	RuleVetoJustified   Rule = "veto_justified"
	RuleVetoOnRelayOnly Rule = "veto_relay_only"
	RuleActivityLowered Rule = "activity_lowered"
	RuleNitrogenBounds  Rule = "nitrogen_bounds"
)

// epsilon absorbs float noise from repeated transfers
const epsilon = 1e-9

// Violation is one broken invariant
type Violation struct {
	Rule    Rule   `json:"rule"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s: %s", v.Rule, v.Subject, v.Message)
}

// Check returns every invariant the run broke. raised lists the activities
// still raised after the last step.
func Check(r *engine.Result, raised []types.Activity) []Violation {
	var out []Violation

	for _, ep := range r.Endpoints {
		if ep.Power < -epsilon || ep.Power > ep.Capacity+epsilon {
			out = append(out, Violation{
				Rule:    RulePowerBounds,
				Subject: ep.ID,
				Message: fmt.Sprintf("power %g outside [0, %g]", ep.Power, ep.Capacity),
			})
		}
	}

	for _, e := range r.Ledger {
		out = append(out, checkEntry(e)...)
	}

	for _, a := range raised {
		out = append(out, Violation{
			Rule:    RuleActivityLowered,
			Subject: a.String(),
			Message: "activity still raised after the run",
		})
	}

	if r.Nitrogen.SafeDepth < 0 || r.Nitrogen.Level < 0 {
		out = append(out, Violation{
			Rule:    RuleNitrogenBounds,
			Subject: "player",
			Message: fmt.Sprintf("negative nitrogen state %+v", r.Nitrogen),
		})
	}
	return out
}

func checkEntry(e ledger.Entry) []Violation {
	var out []Violation
	subject := fmt.Sprintf("%s#%d", e.EndpointID, e.Seq)
	add := func(rule Rule, format string, args ...interface{}) {
		out = append(out, Violation{Rule: rule, Subject: subject, Message: fmt.Sprintf(format, args...)})
	}

	// Negative requests pass through the rules unchanged and are not judged.
	switch {
	case e.Requested < 0:
	case e.Direction == types.DirectionGain:
		if e.Adjusted > e.Requested+epsilon || e.Adjusted < 0 {
			add(RuleGainShrinks, "gain %g adjusted to %g", e.Requested, e.Adjusted)
		}
	case e.Direction == types.DirectionConsumption:
		if e.Adjusted < e.Requested-epsilon {
			add(RuleDrawGrows, "draw %g adjusted to %g", e.Requested, e.Adjusted)
		}
	}

	if e.Vetoed {
		if e.Available >= e.Adjusted {
			add(RuleVetoJustified, "vetoed with %g available for %g", e.Available, e.Adjusted)
		}
		if !e.Kind.IsRelay() {
			add(RuleVetoOnRelayOnly, "vetoed draw on %s", e.Kind)
		}
	}
	return out
}

// MustHold panics when any violation is present
func MustHold(violations []Violation) {
	if len(violations) > 0 {
		panic("INVARIANT VIOLATED: " + strings.Join(Strings(violations), "; "))
	}
}

// Strings renders violations for a result
func Strings(violations []Violation) []string {
	if len(violations) == 0 {
		return nil
	}
	out := make([]string, len(violations))
	for i, v := range violations {
		out[i] = v.String()
	}
	return out
}
