// Package hook is the interception contract between the patchers and the host.
//
// The host calls into a Registry immediately before (and for activities and
// items, also after) its own logic runs. Registered hooks may rewrite the
// amount passed to the host and may skip the host's logic with a forced result.
package hook

import (
	"deathrun-power/core/types"
)

// Decision is the outcome of the before-consume hooks
type Decision struct {
	// Amount is the amount forwarded to the host
	Amount float64

	// Skip suppresses the host's own logic
	Skip bool

	// Result is the forced host result when Skip is set
	Result bool
}

// Proceed lets the host run with amount
func Proceed(amount float64) Decision {
	return Decision{Amount: amount}
}

// Veto skips the host and forces a failed result
func Veto(amount float64) Decision {
	return Decision{Amount: amount, Skip: true, Result: false}
}

// EnergyHook rewrites energy transfers on any endpoint
type EnergyHook interface {
	// Name identifies the hook for registration and logs
	Name() string

	// BeforeConsume runs before the host draws amount from ep
	BeforeConsume(ep types.Endpoint, amount float64) Decision

	// BeforeAdd runs before the host adds amount to ep and returns the amount to add
	BeforeAdd(ep types.Endpoint, amount float64) float64
}

// ActivityHook observes entry and exit of a host activity
type ActivityHook interface {
	Name() string

	// Enter runs immediately before the activity's consumption call
	Enter(a types.Activity)

	// Exit runs immediately after the call returns, whatever the outcome
	Exit(a types.Activity)
}

// ItemHook observes the player's use, eat and respawn-reset calls
type ItemHook interface {
	Name() string

	// BeforeUse runs before the host uses item; returning skip=true bypasses the host
	BeforeUse(item types.TechType) (skip bool, result bool)

	// AfterUse receives the host result and returns the final one
	AfterUse(item types.TechType, result bool) bool

	// BeforeEat runs before the host eats food
	BeforeEat(food types.Food)

	// AfterEat runs after the host ate food
	AfterEat(food types.Food, result bool)

	// BeforeReset runs before the host restores stats on respawn;
	// returning true skips the host's own reset
	BeforeReset(stats *types.Stats) (skip bool)
}
