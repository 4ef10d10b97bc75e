// Package activity tracks which power-consuming operation is currently running.
//
// Each of the four activities is a flag that is raised immediately before a
// host consumption call and lowered immediately after it returns. All hooks
// run on the host's single game thread, so the coordinator takes no locks.
package activity

import (
	"go.uber.org/zap"

	"deathrun-power/core/types"
)

// Coordinator holds the activity flags for one session
type Coordinator struct {
	raised [types.ActivityCount]bool
	log    *zap.Logger
}

// NewCoordinator creates a coordinator with every flag lowered
func NewCoordinator(log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{log: log}
}

// Raise marks a as running. Raising an already raised flag is tolerated.
func (c *Coordinator) Raise(a types.Activity) {
	if !a.IsValid() {
		return
	}
	if c.raised[a] {
		c.log.Warn("activity raised twice without lowering", zap.Stringer("activity", a))
	}
	c.raised[a] = true
}

// Lower marks a as finished
func (c *Coordinator) Lower(a types.Activity) {
	if !a.IsValid() {
		return
	}
	if !c.raised[a] {
		c.log.Warn("activity lowered while not raised", zap.Stringer("activity", a))
	}
	c.raised[a] = false
}

// IsRaised reports whether a is currently raised
func (c *Coordinator) IsRaised(a types.Activity) bool {
	return a.IsValid() && c.raised[a]
}

// Any reports whether any activity is currently raised
func (c *Coordinator) Any() bool {
	for _, r := range c.raised {
		if r {
			return true
		}
	}
	return false
}

// Raised returns the raised activities in declaration order
func (c *Coordinator) Raised() []types.Activity {
	var out []types.Activity
	for i, r := range c.raised {
		if r {
			out = append(out, types.Activity(i))
		}
	}
	return out
}

// Reset lowers every flag
func (c *Coordinator) Reset() {
	c.raised = [types.ActivityCount]bool{}
}
