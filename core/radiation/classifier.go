// Package radiation classifies spatial references against hazardous zones.
package radiation

import (
	"deathrun-power/core/types"
)

// ZoneMap is the host's live hazard-zone membership test
type ZoneMap interface {
	// Contains reports whether the transform lies inside any active zone
	Contains(t types.Transform) bool
}

// Classifier answers whether a spatial reference is currently irradiated
type Classifier struct {
	zones ZoneMap
}

// NewClassifier creates a classifier over the given zone map.
// A nil map classifies everything as outside radiation.
func NewClassifier(zones ZoneMap) *Classifier {
	return &Classifier{zones: zones}
}

// InRadiation reports whether ref is inside radiation.
// An absent reference is never in radiation.
func (c *Classifier) InRadiation(ref *types.Transform) bool {
	if c == nil || c.zones == nil || ref == nil {
		return false
	}
	return c.zones.Contains(*ref)
}

// EndpointInRadiation classifies an endpoint through its resolved transform
func (c *Classifier) EndpointInRadiation(ep types.Endpoint) bool {
	if ep == nil {
		return false
	}
	return c.InRadiation(ep.Transform())
}
