// Package radiation - Zone geometry
package radiation

import (
	"sort"
	"sync"

	"deathrun-power/core/types"
)

// Zone is a spherical hazard region. When MaxDepth is positive the zone
// only reaches that far below the surface.
type Zone struct {
	Name     string     `json:"name"`
	Center   types.Vec3 `json:"center"`
	Radius   float64    `json:"radius"`
	MaxDepth float64    `json:"max_depth,omitempty"`
	Active   bool       `json:"active"`
}

// Contains reports whether p is inside the zone, ignoring Active
func (z Zone) Contains(p types.Vec3) bool {
	if z.MaxDepth > 0 && p.Depth() > z.MaxDepth {
		return false
	}
	return p.Sub(z.Center).Length() <= z.Radius
}

// ZoneSet is a named collection of zones that can be switched on and off
type ZoneSet struct {
	mu    sync.RWMutex
	zones map[string]Zone
}

// NewZoneSet creates a zone set from the given zones
func NewZoneSet(zones ...Zone) *ZoneSet {
	s := &ZoneSet{zones: make(map[string]Zone, len(zones))}
	for _, z := range zones {
		s.zones[z.Name] = z
	}
	return s
}

// Put adds or replaces a zone
func (s *ZoneSet) Put(z Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zones[z.Name] = z
}

// SetActive toggles a zone. It returns false if the zone is unknown.
func (s *ZoneSet) SetActive(name string, active bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	z, ok := s.zones[name]
	if !ok {
		return false
	}
	z.Active = active
	s.zones[name] = z
	return true
}

// Get returns a zone by name
func (s *ZoneSet) Get(name string) (Zone, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	z, ok := s.zones[name]
	return z, ok
}

// Names returns the zone names in sorted order
func (s *ZoneSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.zones))
	for name := range s.zones {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Contains implements ZoneMap over the active zones
func (s *ZoneSet) Contains(t types.Transform) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, z := range s.zones {
		if z.Active && z.Contains(t.Position) {
			return true
		}
	}
	return false
}
