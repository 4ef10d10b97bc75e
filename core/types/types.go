// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

import (
	"fmt"
	"strings"
)

// Tier is the configured power-cost difficulty
type Tier string

const (
	TierNormal   Tier = "normal"
	TierHard     Tier = "hard"
	TierDeathrun Tier = "deathrun"
)

// Tiers lists every known tier, easiest first
var Tiers = []Tier{TierNormal, TierHard, TierDeathrun}

// String returns the string representation of the tier
func (t Tier) String() string {
	return string(t)
}

// IsValid checks if the tier is a known tier
func (t Tier) IsValid() bool {
	switch t {
	case TierNormal, TierHard, TierDeathrun:
		return true
	default:
		return false
	}
}

// Activity names one kind of power-consuming operation bracketed by hooks
type Activity int

const (
	ActivityCrafting Activity = iota
	ActivityFiltration
	ActivityScanning
	ActivityCharging

	// ActivityCount is the number of activities, not an activity
	ActivityCount
)

var activityNames = [ActivityCount]string{
	ActivityCrafting:   "crafting",
	ActivityFiltration: "filtration",
	ActivityScanning:   "scanning",
	ActivityCharging:   "charging",
}

// Activities lists every activity in declaration order
var Activities = []Activity{ActivityCrafting, ActivityFiltration, ActivityScanning, ActivityCharging}

// String returns the activity name
func (a Activity) String() string {
	if a.IsValid() {
		return activityNames[a]
	}
	return "unknown"
}

// IsValid checks if a is one of the four activities
func (a Activity) IsValid() bool {
	return a >= 0 && a < ActivityCount
}

// MarshalText renders the activity by name
func (a Activity) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses an activity name
func (a *Activity) UnmarshalText(text []byte) error {
	parsed, ok := ParseActivity(string(text))
	if !ok {
		return fmt.Errorf("unknown activity: %q", text)
	}
	*a = parsed
	return nil
}

// ParseActivity resolves an activity by name
func ParseActivity(name string) (Activity, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range activityNames {
		if n == name {
			return Activity(i), true
		}
	}
	return 0, false
}

// EndpointKind identifies the kind of power-bearing entity
type EndpointKind string

const (
	// KindInstallation is a fixed base power relay
	KindInstallation EndpointKind = "installation"

	// KindMobileRelay is a relay carried by a vessel; it is not a fixed installation
	KindMobileRelay EndpointKind = "mobile_relay"

	// KindTool is a handheld tool battery
	KindTool EndpointKind = "tool"

	// KindVehicle is a vehicle battery
	KindVehicle EndpointKind = "vehicle"
)

// String returns the string representation
func (k EndpointKind) String() string {
	return string(k)
}

// IsRelay reports whether the kind routes through a power relay
func (k EndpointKind) IsRelay() bool {
	return k == KindInstallation || k == KindMobileRelay
}

// IsFixed reports whether the kind is a fixed installation
func (k EndpointKind) IsFixed() bool {
	return k == KindInstallation
}

// Direction is the direction of an energy transfer
type Direction string

const (
	DirectionGain        Direction = "gain"
	DirectionConsumption Direction = "consumption"
)
