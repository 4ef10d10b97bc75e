// Package types - Spatial references and power endpoints
package types

import "math"

// Vec3 is a world-space position. Y grows upward; negative Y is depth.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Sub returns v - o
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Length returns the euclidean length of v
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Depth returns how far below the surface v lies (0 at or above the surface)
func (v Vec3) Depth() float64 {
	if v.Y >= 0 {
		return 0
	}
	return -v.Y
}

// Transform is the spatial reference of an entity in the world
type Transform struct {
	Position Vec3 `json:"position"`
}

// Endpoint is anything that stores power and can be located in the world.
type Endpoint interface {
	// ID returns a stable identifier for logs and the ledger
	ID() string

	// Kind returns the endpoint variant
	Kind() EndpointKind

	// Transform resolves the endpoint's current spatial reference.
	// It returns nil when no reference can be resolved.
	Transform() *Transform

	// Power returns the currently available power
	Power() float64
}
