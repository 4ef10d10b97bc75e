// Package sim - Power endpoints
package sim

import (
	"math"

	"deathrun-power/core/types"
)

// cell is the host's stored-power bookkeeping shared by every endpoint
type cell struct {
	charge   float64
	capacity float64
}

// draw is the host's draw logic: on failure it still drains whatever is stored
func (c *cell) draw(amount float64) bool {
	if c.charge >= amount {
		c.charge -= amount
		return true
	}
	c.charge = 0
	return false
}

func (c *cell) store(amount float64) {
	c.charge = math.Min(c.capacity, c.charge+amount)
}

// Relay is a power relay: a fixed base installation or a vessel's mobile relay
type Relay struct {
	id       string
	kind     types.EndpointKind
	position types.Vec3
	cell     cell
	world    *World
}

// NewRelay creates a relay. fixed selects a base installation over a mobile relay.
func (w *World) NewRelay(id string, fixed bool, position types.Vec3, power, capacity float64) *Relay {
	kind := types.KindMobileRelay
	if fixed {
		kind = types.KindInstallation
	}
	return &Relay{
		id:       id,
		kind:     kind,
		position: position,
		cell:     cell{charge: power, capacity: capacity},
		world:    w,
	}
}

func (r *Relay) ID() string               { return r.id }
func (r *Relay) Kind() types.EndpointKind { return r.kind }
func (r *Relay) Power() float64           { return r.cell.charge }
func (r *Relay) Capacity() float64        { return r.cell.capacity }

// Transform returns the relay's location
func (r *Relay) Transform() *types.Transform {
	return &types.Transform{Position: r.position}
}

// MoveTo relocates a mobile relay
func (r *Relay) MoveTo(p types.Vec3) {
	r.position = p
}

// ConsumeEnergy implements Powered
func (r *Relay) ConsumeEnergy(amount float64) bool {
	return r.world.consume(r, amount, r.cell.draw)
}

// AddEnergy implements Powered
func (r *Relay) AddEnergy(amount float64) {
	r.world.add(r, amount, r.cell.store)
}

// ToolBattery is the battery of a handheld tool. It is located wherever its
// holder is; a battery nobody holds has no location.
type ToolBattery struct {
	id     string
	cell   cell
	holder *Player
	world  *World
}

// NewToolBattery creates a tool battery held by holder (may be nil)
func (w *World) NewToolBattery(id string, holder *Player, charge, capacity float64) *ToolBattery {
	return &ToolBattery{
		id:     id,
		cell:   cell{charge: charge, capacity: capacity},
		holder: holder,
		world:  w,
	}
}

func (b *ToolBattery) ID() string               { return b.id }
func (b *ToolBattery) Kind() types.EndpointKind { return types.KindTool }
func (b *ToolBattery) Power() float64           { return b.cell.charge }
func (b *ToolBattery) Capacity() float64        { return b.cell.capacity }

// Transform resolves through the holder
func (b *ToolBattery) Transform() *types.Transform {
	if b.holder == nil {
		return nil
	}
	return b.holder.Transform()
}

// SetHolder hands the tool to someone, or drops it with nil
func (b *ToolBattery) SetHolder(p *Player) {
	b.holder = p
}

// ConsumeEnergy implements Powered
func (b *ToolBattery) ConsumeEnergy(amount float64) bool {
	return b.world.consume(b, amount, b.cell.draw)
}

// AddEnergy implements Powered
func (b *ToolBattery) AddEnergy(amount float64) {
	b.world.add(b, amount, b.cell.store)
}

// Vehicle is a vehicle with an on-board battery
type Vehicle struct {
	id       string
	position types.Vec3
	cell     cell
	world    *World
}

// NewVehicle creates a vehicle
func (w *World) NewVehicle(id string, position types.Vec3, charge, capacity float64) *Vehicle {
	return &Vehicle{
		id:       id,
		position: position,
		cell:     cell{charge: charge, capacity: capacity},
		world:    w,
	}
}

func (v *Vehicle) ID() string               { return v.id }
func (v *Vehicle) Kind() types.EndpointKind { return types.KindVehicle }
func (v *Vehicle) Power() float64           { return v.cell.charge }
func (v *Vehicle) Capacity() float64        { return v.cell.capacity }

// Transform returns the vehicle's location
func (v *Vehicle) Transform() *types.Transform {
	return &types.Transform{Position: v.position}
}

// MoveTo drives the vehicle somewhere else
func (v *Vehicle) MoveTo(p types.Vec3) {
	v.position = p
}

// ConsumeEnergy implements Powered
func (v *Vehicle) ConsumeEnergy(amount float64) bool {
	return v.world.consume(v, amount, v.cell.draw)
}

// AddEnergy implements Powered
func (v *Vehicle) AddEnergy(amount float64) {
	v.world.add(v, amount, v.cell.store)
}

// Movable is an endpoint that can be relocated
type Movable interface {
	MoveTo(p types.Vec3)
}
