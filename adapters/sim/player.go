// Package sim - Player
package sim

import (
	"math"

	"deathrun-power/core/types"
)

// Host survival constants
const (
	MaxHealth     = 100
	FirstAidHeal  = 50
	RespawnFill   = 90.5
	StartingStats = 50
)

// Player is the player character
type Player struct {
	position types.Vec3
	health   float64
	stats    types.Stats
	world    *World
}

func newPlayer(w *World) *Player {
	return &Player{
		health: MaxHealth,
		stats:  types.Stats{Food: StartingStats, Water: StartingStats},
		world:  w,
	}
}

// Transform returns the player's location
func (p *Player) Transform() *types.Transform {
	return &types.Transform{Position: p.position}
}

// MoveTo teleports the player
func (p *Player) MoveTo(pos types.Vec3) {
	p.position = pos
}

// Health returns current health
func (p *Player) Health() float64 {
	return p.health
}

// SetHealth sets health within [0, MaxHealth]
func (p *Player) SetHealth(h float64) {
	p.health = math.Max(0, math.Min(MaxHealth, h))
}

// Stats returns food and water
func (p *Player) Stats() types.Stats {
	return p.stats
}

// SetStats overrides food and water
func (p *Player) SetStats(s types.Stats) {
	p.stats = s
}

// Use uses an item. The host heals with a first aid kit when hurt and
// rejects everything else.
func (p *Player) Use(item types.TechType) bool {
	return p.world.hooks.Use(item, func() bool {
		if item != types.TechFirstAidKit || p.health >= MaxHealth {
			return false
		}
		p.SetHealth(p.health + FirstAidHeal)
		return true
	})
}

// Eat eats food; the host always succeeds and applies the food value
func (p *Player) Eat(food types.Food) bool {
	return p.world.hooks.Eat(food, func() bool {
		p.stats.Food = math.Max(0, p.stats.Food+food.FoodValue)
		return true
	})
}

// Respawn restores the player after death
func (p *Player) Respawn() {
	p.health = MaxHealth
	p.world.hooks.Reset(&p.stats, func(s *types.Stats) {
		s.Food = RespawnFill
		s.Water = RespawnFill
	})
}
