// Package survival patches the player's item use, eating and respawn reset.
//
// First aid kits and raw boomerangs purge nitrogen by halving the safe depth,
// diet challenges flag forbidden food, and a respawn after the opening
// minutes no longer refills food and water.
package survival

import (
	"math"

	"go.uber.org/zap"

	"deathrun-power/core/hook"
	"deathrun-power/core/notify"
	"deathrun-power/core/types"
)

// Notices shown to the player
const (
	FirstAidNotice  = "First Aid Kit helps purge Nitrogen from your bloodstream."
	BoomerangNotice = "The tasty raw Boomerang helps purge Nitrogen from your bloodstream!"
)

// forbiddenFoodValue marks food a diet challenge turned negative
const forbiddenFoodValue = -25

// purgeFloor is the safe depth below which nitrogen is tracked as a level
const purgeFloor = 10

// Clock returns game time in seconds
type Clock interface {
	Now() float64
}

// Nitrogen is the player's saved nitrogen state
type Nitrogen struct {
	SafeDepth float64 `json:"safe_depth"`
	Level     float64 `json:"level"`
}

// Settings tunes the survival patches
type Settings struct {
	Challenge types.FoodChallenge

	// NoticeInterval is the minimum game time between repeated notices
	NoticeInterval float64

	// ResetGrace is how long after the game starts a respawn still fully resets
	ResetGrace float64

	ResetFactor float64
	ResetMin    float64
	ResetMax    float64
}

// DefaultSettings returns the standard tuning
func DefaultSettings() Settings {
	return Settings{
		Challenge:      types.FoodOmnivore,
		NoticeInterval: 60,
		ResetGrace:     5 * 60,
		ResetFactor:    0.9,
		ResetMin:       12,
		ResetMax:       90.5,
	}
}

// Patcher implements hook.ItemHook
type Patcher struct {
	settings  Settings
	nitrogen  *Nitrogen
	clock     Clock
	messages  notify.Messenger
	startedAt float64
	log       *zap.Logger

	purged    bool
	useNotice notify.Throttle
	eatNotice notify.Throttle
}

var _ hook.ItemHook = (*Patcher)(nil)

// NewPatcher creates a survival patcher over the given nitrogen state
func NewPatcher(settings Settings, nitrogen *Nitrogen, clock Clock, messages notify.Messenger, log *zap.Logger) *Patcher {
	if log == nil {
		log = zap.NewNop()
	}
	if nitrogen == nil {
		nitrogen = &Nitrogen{}
	}
	return &Patcher{
		settings:  settings,
		nitrogen:  nitrogen,
		clock:     clock,
		messages:  messages,
		log:       log,
		useNotice: notify.Throttle{Interval: settings.NoticeInterval},
		eatNotice: notify.Throttle{Interval: settings.NoticeInterval},
	}
}

// Name implements hook.ItemHook
func (p *Patcher) Name() string {
	return "survival"
}

// Nitrogen returns the live nitrogen state
func (p *Patcher) Nitrogen() *Nitrogen {
	return p.nitrogen
}

// StartGame records the game time the run began
func (p *Patcher) StartGame(at float64) {
	p.startedAt = at
}

func (p *Patcher) now() float64 {
	if p.clock == nil {
		return 0
	}
	return p.clock.Now()
}

func (p *Patcher) notice(th *notify.Throttle, text string) {
	if p.messages != nil && th.Allow(p.now()) {
		p.messages.AddMessage(text)
	}
}

// halve purges nitrogen by halving the safe depth. It reports false when the
// safe depth was already at or below the floor.
func (p *Patcher) halve(th *notify.Throttle, text string) bool {
	if p.nitrogen.SafeDepth <= purgeFloor {
		return false
	}
	p.nitrogen.SafeDepth /= 2
	p.notice(th, text)
	if p.nitrogen.SafeDepth < purgeFloor {
		p.nitrogen.Level = p.nitrogen.SafeDepth * 10
	}
	return true
}

// BeforeUse purges nitrogen when a first aid kit is used. The host's own
// use always runs.
func (p *Patcher) BeforeUse(item types.TechType) (bool, bool) {
	p.purged = false
	if item != types.TechFirstAidKit {
		return false, false
	}

	if p.halve(&p.useNotice, FirstAidNotice) {
		p.purged = true
	} else if p.nitrogen.Level > 0 {
		p.nitrogen.Level = 0
		p.purged = true
	}
	if p.purged {
		p.log.Debug("nitrogen purged",
			zap.String("item", string(item)),
			zap.Float64("safe_depth", p.nitrogen.SafeDepth),
			zap.Float64("level", p.nitrogen.Level))
	}
	return false, false
}

// AfterUse reports success whenever the kit purged nitrogen
func (p *Patcher) AfterUse(item types.TechType, result bool) bool {
	if p.purged {
		return true
	}
	return result
}

// BeforeEat warns when the diet challenge made the food harmful
func (p *Patcher) BeforeEat(food types.Food) {
	if food.FoodValue != forbiddenFoodValue || p.messages == nil {
		return
	}
	var label string
	switch p.settings.Challenge {
	case types.FoodVegan:
		label = "Vegan"
	case types.FoodVegetarian:
		label = "Vegetarian"
	case types.FoodPescatarian:
		label = "Pescatarian"
	default:
		return
	}
	p.messages.CenterMessage(label+" Challenge: Negative Food Value!", 5)
}

// AfterEat purges nitrogen after a raw boomerang was eaten
func (p *Patcher) AfterEat(food types.Food, result bool) {
	if !result {
		return
	}
	if food.Tech != types.TechBoomerang && food.Tech != types.TechLavaBoomerang {
		return
	}
	if !p.halve(&p.eatNotice, BoomerangNotice) {
		p.nitrogen.Level = 0
	}
}

// BeforeReset shrinks food and water instead of refilling them once the
// opening grace period has passed
func (p *Patcher) BeforeReset(stats *types.Stats) bool {
	if p.startedAt <= 0 || p.now() < p.startedAt+p.settings.ResetGrace {
		return false
	}
	stats.Food = clamp(stats.Food*p.settings.ResetFactor, p.settings.ResetMin, p.settings.ResetMax)
	stats.Water = clamp(stats.Water*p.settings.ResetFactor, p.settings.ResetMin, p.settings.ResetMax)
	p.log.Info("respawn without refill",
		zap.Float64("food", stats.Food),
		zap.Float64("water", stats.Water))
	return true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
