// Package hook - Registry and dispatch
package hook

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"deathrun-power/core/types"
)

// Registry holds the hooks registered against one host and dispatches the
// host's calls through them in registration order.
//
// Registration is guarded by a mutex. Dispatch works on a snapshot taken at
// call time so hooks may re-enter the registry from inside a host call.
type Registry struct {
	mu       sync.RWMutex
	names    map[string]struct{}
	energy   []EnergyHook
	activity []ActivityHook
	items    []ItemHook
	log      *zap.Logger
}

// NewRegistry creates an empty hook registry
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		names: make(map[string]struct{}),
		log:   log,
	}
}

func (r *Registry) claim(name string) error {
	if name == "" {
		return fmt.Errorf("hook has no name")
	}
	if _, exists := r.names[name]; exists {
		return fmt.Errorf("hook already registered: %s", name)
	}
	r.names[name] = struct{}{}
	return nil
}

// RegisterEnergy adds an energy hook
func (r *Registry) RegisterEnergy(h EnergyHook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.claim("energy/" + h.Name()); err != nil {
		return err
	}
	r.energy = append(r.energy, h)
	r.log.Info("registered energy hook", zap.String("hook", h.Name()))
	return nil
}

// RegisterActivity adds an activity hook
func (r *Registry) RegisterActivity(h ActivityHook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.claim("activity/" + h.Name()); err != nil {
		return err
	}
	r.activity = append(r.activity, h)
	r.log.Info("registered activity hook", zap.String("hook", h.Name()))
	return nil
}

// RegisterItem adds an item hook
func (r *Registry) RegisterItem(h ItemHook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.claim("item/" + h.Name()); err != nil {
		return err
	}
	r.items = append(r.items, h)
	r.log.Info("registered item hook", zap.String("hook", h.Name()))
	return nil
}

func (r *Registry) energyHooks() []EnergyHook {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]EnergyHook(nil), r.energy...)
}

func (r *Registry) activityHooks() []ActivityHook {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ActivityHook(nil), r.activity...)
}

func (r *Registry) itemHooks() []ItemHook {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ItemHook(nil), r.items...)
}

// BeforeConsume chains the energy hooks. Each hook sees the amount left by
// the previous one; the first hook that skips ends the chain.
func (r *Registry) BeforeConsume(ep types.Endpoint, amount float64) Decision {
	d := Proceed(amount)
	for _, h := range r.energyHooks() {
		next := h.BeforeConsume(ep, d.Amount)
		d.Amount = next.Amount
		if next.Skip {
			d.Skip = true
			d.Result = next.Result
			r.log.Debug("host consumption skipped",
				zap.String("hook", h.Name()),
				zap.String("endpoint", ep.ID()),
				zap.Bool("result", d.Result))
			break
		}
	}
	return d
}

// BeforeAdd chains the energy hooks over an energy gain
func (r *Registry) BeforeAdd(ep types.Endpoint, amount float64) float64 {
	for _, h := range r.energyHooks() {
		amount = h.BeforeAdd(ep, amount)
	}
	return amount
}

// ConsumeEnergy wraps the host's consumption logic
func (r *Registry) ConsumeEnergy(ep types.Endpoint, amount float64, host func(amount float64) bool) bool {
	d := r.BeforeConsume(ep, amount)
	if d.Skip {
		return d.Result
	}
	return host(d.Amount)
}

// AddEnergy wraps the host's gain logic
func (r *Registry) AddEnergy(ep types.Endpoint, amount float64, host func(amount float64)) {
	host(r.BeforeAdd(ep, amount))
}

// Enter notifies the activity hooks that a starts
func (r *Registry) Enter(a types.Activity) {
	for _, h := range r.activityHooks() {
		h.Enter(a)
	}
}

// Exit notifies the activity hooks, in reverse order, that a ended
func (r *Registry) Exit(a types.Activity) {
	hooks := r.activityHooks()
	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i].Exit(a)
	}
}

// Activity brackets the host's call for activity a. Exit runs even when
// the host call panics; the panic is not recovered.
func (r *Registry) Activity(a types.Activity, host func() bool) bool {
	r.Enter(a)
	defer r.Exit(a)
	return host()
}

// Use wraps the host's item use
func (r *Registry) Use(item types.TechType, host func() bool) bool {
	hooks := r.itemHooks()

	result := false
	skipped := false
	for _, h := range hooks {
		if skip, forced := h.BeforeUse(item); skip {
			skipped, result = true, forced
			break
		}
	}
	if !skipped {
		result = host()
	}
	for _, h := range hooks {
		result = h.AfterUse(item, result)
	}
	return result
}

// Eat wraps the host's eat
func (r *Registry) Eat(food types.Food, host func() bool) bool {
	hooks := r.itemHooks()
	for _, h := range hooks {
		h.BeforeEat(food)
	}
	result := host()
	for _, h := range hooks {
		h.AfterEat(food, result)
	}
	return result
}

// Reset wraps the host's respawn reset
func (r *Registry) Reset(stats *types.Stats, host func(stats *types.Stats)) {
	for _, h := range r.itemHooks() {
		if h.BeforeReset(stats) {
			return
		}
	}
	host(stats)
}
