// Package engine wires the patchers into a session and defines the
// scenario and result models the runners and outputs share.
package engine

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"deathrun-power/core/activity"
	"deathrun-power/core/hook"
	"deathrun-power/core/ledger"
	"deathrun-power/core/notify"
	"deathrun-power/core/power"
	"deathrun-power/core/radiation"
	"deathrun-power/core/survival"
	"deathrun-power/core/types"
)

// SessionConfig configures a Session
type SessionConfig struct {
	// Tier is fixed for the whole session
	Tier types.Tier

	// Survival tunes the survival patches
	Survival survival.Settings

	// Zones is the host's hazard-zone membership test
	Zones radiation.ZoneMap

	// Clock is the host's game clock
	Clock survival.Clock

	// Nitrogen is the saved nitrogen state; nil starts from zero
	Nitrogen *survival.Nitrogen

	// Messenger receives messages in addition to the session inbox
	Messenger notify.Messenger

	Logger *zap.Logger
}

// Session is the explicit context object shared by every hook of one game
// session: the tier, the activity flags, the classifier and the patchers.
type Session struct {
	ID         uuid.UUID
	Tier       types.Tier
	Activities *activity.Coordinator
	Radiation  *radiation.Classifier
	Power      *power.Patcher
	Survival   *survival.Patcher
	Ledger     *ledger.Ledger
	Inbox      *notify.Inbox

	log *zap.Logger
}

// NewSession builds a session
func NewSession(cfg SessionConfig) *Session {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	tier := cfg.Tier
	if !tier.IsValid() {
		tier = types.TierNormal
	}

	inbox := notify.NewInbox()
	var messages notify.Messenger = inbox
	if cfg.Messenger != nil {
		messages = notify.Fanout{inbox, cfg.Messenger}
	}

	s := &Session{
		ID:         uuid.New(),
		Tier:       tier,
		Activities: activity.NewCoordinator(log.Named("activity")),
		Radiation:  radiation.NewClassifier(cfg.Zones),
		Ledger:     ledger.New(),
		Inbox:      inbox,
		log:        log,
	}

	s.Power = power.NewPatcher(power.Options{
		Tier:       tier,
		Radiation:  s.Radiation,
		Activities: s.Activities,
		Messages:   messages,
		Recorder:   s.Ledger,
		Logger:     log.Named("power"),
	})
	s.Survival = survival.NewPatcher(cfg.Survival, cfg.Nitrogen, cfg.Clock, messages, log.Named("survival"))
	return s
}

// Register installs the session's patchers on a host's hook registry
func (s *Session) Register(reg *hook.Registry) error {
	if err := reg.RegisterEnergy(s.Power); err != nil {
		return err
	}
	if err := reg.RegisterActivity(s.Power); err != nil {
		return err
	}
	if err := reg.RegisterItem(s.Survival); err != nil {
		return err
	}
	s.log.Info("session hooks registered",
		zap.String("session", s.ID.String()),
		zap.String("tier", s.Tier.String()))
	return nil
}
