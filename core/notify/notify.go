// Package notify is the user-facing transient message surface.
// Messages are fire-and-forget; nothing is acknowledged.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Messenger shows transient messages to the player
type Messenger interface {
	// AddMessage shows a message in the message log
	AddMessage(text string)

	// CenterMessage shows a message in the middle of the screen for a while
	CenterMessage(text string, seconds float64)
}

// Message is one delivered message
type Message struct {
	Text    string  `json:"text"`
	Center  bool    `json:"center,omitempty"`
	Seconds float64 `json:"seconds,omitempty"`
}

// Inbox records every message it receives
type Inbox struct {
	mu       sync.Mutex
	messages []Message
}

// NewInbox creates an empty inbox
func NewInbox() *Inbox {
	return &Inbox{}
}

// AddMessage implements Messenger
func (i *Inbox) AddMessage(text string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.messages = append(i.messages, Message{Text: text})
}

// CenterMessage implements Messenger
func (i *Inbox) CenterMessage(text string, seconds float64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.messages = append(i.messages, Message{Text: text, Center: true, Seconds: seconds})
}

// Messages returns a copy of the received messages
func (i *Inbox) Messages() []Message {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]Message(nil), i.messages...)
}

// Count returns how many messages with the given text were received
func (i *Inbox) Count(text string) int {
	i.mu.Lock()
	defer i.mu.Unlock()

	n := 0
	for _, m := range i.messages {
		if m.Text == text {
			n++
		}
	}
	return n
}

// LogMessenger writes messages to a logger
type LogMessenger struct {
	log *zap.Logger
}

// NewLogMessenger creates a messenger that logs at info level
func NewLogMessenger(log *zap.Logger) *LogMessenger {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogMessenger{log: log}
}

// AddMessage implements Messenger
func (l *LogMessenger) AddMessage(text string) {
	l.log.Info("message", zap.String("text", text))
}

// CenterMessage implements Messenger
func (l *LogMessenger) CenterMessage(text string, seconds float64) {
	l.log.Info("center message", zap.String("text", text), zap.Float64("seconds", seconds))
}

// Fanout delivers every message to each messenger in order
type Fanout []Messenger

// AddMessage implements Messenger
func (f Fanout) AddMessage(text string) {
	for _, m := range f {
		m.AddMessage(text)
	}
}

// CenterMessage implements Messenger
func (f Fanout) CenterMessage(text string, seconds float64) {
	for _, m := range f {
		m.CenterMessage(text, seconds)
	}
}

// Throttle limits a notice to one per interval of game time. The clock of
// the last notice starts at zero, so nothing shows during the first
// interval of a game.
type Throttle struct {
	Interval float64

	last float64
}

// Allow reports whether a notice may be shown at now and, if so, records it
func (t *Throttle) Allow(now float64) bool {
	if now-t.last <= t.Interval {
		return false
	}
	t.last = now
	return true
}
