// Package ledger records the lineage of every power adjustment in a run.
package ledger

import (
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"deathrun-power/core/power"
	"deathrun-power/core/types"
)

// Entry is one recorded adjustment
type Entry struct {
	// ID uniquely identifies the entry
	ID uuid.UUID `json:"id"`

	// Seq is the 1-based order in which the adjustment happened
	Seq int `json:"seq"`

	// Step is the scenario step that caused the adjustment, 0 outside a run
	Step int `json:"step,omitempty"`

	power.Adjustment
}

// Totals aggregates one direction of transfer
type Totals struct {
	Count     int             `json:"count"`
	Vetoed    int             `json:"vetoed,omitempty"`
	NonFinite int             `json:"non_finite,omitempty"`
	Requested decimal.Decimal `json:"requested"`
	Adjusted  decimal.Decimal `json:"adjusted"`
}

// Delta is the extra (or withheld) energy caused by the adjustments
func (t Totals) Delta() decimal.Decimal {
	return t.Adjusted.Sub(t.Requested)
}

// Summary aggregates a ledger
type Summary struct {
	Gain        Totals                        `json:"gain"`
	Consumption Totals                        `json:"consumption"`
	ByEndpoint  map[string]map[string]*Totals `json:"by_endpoint"`
}

// Endpoints returns the endpoint IDs in the summary in sorted order
func (s *Summary) Endpoints() []string {
	ids := make([]string, 0, len(s.ByEndpoint))
	for id := range s.ByEndpoint {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Ledger is an append-only adjustment log. It implements power.Recorder.
type Ledger struct {
	mu      sync.Mutex
	entries []Entry
	step    int
}

var _ power.Recorder = (*Ledger)(nil)

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{}
}

// SetStep tags subsequent entries with a scenario step number
func (l *Ledger) SetStep(step int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.step = step
}

// Record implements power.Recorder
func (l *Ledger) Record(adj power.Adjustment) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{
		ID:         uuid.New(),
		Seq:        len(l.entries) + 1,
		Step:       l.step,
		Adjustment: adj,
	})
}

// Entries returns a copy of the recorded entries
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// Len returns the number of entries
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Summarize totals the ledger. Non-finite amounts are counted but left out
// of the totals; vetoed draws count toward the totals they would have had.
func (l *Ledger) Summarize() *Summary {
	s := &Summary{
		Gain:        newTotals(),
		Consumption: newTotals(),
		ByEndpoint:  make(map[string]map[string]*Totals),
	}

	for _, e := range l.Entries() {
		dir := &s.Consumption
		if e.Direction == types.DirectionGain {
			dir = &s.Gain
		}

		perDir, ok := s.ByEndpoint[e.EndpointID]
		if !ok {
			perDir = make(map[string]*Totals)
			s.ByEndpoint[e.EndpointID] = perDir
		}
		ep, ok := perDir[string(e.Direction)]
		if !ok {
			t := newTotals()
			ep = &t
			perDir[string(e.Direction)] = ep
		}

		dir.add(e.Adjustment)
		ep.add(e.Adjustment)
	}
	return s
}

func newTotals() Totals {
	return Totals{Requested: decimal.Zero, Adjusted: decimal.Zero}
}

func (t *Totals) add(adj power.Adjustment) {
	t.Count++
	if adj.Vetoed {
		t.Vetoed++
	}
	if !finite(adj.Requested) || !finite(adj.Adjusted) {
		t.NonFinite++
		return
	}
	t.Requested = t.Requested.Add(decimal.NewFromFloat(adj.Requested))
	t.Adjusted = t.Adjusted.Add(decimal.NewFromFloat(adj.Adjusted))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
