package search

import (
	"sync"
	"time"
)

// Tracker holds the search state of every session and sequences
// submissions: only the most recently issued request of a session may
// settle its state.
type Tracker struct {
	mu     sync.Mutex
	seq    uint64
	states map[string]*State
	now    func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		states: make(map[string]*State),
		now:    time.Now,
	}
}

// Begin moves the session to loading and returns the new request id.
func (t *Tracker) Begin(sessionID, query string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	t.states[sessionID] = &State{
		Status:    StatusLoading,
		RequestID: t.seq,
		Query:     query,
		Items:     []FoodItemSuggestion{},
		UpdatedAt: t.now(),
	}
	return t.seq
}

// Resolve settles request id with results. It reports false, leaving the
// state alone, when id is no longer the latest request of the session.
func (t *Tracker) Resolve(sessionID string, id uint64, items []FoodItemSuggestion, n *Notification) bool {
	return t.settle(sessionID, id, StatusResults, items, n)
}

// Fail settles request id as failed. Same staleness rule as Resolve.
func (t *Tracker) Fail(sessionID string, id uint64, n *Notification) bool {
	return t.settle(sessionID, id, StatusError, []FoodItemSuggestion{}, n)
}

func (t *Tracker) settle(sessionID string, id uint64, status Status, items []FoodItemSuggestion, n *Notification) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.states[sessionID]
	if !ok || st.RequestID != id || st.Status != StatusLoading {
		return false
	}

	st.Status = status
	st.Items = items
	st.Notification = n
	st.UpdatedAt = t.now()
	return true
}

// Get returns a copy of the session's state; unknown sessions are idle.
func (t *Tracker) Get(sessionID string) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.states[sessionID]
	if !ok {
		return State{Status: StatusIdle, Items: []FoodItemSuggestion{}}
	}

	out := *st
	out.Items = append([]FoodItemSuggestion(nil), st.Items...)
	if out.Items == nil {
		out.Items = []FoodItemSuggestion{}
	}
	return out
}

// Clear drops the session back to idle. A request still in flight will be
// discarded when it settles.
func (t *Tracker) Clear(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, sessionID)
}

// Evict drops every session whose state was last touched before the
// cutoff and returns how many went.
func (t *Tracker) Evict(before time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for id, st := range t.states {
		if st.UpdatedAt.Before(before) {
			delete(t.states, id)
			n++
		}
	}
	return n
}
