// Package queue drives reference lookups over a fixed number of execution
// slots and exposes per-entry progress.
package queue

import (
	"errors"
	"fmt"
	"sync"

	"github.com/matsen/refdoi/internal/reference"
)

// ErrAlreadyStarted is returned when a RunState is run a second time.
var ErrAlreadyStarted = errors.New("run already started")

// Event describes one status transition. Entry is the post-transition
// snapshot.
type Event struct {
	Entry reference.Entry
	From  reference.Status
	To    reference.Status
}

// RunState owns the entries of one run. Only the scheduler mutates it;
// readers get consistent copies through Snapshot, Entry and Subscribe.
type RunState struct {
	mu      sync.RWMutex
	entries []reference.Entry
	byID    map[string]int
	started bool

	subMu       sync.Mutex
	subscribers map[int]func(Event)
	nextSubID   int
}

// NewRunState creates a run over copies of entries. Every entry must be idle.
func NewRunState(entries []reference.Entry) (*RunState, error) {
	s := &RunState{
		entries:     make([]reference.Entry, len(entries)),
		byID:        make(map[string]int, len(entries)),
		subscribers: make(map[int]func(Event)),
	}
	for i, e := range entries {
		if e.Status != reference.StatusIdle {
			return nil, fmt.Errorf("entry %s is %s, want %s", e.ID, e.Status, reference.StatusIdle)
		}
		if _, dup := s.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate entry id %s", e.ID)
		}
		s.entries[i] = e.Clone()
		s.byID[e.ID] = i
	}
	return s, nil
}

// Len returns the number of entries in the run.
func (s *RunState) Len() int {
	return len(s.entries)
}

// Snapshot returns a deep copy of all entries in sequence order.
func (s *RunState) Snapshot() []reference.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]reference.Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Clone()
	}
	return out
}

// Entry returns a copy of the entry with the given ID.
func (s *RunState) Entry(id string) (reference.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return reference.Entry{}, false
	}
	return s.entries[idx].Clone(), true
}

// Counts returns the number of entries in each status.
func (s *RunState) Counts() map[reference.Status]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[reference.Status]int, len(reference.Statuses))
	for _, st := range reference.Statuses {
		counts[st] = 0
	}
	for _, e := range s.entries {
		counts[e.Status]++
	}
	return counts
}

// Done reports whether every entry has reached a terminal status.
func (s *RunState) Done() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if !e.Status.IsTerminal() {
			return false
		}
	}
	return true
}

// Subscribe registers fn to receive every transition, in order, and returns
// a function that removes it. Callbacks run on the scheduler's control
// goroutine and should not block.
func (s *RunState) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *RunState) publish(events ...Event) {
	s.subMu.Lock()
	subs := make([]func(Event), 0, len(s.subscribers))
	for id := 0; id < s.nextSubID; id++ {
		if fn, ok := s.subscribers[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.subMu.Unlock()

	for _, ev := range events {
		for _, fn := range subs {
			fn(ev)
		}
	}
}

// queueAll moves every entry from idle to queued in one critical section,
// then publishes the transitions in sequence order.
func (s *RunState) queueAll() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true

	events := make([]Event, len(s.entries))
	for i := range s.entries {
		s.entries[i].Status = reference.StatusQueued
		events[i] = Event{
			Entry: s.entries[i].Clone(),
			From:  reference.StatusIdle,
			To:    reference.StatusQueued,
		}
	}
	s.mu.Unlock()

	s.publish(events...)
	return nil
}

// transition applies apply to the entry at idx if it moves the entry to a
// valid next status, then publishes the event.
func (s *RunState) transition(idx int, apply func(*reference.Entry)) (reference.Entry, error) {
	s.mu.Lock()
	e := &s.entries[idx]
	from := e.Status
	next := e.Clone()
	apply(&next)
	if !reference.CanTransition(from, next.Status) {
		s.mu.Unlock()
		return reference.Entry{}, fmt.Errorf("entry %s: invalid transition %s -> %s", e.ID, from, next.Status)
	}
	*e = next
	snapshot := next.Clone()
	s.mu.Unlock()

	s.publish(Event{Entry: snapshot, From: from, To: snapshot.Status})
	return snapshot, nil
}
