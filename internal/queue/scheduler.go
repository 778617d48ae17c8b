package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/matsen/refdoi/internal/crossref"
	"github.com/matsen/refdoi/internal/reference"
	"go.uber.org/zap"
)

// DefaultConcurrency is the number of lookups allowed in flight at once.
const DefaultConcurrency = 3

// Scheduler admits entries in sequence order into a fixed number of slots
// and records each lookup outcome on the run's state.
type Scheduler struct {
	lookup      crossref.Lookuper
	concurrency int
	logger      *zap.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithConcurrency sets the slot count. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(s *Scheduler) {
		if n >= 1 {
			s.concurrency = n
		}
	}
}

// WithLogger sets the logger used for admission and completion tracing.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewScheduler creates a scheduler that resolves entries with lookup.
func NewScheduler(lookup crossref.Lookuper, opts ...Option) *Scheduler {
	s := &Scheduler{
		lookup:      lookup,
		concurrency: DefaultConcurrency,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Concurrency returns the slot count.
func (s *Scheduler) Concurrency() int {
	return s.concurrency
}

// completion is a lookup outcome reported back to the control loop.
type completion struct {
	idx  int
	work *crossref.Work
	err  error
}

// Run queues every entry of state, then resolves them with at most
// Concurrency lookups outstanding. It returns once every admitted entry is
// terminal. Lookup failures are recorded on their entry and never stop the
// run.
//
// When ctx is canceled no further entry is admitted, in-flight lookups see
// the canceled context and are recorded as failed, entries never admitted
// stay queued, and Run returns ctx.Err().
func (s *Scheduler) Run(ctx context.Context, state *RunState, contact string) error {
	if err := state.queueAll(); err != nil {
		return err
	}

	total := state.Len()
	log := s.logger.With(zap.Int("entries", total), zap.Int("concurrency", s.concurrency))
	log.Debug("run started")

	// Only this goroutine touches next and inFlight; lookups report back
	// over results, which has room for every outstanding lookup so none of
	// them blocks if the loop returns early.
	results := make(chan completion, s.concurrency)
	next, inFlight := 0, 0
	var runErr error

	for {
		for runErr == nil && inFlight < s.concurrency && next < total {
			if err := ctx.Err(); err != nil {
				runErr = err
				break
			}

			idx := next
			next++
			entry, err := state.transition(idx, func(e *reference.Entry) {
				e.Status = reference.StatusInFlight
			})
			if err != nil {
				return fmt.Errorf("admitting entry: %w", err)
			}
			inFlight++
			log.Debug("admitted", zap.String("id", entry.ID), zap.Int("in_flight", inFlight))

			go func(idx int, query string) {
				work, err := s.lookup.Lookup(ctx, query, contact)
				results <- completion{idx: idx, work: work, err: err}
			}(idx, entry.QueryText)
		}

		if inFlight == 0 {
			break
		}

		c := <-results
		inFlight--
		if runErr == nil && c.err != nil && ctx.Err() != nil && errors.Is(c.err, ctx.Err()) {
			runErr = ctx.Err()
		}
		entry, err := state.transition(c.idx, func(e *reference.Entry) {
			applyOutcome(e, c.work, c.err)
		})
		if err != nil {
			log.Error("recording outcome", zap.Error(err))
			continue
		}
		log.Debug("completed",
			zap.String("id", entry.ID),
			zap.String("status", string(entry.Status)),
			zap.Int("in_flight", inFlight))
	}

	log.Debug("run finished", zap.Int("admitted", next), zap.Error(runErr))
	return runErr
}

// applyOutcome maps a lookup result onto the entry's terminal status.
func applyOutcome(e *reference.Entry, work *crossref.Work, err error) {
	switch {
	case err != nil:
		e.Fail(err.Error())
	case work == nil:
		e.MarkNotFound()
	default:
		meta := crossref.ToReference(*work)
		e.Resolve(crossref.NormalizeDOI(work.DOI), work.FirstTitle(), work.Score, &meta)
	}
}
