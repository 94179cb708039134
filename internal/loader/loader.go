// Package loader is a process-wide registry of at-most-one-inflight
// background task per kind, delivering results to the foreground over
// a bounded channel and discarding results whose generation has gone
// stale — the mechanism §4.3 requires for safe supersession.
package loader

import "sync"

// Result is what a worker delivers back to the foreground: either a
// value, or an error, stamped with the generation it was launched at.
type Result[T any] struct {
	Generation uint64
	Value      T
	Err        error
}

// state is non-generic per-kind bookkeeping; Result[T] is generic and
// flows over a channel of `any` so one registry can host many kinds.
type state struct {
	loading    bool
	generation uint64
	ch         chan any
}

// Registry owns one inflight slot per kind, keyed by a caller-chosen
// comparable kind value (e.g. a small string or int enum).
type Registry[K comparable] struct {
	mu     sync.Mutex
	states map[K]*state
}

func NewRegistry[K comparable]() *Registry[K] {
	return &Registry[K]{states: make(map[K]*state)}
}

func (r *Registry[K]) stateFor(kind K) *state {
	s, ok := r.states[kind]
	if !ok {
		s = &state{ch: make(chan any, 1)}
		r.states[kind] = s
	}
	return s
}

// Request launches fn in a new goroutine for kind, unless one is
// already inflight — in which case the generation counter is bumped so
// the eventually-delivered stale result is discarded on arrival, and a
// fresh goroutine is still started to pursue up-to-date data. Returns
// the generation stamped on this request.
func Request[K comparable, T any](r *Registry[K], kind K, fn func() (T, error)) uint64 {
	r.mu.Lock()
	s := r.stateFor(kind)
	s.generation++
	gen := s.generation
	s.loading = true
	ch := s.ch
	r.mu.Unlock()

	// Drop any undelivered result left over from a superseded request so
	// the buffered slot is free for this one's eventual delivery.
	select {
	case <-ch:
	default:
	}

	go func() {
		value, err := fn()
		res := Result[T]{Generation: gen, Value: value, Err: err}
		r.mu.Lock()
		defer r.mu.Unlock()
		select {
		case ch <- res:
		default:
			// Channel already holds an undelivered result for this kind.
			// If this result is the current generation, the held one is
			// stale: replace it. Otherwise this result is the stale one
			// and is dropped.
			if s.generation == gen {
				select {
				case <-ch:
				default:
				}
				ch <- res
			}
		}
	}()
	return gen
}

// Outcome is the non-blocking poll result for one kind.
type Outcome[T any] struct {
	Ready bool
	Stale bool
	Value T
	Err   error
}

// Poll drains at most one pending result for kind. A result whose
// generation doesn't match the most recent Request's generation is
// reported as stale and otherwise discarded without side effect.
func Poll[K comparable, T any](r *Registry[K], kind K) Outcome[T] {
	r.mu.Lock()
	s := r.stateFor(kind)
	ch := s.ch
	currentGen := s.generation
	r.mu.Unlock()

	select {
	case raw := <-ch:
		res, ok := raw.(Result[T])
		if !ok {
			return Outcome[T]{}
		}
		r.mu.Lock()
		if res.Generation == currentGen {
			s.loading = false
		}
		r.mu.Unlock()
		if res.Generation != currentGen {
			return Outcome[T]{Stale: true}
		}
		return Outcome[T]{Ready: true, Value: res.Value, Err: res.Err}
	default:
		return Outcome[T]{}
	}
}

// IsLoading reports whether kind has an inflight request, for driving
// UI spinners.
func (r *Registry[K]) IsLoading(kind K) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[kind]
	return ok && s.loading
}
