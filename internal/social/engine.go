package social

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/scamalert/alertpro/internal/errs"
)

// RemoteCall issues the server mutation backing an optimistic toggle. The
// engine picks the like/unlike (etc.) direction before the call, so the
// callback receives the value the server should converge to.
type RemoteCall func(ctx context.Context, value bool) error

// Policy selects the failure behavior of the engine.
type Policy int

const (
	// NoRollback leaves the optimistic value in place when the remote call
	// fails; the failure is surfaced as a non-blocking alert only. This
	// matches the shipped behavior and is the default.
	NoRollback Policy = iota

	// Rollback restores the pre-toggle value when the remote call fails.
	Rollback
)

// Result reports the settlement of one queued toggle.
type Result struct {
	Ref   Ref
	Field Field
	Value bool
	Err   error
}

// Engine applies toggle mutations optimistically: the cache and the bus see
// the new value before the remote call resolves. Per (ref, field) at most one
// remote call is in flight; rapid repeat toggles queue in submission order so
// a double-tap produces two serialized calls, never a lost update.
type Engine struct {
	cache  *Cache
	bus    *Bus
	policy Policy
	notify func(Result)
	log    *zap.SugaredLogger

	mu     sync.Mutex
	queues map[topic]*toggleQueue
}

type toggleQueue struct {
	pending []queuedToggle
	running bool
}

type queuedToggle struct {
	ctx   context.Context
	call  RemoteCall
	value bool
}

// EngineOptions configure a mutation engine. Cache is required; the rest are
// optional.
type EngineOptions struct {
	Cache  *Cache
	Bus    *Bus
	Policy Policy
	Notify func(Result)
	Log    *zap.SugaredLogger
}

// NewEngine builds an engine over the given cache and bus.
func NewEngine(opts EngineOptions) *Engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	notify := opts.Notify
	if notify == nil {
		notify = func(Result) {}
	}
	return &Engine{
		cache:  opts.Cache,
		bus:    opts.Bus,
		policy: opts.Policy,
		notify: notify,
		log:    log,
		queues: make(map[topic]*toggleQueue),
	}
}

// Toggle negates field on ref, writes the new value (and the paired counter
// delta for likes) to the cache and the bus, then queues the remote call.
// The returned error is non-nil only for cache misses, which are fatal: the
// screen is operating on state it never loaded and must reload instead.
// Remote failures are reported asynchronously through Notify.
func (e *Engine) Toggle(ctx context.Context, ref Ref, field Field, call RemoteCall) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.cache.Get(ref)
	if !ok {
		return fmt.Errorf("%w: toggle %s on uncached entity %v/%d", errs.ErrNotFound, field, ref.Kind, ref.ID)
	}

	next := !st.value(field)
	if _, err := e.cache.Update(ref, togglePatch(st, field, next)); err != nil {
		return err
	}
	if e.bus != nil {
		e.bus.Publish(ref, field, next)
	}

	key := topic{ref: ref, field: field}
	q := e.queues[key]
	if q == nil {
		q = &toggleQueue{}
		e.queues[key] = q
	}
	q.pending = append(q.pending, queuedToggle{ctx: ctx, call: call, value: next})
	if !q.running {
		q.running = true
		go e.drain(key, q)
	}
	return nil
}

// drain issues queued remote calls one at a time, strictly in submission
// order.
func (e *Engine) drain(key topic, q *toggleQueue) {
	for {
		e.mu.Lock()
		if len(q.pending) == 0 {
			q.running = false
			delete(e.queues, key)
			e.mu.Unlock()
			return
		}
		item := q.pending[0]
		q.pending = q.pending[1:]
		e.mu.Unlock()

		err := item.call(item.ctx, item.value)
		if err != nil {
			e.log.Warnw("mutation failed",
				"kind", key.ref.Kind,
				"id", key.ref.ID,
				"field", key.field,
				"value", item.value,
				"error", err,
			)
			if e.policy == Rollback {
				e.rollback(key, item.value)
			}
		}
		e.notify(Result{Ref: key.ref, Field: key.field, Value: item.value, Err: err})
	}
}

// rollback undoes one failed toggle by applying the opposite transition.
func (e *Engine) rollback(key topic, failedValue bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.cache.Get(key.ref)
	if !ok {
		return
	}
	restored := !failedValue
	if _, err := e.cache.Update(key.ref, togglePatch(st, key.field, restored)); err != nil {
		return
	}
	if e.bus != nil {
		e.bus.Publish(key.ref, key.field, restored)
	}
}

// togglePatch builds the patch for setting field to value, including the
// paired like counter. Counter clamping happens in the cache merge.
func togglePatch(st EntityState, field Field, value bool) Patch {
	patch := Patch{}
	switch field {
	case FieldLiked:
		patch.Liked = &value
		count := st.LikeCount
		if value {
			count++
		} else {
			count--
		}
		patch.LikeCount = &count
	case FieldSaved:
		patch.Saved = &value
	case FieldFollowing:
		patch.Following = &value
	}
	return patch
}
