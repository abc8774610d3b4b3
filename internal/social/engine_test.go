package social

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scamalert/alertpro/internal/errs"
)

// blockingCalls records remote invocations and holds each one until released,
// so tests can pin the in-flight window open.
type blockingCalls struct {
	mu      sync.Mutex
	started []bool
	release chan struct{}
}

func newBlockingCalls() *blockingCalls {
	return &blockingCalls{release: make(chan struct{})}
}

func (b *blockingCalls) call(ctx context.Context, value bool) error {
	b.mu.Lock()
	b.started = append(b.started, value)
	b.mu.Unlock()
	<-b.release
	return nil
}

func (b *blockingCalls) startedValues() []bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]bool(nil), b.started...)
}

func waitResults(t *testing.T, ch <-chan Result, n int) []Result {
	t.Helper()
	out := make([]Result, 0, n)
	for len(out) < n {
		select {
		case r := <-ch:
			out = append(out, r)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for result %d of %d", len(out)+1, n)
		}
	}
	return out
}

func newTestEngine(t *testing.T, policy Policy) (*Engine, *Cache, *Bus, chan Result) {
	t.Helper()
	cache := NewCache()
	bus := NewBus()
	results := make(chan Result, 16)
	eng := NewEngine(EngineOptions{
		Cache:  cache,
		Bus:    bus,
		Policy: policy,
		Notify: func(r Result) { results <- r },
	})
	return eng, cache, bus, results
}

func TestEngine_OptimisticApplyBeforeSettle(t *testing.T) {
	t.Parallel()
	eng, cache, _, results := newTestEngine(t, NoRollback)

	ref := PostRef(42)
	cache.Put(ref, EntityState{Liked: false, LikeCount: 5})

	calls := newBlockingCalls()
	require.NoError(t, eng.Toggle(context.Background(), ref, FieldLiked, calls.call))

	// Cache reflects the toggle while the remote call is still in flight.
	st, _ := cache.Get(ref)
	require.True(t, st.Liked)
	require.Equal(t, 6, st.LikeCount)

	close(calls.release)
	res := waitResults(t, results, 1)
	require.NoError(t, res[0].Err)
	require.True(t, res[0].Value)

	// Success requires no further cache action.
	st, _ = cache.Get(ref)
	require.True(t, st.Liked)
	require.Equal(t, 6, st.LikeCount)
}

func TestEngine_DoubleTapSerializesAndCancelsOut(t *testing.T) {
	t.Parallel()
	eng, cache, _, results := newTestEngine(t, NoRollback)

	ref := PostRef(42)
	cache.Put(ref, EntityState{Liked: false, LikeCount: 5})

	calls := newBlockingCalls()
	ctx := context.Background()
	require.NoError(t, eng.Toggle(ctx, ref, FieldLiked, calls.call))
	require.NoError(t, eng.Toggle(ctx, ref, FieldLiked, calls.call))

	// Both toggles applied optimistically: back to the original state.
	st, _ := cache.Get(ref)
	require.False(t, st.Liked)
	require.Equal(t, 5, st.LikeCount)

	// Only one remote call may be in flight; the second queues behind it.
	require.Eventually(t, func() bool { return len(calls.startedValues()) == 1 },
		time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	require.Len(t, calls.startedValues(), 1, "second call must wait for the first to settle")

	close(calls.release)
	res := waitResults(t, results, 2)
	require.Equal(t, []bool{true, false}, calls.startedValues(), "two serialized calls in submission order")
	require.NoError(t, res[0].Err)
	require.NoError(t, res[1].Err)

	st, _ = cache.Get(ref)
	require.False(t, st.Liked)
	require.Equal(t, 5, st.LikeCount)
}

func TestEngine_TripleTapFinalStateOddToggles(t *testing.T) {
	t.Parallel()
	eng, cache, _, results := newTestEngine(t, NoRollback)

	ref := PostRef(7)
	cache.Put(ref, EntityState{Liked: false, LikeCount: 5})

	done := func(ctx context.Context, value bool) error { return nil }
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, eng.Toggle(ctx, ref, FieldLiked, done))
	}
	waitResults(t, results, 3)

	st, _ := cache.Get(ref)
	require.True(t, st.Liked)
	require.Equal(t, 6, st.LikeCount)
}

func TestEngine_NetworkFailureNoRollbackKeepsOptimisticValue(t *testing.T) {
	t.Parallel()
	eng, cache, _, results := newTestEngine(t, NoRollback)

	ref := UserRef(9)
	cache.Put(ref, EntityState{Following: false})

	fail := func(ctx context.Context, value bool) error {
		return fmt.Errorf("%w: connection reset", errs.ErrNetwork)
	}
	require.NoError(t, eng.Toggle(context.Background(), ref, FieldFollowing, fail))

	res := waitResults(t, results, 1)
	require.ErrorIs(t, res[0].Err, errs.ErrNetwork)

	st, _ := cache.Get(ref)
	require.True(t, st.Following, "failure is surfaced but the optimistic value stays")
}

func TestEngine_NetworkFailureRollbackRestoresValue(t *testing.T) {
	t.Parallel()
	eng, cache, bus, results := newTestEngine(t, Rollback)

	ref := PostRef(5)
	cache.Put(ref, EntityState{Liked: false, LikeCount: 2})

	var published []bool
	var mu sync.Mutex
	bus.Subscribe(ref, FieldLiked, func(v bool) {
		mu.Lock()
		published = append(published, v)
		mu.Unlock()
	})

	fail := func(ctx context.Context, value bool) error {
		return fmt.Errorf("%w: 502", errs.ErrNetwork)
	}
	require.NoError(t, eng.Toggle(context.Background(), ref, FieldLiked, fail))
	waitResults(t, results, 1)

	require.Eventually(t, func() bool {
		st, _ := cache.Get(ref)
		return !st.Liked && st.LikeCount == 2
	}, time.Second, 5*time.Millisecond, "rollback restores the pre-toggle state")

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []bool{true, false}, published, "optimistic publish then rollback publish")
}

func TestEngine_ToggleOnUncachedEntityIsFatal(t *testing.T) {
	t.Parallel()
	eng, _, _, _ := newTestEngine(t, NoRollback)

	called := false
	err := eng.Toggle(context.Background(), PostRef(404), FieldLiked, func(ctx context.Context, value bool) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.False(t, called, "no remote call on a cache miss")
}

func TestEngine_UnlikeAtZeroNeverGoesNegative(t *testing.T) {
	t.Parallel()
	eng, cache, _, results := newTestEngine(t, NoRollback)

	ref := PostRef(1)
	// Inconsistent server data: liked=true with zero count.
	cache.Put(ref, EntityState{Liked: true, LikeCount: 0})

	done := func(ctx context.Context, value bool) error { return nil }
	require.NoError(t, eng.Toggle(context.Background(), ref, FieldLiked, done))
	waitResults(t, results, 1)

	st, _ := cache.Get(ref)
	require.False(t, st.Liked)
	require.Equal(t, 0, st.LikeCount)
}

func TestEngine_PublishesOptimisticValueToBus(t *testing.T) {
	t.Parallel()
	eng, cache, bus, results := newTestEngine(t, NoRollback)

	ref := UserRef(7)
	cache.Put(ref, EntityState{Following: false})

	var got []bool
	bus.Subscribe(ref, FieldFollowing, func(v bool) { got = append(got, v) })

	calls := newBlockingCalls()
	require.NoError(t, eng.Toggle(context.Background(), ref, FieldFollowing, calls.call))
	require.Equal(t, []bool{true}, got, "bus sees the value before the remote call settles")

	close(calls.release)
	waitResults(t, results, 1)
}
