// Package social implements the interaction state synchronizer shared by the
// feed, profile, saved and notification screens: an entity cache holding the
// display state of visible posts and users, an optimistic mutation engine, a
// paginated list controller and a change-notification bus.
package social

import (
	"fmt"
	"sync"

	"github.com/scamalert/alertpro/internal/errs"
)

// Kind distinguishes the two entity namespaces tracked by the cache.
type Kind int

const (
	KindPost Kind = iota
	KindUser
)

// Ref identifies an entity in the cache. Posts are keyed by their base id;
// repost instances share the base post's interaction state.
type Ref struct {
	Kind Kind
	ID   int64
}

// PostRef returns the cache key for a post's base id.
func PostRef(id int64) Ref { return Ref{Kind: KindPost, ID: id} }

// UserRef returns the cache key for a user profile.
func UserRef(id int64) Ref { return Ref{Kind: KindUser, ID: id} }

// Field names a toggleable boolean on an entity.
type Field string

const (
	FieldLiked     Field = "liked"
	FieldSaved     Field = "saved"
	FieldFollowing Field = "following"
)

// EntityState is the display state the screens render for one entity.
type EntityState struct {
	Liked        bool
	LikeCount    int
	Saved        bool
	Following    bool
	CommentCount int
	RepostCount  int
}

// Patch carries partial updates for Cache.Update. Nil fields are left alone.
type Patch struct {
	Liked        *bool
	LikeCount    *int
	Saved        *bool
	Following    *bool
	CommentCount *int
	RepostCount  *int
}

// Cache maps entity refs to their current display state for the lifetime of
// the owning screen. There is no implicit creation on update: a screen must
// Put the state obtained from its initiating fetch before mutating it.
type Cache struct {
	mu      sync.RWMutex
	entries map[Ref]EntityState
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Ref]EntityState)}
}

// Get returns the current state for ref, if present.
func (c *Cache) Get(ref Ref) (EntityState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, ok := c.entries[ref]
	return st, ok
}

// Put stores state for ref, replacing any previous entry.
func (c *Cache) Put(ref Ref, state EntityState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[ref] = clampCounts(state)
}

// Update merges the non-nil fields of patch into the existing state and
// returns the result. Updating an entity the screen never fetched is a state
// inconsistency and fails with errs.ErrNotFound.
func (c *Cache) Update(ref Ref, patch Patch) (EntityState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.entries[ref]
	if !ok {
		return EntityState{}, fmt.Errorf("%w: entity %v/%d not cached", errs.ErrNotFound, ref.Kind, ref.ID)
	}
	if patch.Liked != nil {
		st.Liked = *patch.Liked
	}
	if patch.LikeCount != nil {
		st.LikeCount = *patch.LikeCount
	}
	if patch.Saved != nil {
		st.Saved = *patch.Saved
	}
	if patch.Following != nil {
		st.Following = *patch.Following
	}
	if patch.CommentCount != nil {
		st.CommentCount = *patch.CommentCount
	}
	if patch.RepostCount != nil {
		st.RepostCount = *patch.RepostCount
	}
	st = clampCounts(st)
	c.entries[ref] = st
	return st, nil
}

// Evict drops the entry for ref. Screens call this on unmount for entities
// only they reference.
func (c *Cache) Evict(ref Ref) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, ref)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Ref]EntityState)
}

// Len reports the number of cached entities.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// value returns the boolean named by field.
func (s EntityState) value(field Field) bool {
	switch field {
	case FieldLiked:
		return s.Liked
	case FieldSaved:
		return s.Saved
	case FieldFollowing:
		return s.Following
	}
	return false
}

// Counters never go negative; a decrement below zero is clamped, not produced.
func clampCounts(st EntityState) EntityState {
	if st.LikeCount < 0 {
		st.LikeCount = 0
	}
	if st.CommentCount < 0 {
		st.CommentCount = 0
	}
	if st.RepostCount < 0 {
		st.RepostCount = 0
	}
	return st
}
