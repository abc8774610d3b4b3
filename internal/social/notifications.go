package social

import (
	"context"
	"sync"

	"github.com/scamalert/alertpro/internal/api"
)

// FetchNotifications retrieves one page of the bucketed notification feed.
type FetchNotifications func(ctx context.Context, page int) (api.NotificationPage, error)

// NotificationFeed manages the three lifecycle buckets. New and Today are
// replaced wholesale on refresh and never paginated; only Earlier grows
// across pages. A short Earlier page marks the feed exhausted.
type NotificationFeed struct {
	fetch    FetchNotifications
	pageSize int

	mu        sync.Mutex
	fresh     []api.Notification
	today     []api.Notification
	earlier   []api.Notification
	seen      map[int64]struct{}
	page      int
	exhausted bool
	gen       int
}

// NewNotificationFeed builds a feed controller over fetch.
func NewNotificationFeed(fetch FetchNotifications, pageSize int) *NotificationFeed {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &NotificationFeed{
		fetch:    fetch,
		pageSize: pageSize,
		seen:     make(map[int64]struct{}),
	}
}

// Refresh replaces all three buckets from page 1.
func (f *NotificationFeed) Refresh(ctx context.Context) error {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.mu.Unlock()

	page, err := f.fetch(ctx, 1)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return nil
	}
	f.fresh = page.New
	f.today = page.Today
	f.earlier = nil
	f.seen = make(map[int64]struct{})
	f.appendEarlierLocked(page.Earlier)
	f.page = 1
	f.exhausted = len(page.Earlier) < f.pageSize
	return nil
}

// LoadMore appends the next page to Earlier. It is a no-op once a short page
// has been observed, and a refresh in flight discards the result.
func (f *NotificationFeed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.exhausted {
		f.mu.Unlock()
		return nil
	}
	gen := f.gen
	next := f.page + 1
	f.mu.Unlock()

	page, err := f.fetch(ctx, next)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return nil
	}
	f.appendEarlierLocked(page.Earlier)
	f.page = next
	if len(page.Earlier) < f.pageSize {
		f.exhausted = true
	}
	return nil
}

func (f *NotificationFeed) appendEarlierLocked(items []api.Notification) {
	for _, n := range items {
		if _, dup := f.seen[n.ID]; dup {
			continue
		}
		f.seen[n.ID] = struct{}{}
		f.earlier = append(f.earlier, n)
	}
}

// MarkSeen flips the seen flag for id in whichever bucket holds it.
func (f *NotificationFeed) MarkSeen(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, bucket := range [][]api.Notification{f.fresh, f.today, f.earlier} {
		for i := range bucket {
			if bucket[i].ID == id {
				bucket[i].Seen = true
			}
		}
	}
}

// MarkAllSeen flips the seen flag everywhere.
func (f *NotificationFeed) MarkAllSeen() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, bucket := range [][]api.Notification{f.fresh, f.today, f.earlier} {
		for i := range bucket {
			bucket[i].Seen = true
		}
	}
}

// Fresh returns the New bucket.
func (f *NotificationFeed) Fresh() []api.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Notification(nil), f.fresh...)
}

// Today returns the Today bucket.
func (f *NotificationFeed) Today() []api.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Notification(nil), f.today...)
}

// Earlier returns the paginated Earlier bucket.
func (f *NotificationFeed) Earlier() []api.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Notification(nil), f.earlier...)
}

// All returns new + today + earlier flattened, in that order.
func (f *NotificationFeed) All() []api.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]api.Notification, 0, len(f.fresh)+len(f.today)+len(f.earlier))
	out = append(out, f.fresh...)
	out = append(out, f.today...)
	out = append(out, f.earlier...)
	return out
}

// Unread counts notifications with seen=false across all buckets.
func (f *NotificationFeed) Unread() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, bucket := range [][]api.Notification{f.fresh, f.today, f.earlier} {
		for i := range bucket {
			if !bucket[i].Seen {
				count++
			}
		}
	}
	return count
}

// Exhausted reports whether a short Earlier page has been observed.
func (f *NotificationFeed) Exhausted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exhausted
}
