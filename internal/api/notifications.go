package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/scamalert/alertpro/internal/errs"
)

// FetchNotificationsPage retrieves one page of the notification feed. Page 1
// carries all three buckets; later pages only grow Earlier.
func (c *Client) FetchNotificationsPage(ctx context.Context, page int) (NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	query := url.Values{"page": []string{strconv.Itoa(page)}}
	var out NotificationPage
	if err := c.get(ctx, "/api/notifications", query, &out); err != nil {
		return NotificationPage{}, err
	}
	return out, nil
}

// MarkNotificationRead flips the seen flag for a single notification.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: notification id required", errs.ErrValidation)
	}
	return c.postJSON(ctx, "/api/notifications/"+strconv.FormatInt(id, 10)+"/read", nil, nil)
}

// MarkAllRead flips the seen flag on every notification for the viewer.
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.postJSON(ctx, "/api/notifications/read-all", nil, nil)
}

// UnreadCount retrieves the badge count for the notification screen.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.get(ctx, "/api/notifications/unread-count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
