package api

import (
	"context"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// Notifications lists the current user's notifications, newest first
func (c *Client) Notifications(ctx context.Context, page, size int) (*model.Page[model.Notification], error) {
	return getPage[model.Notification](ctx, c, "notifications", nil, page, size)
}

// UnreadCount returns the number of unread notifications
func (c *Client) UnreadCount(ctx context.Context) (int64, error) {
	var n int64
	if err := c.get(ctx, "notifications/unread/count", nil, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// MarkNotificationRead marks one notification read
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	if err := requireID("notification id", id); err != nil {
		return err
	}
	return c.put(ctx, "notifications/"+seg(id)+"/read", nil, nil, nil)
}

// MarkAllNotificationsRead marks every notification read
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.put(ctx, "notifications/read-all", nil, nil, nil)
}

// DeleteNotification removes a notification
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	if err := requireID("notification id", id); err != nil {
		return err
	}
	return c.delete(ctx, "notifications/"+seg(id))
}
