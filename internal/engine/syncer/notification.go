package syncer

import (
	"context"

	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultVibrate is the vibration pattern of push notifications.
var DefaultVibrate = []int{100, 50, 100}

// BuildNotification renders the notification for a push body. A missing or
// malformed body, or one without a message, yields the default body.
func (c *Coordinator) BuildNotification(payload []byte) domain.Notification {
	nc := c.cfg.Notification

	n := domain.Notification{
		Tag:     c.newID(),
		Title:   nc.Title,
		Body:    nc.DefaultBody,
		Icon:    nc.Icon,
		Badge:   nc.Badge,
		Vibrate: append([]int(nil), DefaultVibrate...),
		Data: map[string]any{
			"dateOfArrival": c.now().UnixMilli(),
		},
		Actions: []domain.NotificationAction{
			{Action: domain.ActionExplore, Title: "View"},
			{Action: domain.ActionClose, Title: "Close"},
		},
	}

	if p := domain.ParsePushPayload(payload); p != nil {
		if p.Message != "" {
			n.Body = p.Message
		}
		n.Data["payload"] = p.Raw
	}

	return n
}

// OnPushReceived shows the notification for payload and returns it.
func (c *Coordinator) OnPushReceived(ctx context.Context, payload []byte) (domain.Notification, error) {
	n := c.BuildNotification(payload)
	if err := c.notifier.Show(ctx, n); err != nil {
		return n, zerr.With(zerr.Wrap(err, domain.ErrNotificationFailed.Error()), "tag", n.Tag)
	}
	return n, nil
}

// OnNotificationClicked dismisses the notification. The explore action also
// brings the application window to the front; every other action only dismisses.
func (c *Coordinator) OnNotificationClicked(ctx context.Context, tag, action string) error {
	if err := c.notifier.Dismiss(ctx, tag); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrNotificationFailed.Error()), "tag", tag)
	}

	if action != domain.ActionExplore {
		return nil
	}

	return c.opener.Open(ctx, c.cfg.RootURL())
}
