package ports

import (
	"context"

	"go.trai.ch/offsync/internal/core/domain"
)

//go:generate mockgen -source=notifier.go -destination=mocks/mock_notifier.go -package=mocks

// Notifier renders user-visible notifications.
type Notifier interface {
	// Show displays n.
	Show(ctx context.Context, n domain.Notification) error
	// Dismiss closes the notification with the given tag. Unknown tags are ignored.
	Dismiss(ctx context.Context, tag string) error
}

// WindowOpener brings the application window to the front.
type WindowOpener interface {
	// Open focuses an existing window on url or opens a new one.
	Open(ctx context.Context, url string) error
}
