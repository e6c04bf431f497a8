package ports

import "context"

// Effect is follow-up work produced while handling an event, run after the
// event's result has been returned.
type Effect interface {
	// Key identifies the effect. Effects with the same non-empty key that
	// overlap in time run once.
	Key() string
	// Apply performs the work.
	Apply(ctx context.Context) error
}
