package ports

import (
	"context"

	"go.trai.ch/offsync/internal/core/domain"
)

// PendingQueue defines the durable store of writes awaiting replay.
//
//go:generate mockgen -source=queue.go -destination=mocks/mock_queue.go -package=mocks
type PendingQueue interface {
	// Enqueue persists w and returns its newly assigned identifier.
	// The ID field of w is ignored.
	Enqueue(ctx context.Context, w domain.PendingWrite) (int64, error)

	// ListAll returns the pending entries in ascending id order.
	ListAll(ctx context.Context) ([]domain.PendingWrite, error)

	// ListDead returns the entries that exhausted their attempts, in ascending id order.
	ListDead(ctx context.Context) ([]domain.PendingWrite, error)

	// Remove deletes the entry with the given id. Removing an unknown id is a no-op.
	Remove(ctx context.Context, id int64) error

	// RecordFailure increments the attempt counter of id and stores the failure reason.
	// It returns the new attempt count.
	RecordFailure(ctx context.Context, id int64, reason string) (int, error)

	// Bury moves id to the dead letter state so that drains skip it.
	Bury(ctx context.Context, id int64) error

	// Close releases the underlying storage.
	Close() error
}
