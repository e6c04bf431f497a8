package ports

import (
	"context"

	"go.trai.ch/offsync/internal/core/domain"
)

// CacheStore defines the interface to the named cache partitions.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type CacheStore interface {
	// Get returns the entry stored under key in partition.
	// Returns nil, nil on a miss.
	Get(ctx context.Context, partition string, key domain.RequestKey) (*domain.StoredResponse, error)

	// Put stores resp under key in partition, replacing any previous entry.
	Put(ctx context.Context, partition string, key domain.RequestKey, resp *domain.StoredResponse) error

	// Match returns the first hit for key across partitions, in order, and the
	// partition it was found in. Returns nil, "", nil when no partition holds key.
	Match(ctx context.Context, key domain.RequestKey, partitions ...string) (*domain.StoredResponse, string, error)

	// Partitions lists the names of all existing partitions.
	Partitions(ctx context.Context) ([]string, error)

	// Delete removes a partition and all of its entries.
	Delete(ctx context.Context, partition string) error
}
