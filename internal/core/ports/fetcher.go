package ports

import (
	"context"

	"go.trai.ch/offsync/internal/core/domain"
)

// Fetcher performs network round trips against the application origin.
//
//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	// Fetch sends req and returns the buffered response.
	// Any HTTP status, including errors, is a response. Only a transport failure
	// (no response at all) is returned as an error.
	Fetch(ctx context.Context, req *domain.Request) (*domain.StoredResponse, error)
}
