package ports

import "context"

// Watcher reports changes to the configuration file.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Watch blocks until ctx is done, calling onChange after every settled
	// modification of path.
	Watch(ctx context.Context, path string, onChange func()) error
}
