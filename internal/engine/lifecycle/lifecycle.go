// Package lifecycle implements the install and activate steps of the cache:
// precaching the asset manifest and purging partitions of older versions.
package lifecycle

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent manifest fetches when none is configured.
const DefaultWorkers = 4

// Report summarizes a precache run. Lists keep manifest order.
type Report struct {
	Stored []string
	Failed map[string]error
}

// Complete reports whether every manifest entry was stored.
func (r *Report) Complete() bool {
	return len(r.Failed) == 0
}

// Manager owns the partition lifecycle.
type Manager struct {
	cache   ports.CacheStore
	fetcher ports.Fetcher
	logger  ports.Logger
	workers int
}

// New creates a Manager. workers <= 0 selects DefaultWorkers.
func New(cache ports.CacheStore, fetcher ports.Fetcher, logger ports.Logger, workers int) *Manager {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Manager{cache: cache, fetcher: fetcher, logger: logger, workers: workers}
}

// Precache fetches every manifest URL and stores the 200 responses in the
// precache partition of version. It is best effort: failed entries are
// logged and reported but never abort the run. The error is only set when
// ctx is cancelled.
func (m *Manager) Precache(ctx context.Context, version domain.CacheVersion, manifest []string) (*Report, error) {
	partition := version.Partition(domain.PartitionPrecache)

	var (
		mu     sync.Mutex
		stored = make(map[string]bool, len(manifest))
		report = &Report{Failed: make(map[string]error)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	for _, url := range unique(manifest) {
		g.Go(func() error {
			err := m.precacheOne(gctx, partition, url)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed[url] = err
			} else {
				stored[url] = true
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, url := range unique(manifest) {
		if stored[url] {
			report.Stored = append(report.Stored, url)
		}
		if err, ok := report.Failed[url]; ok && m.logger != nil {
			m.logger.Warn("precache miss " + url + ": " + err.Error())
		}
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (m *Manager) precacheOne(ctx context.Context, partition, url string) error {
	req := &domain.Request{Method: http.MethodGet, URL: url}

	resp, err := m.fetcher.Fetch(ctx, req)
	if err != nil {
		return err
	}
	if resp.Status != http.StatusOK {
		return zerr.With(zerr.Wrap(domain.ErrPrecacheIncomplete, url), "status", strconv.Itoa(resp.Status))
	}
	return m.cache.Put(ctx, partition, req.Key(), resp)
}

func unique(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// PurgeStale deletes every partition that is not in current and returns the
// deleted names. Deletion continues past individual failures; the first
// failure is returned.
func (m *Manager) PurgeStale(ctx context.Context, current map[string]struct{}) ([]string, error) {
	names, err := m.cache.Partitions(ctx)
	if err != nil {
		return nil, err
	}

	var (
		deleted  []string
		firstErr error
	)
	for _, name := range names {
		if _, keep := current[name]; keep {
			continue
		}
		if err := m.cache.Delete(ctx, name); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		deleted = append(deleted, name)
		if m.logger != nil {
			m.logger.Info("deleted stale cache " + name)
		}
	}

	return deleted, firstErr
}
