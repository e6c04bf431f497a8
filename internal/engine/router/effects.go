package router

import (
	"context"

	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
)

// Writer stores a response in a partition.
type Writer interface {
	Put(ctx context.Context, partition string, key domain.RequestKey, resp *domain.StoredResponse) error
}

// CachePut stores Response under Key in Partition.
type CachePut struct {
	Cache      Writer
	Partition  string
	RequestKey domain.RequestKey
	Response   *domain.StoredResponse
}

// Key implements ports.Effect. Puts never collapse so the last write wins.
func (e *CachePut) Key() string {
	return ""
}

// Apply implements ports.Effect.
func (e *CachePut) Apply(ctx context.Context) error {
	return e.Cache.Put(ctx, e.Partition, e.RequestKey, e.Response)
}

// Revalidate refetches Request and refreshes Partition when the origin
// answers 200. Any failure leaves the cached entry as it was.
type Revalidate struct {
	Cache     Writer
	Fetcher   ports.Fetcher
	Partition string
	Request   *domain.Request
}

// Key implements ports.Effect.
func (e *Revalidate) Key() string {
	return "revalidate " + e.Partition + " " + e.Request.Key().String()
}

// Apply implements ports.Effect.
func (e *Revalidate) Apply(ctx context.Context) error {
	resp, err := e.Fetcher.Fetch(ctx, e.Request)
	if err != nil {
		return err
	}
	if resp.Status != 200 {
		return nil
	}
	return e.Cache.Put(ctx, e.Partition, e.Request.Key(), resp)
}

// currentWriter drops writes to partitions that are no longer current, so a
// background effect cannot recreate a partition that activation purged.
type currentWriter struct {
	r *Router
}

func (w currentWriter) Put(ctx context.Context, partition string, key domain.RequestKey, resp *domain.StoredResponse) error {
	w.r.mu.RLock()
	defer w.r.mu.RUnlock()
	if _, ok := w.r.Version().Partitions()[partition]; !ok {
		return nil
	}
	return w.r.cache.Put(ctx, partition, key, resp)
}
