// Package router classifies intercepted requests and answers them from the
// network or the cache partitions.
package router

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
	"go.trai.ch/zerr"
)

// Strategy names the retrieval path chosen for a request.
type Strategy string

const (
	// StrategyBypass forwards the request untouched.
	StrategyBypass Strategy = "bypass"
	// StrategyNetworkFirst prefers the origin and falls back to the API partition.
	StrategyNetworkFirst Strategy = "network-first"
	// StrategyCacheFirst serves runtime/precache hits and revalidates in the background.
	StrategyCacheFirst Strategy = "cache-first"
)

// Source names where the returned response came from.
type Source string

const (
	SourceNetwork Source = "network"
	SourceCache   Source = "cache"
	// SourceOffline marks a fallback page or a synthesized response.
	SourceOffline Source = "offline"
)

// Outcome is the answer to one intercepted request.
type Outcome struct {
	Response *domain.StoredResponse
	Strategy Strategy
	Source   Source
	// Effects run after Response has been handed to the caller.
	Effects []ports.Effect
}

// Router implements the strategy state machine.
type Router struct {
	cache       ports.CacheStore
	fetcher     ports.Fetcher
	logger      ports.Logger
	apiPrefix   string
	offlinePage string
	version     atomic.Pointer[domain.CacheVersion]
	// mu orders version switches after in-flight effect writes.
	mu          sync.RWMutex
	now         func() time.Time
}

// New creates a Router for cfg.
func New(cache ports.CacheStore, fetcher ports.Fetcher, logger ports.Logger, cfg *domain.Config) *Router {
	r := &Router{
		cache:       cache,
		fetcher:     fetcher,
		logger:      logger,
		apiPrefix:   cfg.APIPrefix,
		offlinePage: cfg.OfflinePage,
		now:         time.Now,
	}
	r.SetVersion(cfg.Version)
	return r
}

// SetVersion switches the partitions used by later requests. It returns
// once no effect is writing to a partition of the previous version.
func (r *Router) SetVersion(v domain.CacheVersion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.version.Store(&v)
}

// Version returns the active cache version.
func (r *Router) Version() domain.CacheVersion {
	return *r.version.Load()
}

// Classify picks the strategy for req.
func (r *Router) Classify(req *domain.Request) Strategy {
	switch {
	case !req.IsSafe():
		return StrategyBypass
	case req.HasPrefix(r.apiPrefix):
		return StrategyNetworkFirst
	default:
		return StrategyCacheFirst
	}
}

// Route answers req. The only error is a network failure on a path that has
// no fallback: bypassed requests and cache-first misses that are not navigations.
func (r *Router) Route(ctx context.Context, req *domain.Request) (*Outcome, error) {
	switch strategy := r.Classify(req); strategy {
	case StrategyBypass:
		return r.bypass(ctx, req)
	case StrategyNetworkFirst:
		return r.networkFirst(ctx, req)
	default:
		return r.cacheFirst(ctx, req)
	}
}

func (r *Router) bypass(ctx context.Context, req *domain.Request) (*Outcome, error) {
	resp, err := r.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, zerr.With(err, "strategy", string(StrategyBypass))
	}
	return &Outcome{Response: resp, Strategy: StrategyBypass, Source: SourceNetwork}, nil
}

func (r *Router) networkFirst(ctx context.Context, req *domain.Request) (*Outcome, error) {
	partition := r.Version().Partition(domain.PartitionAPI)

	resp, err := r.fetcher.Fetch(ctx, req)
	if err == nil {
		return &Outcome{
			Response: resp,
			Strategy: StrategyNetworkFirst,
			Source:   SourceNetwork,
			Effects: []ports.Effect{&CachePut{
				Cache:      currentWriter{r},
				Partition:  partition,
				RequestKey: req.Key(),
				Response:   resp.Clone(),
			}},
		}, nil
	}

	if hit := r.lookup(ctx, req.Key(), partition); hit != nil {
		return &Outcome{Response: hit, Strategy: StrategyNetworkFirst, Source: SourceCache}, nil
	}

	return &Outcome{
		Response: OfflineAPIResponse(r.now().UTC()),
		Strategy: StrategyNetworkFirst,
		Source:   SourceOffline,
	}, nil
}

func (r *Router) cacheFirst(ctx context.Context, req *domain.Request) (*Outcome, error) {
	v := r.Version()
	runtime := v.Partition(domain.PartitionRuntime)
	precache := v.Partition(domain.PartitionPrecache)

	if hit := r.lookup(ctx, req.Key(), runtime, precache); hit != nil {
		return &Outcome{
			Response: hit,
			Strategy: StrategyCacheFirst,
			Source:   SourceCache,
			Effects: []ports.Effect{&Revalidate{
				Cache:     currentWriter{r},
				Fetcher:   r.fetcher,
				Partition: runtime,
				Request:   cloneRequest(req),
			}},
		}, nil
	}

	resp, err := r.fetcher.Fetch(ctx, req)
	if err == nil {
		out := &Outcome{Response: resp, Strategy: StrategyCacheFirst, Source: SourceNetwork}
		if resp.Status == http.StatusOK {
			out.Effects = []ports.Effect{&CachePut{
				Cache:      currentWriter{r},
				Partition:  runtime,
				RequestKey: req.Key(),
				Response:   resp.Clone(),
			}}
		}
		return out, nil
	}

	if !req.Navigate {
		return nil, zerr.With(err, "strategy", string(StrategyCacheFirst))
	}

	offlineKey := domain.RequestKey{Method: http.MethodGet, URL: r.offlinePage}
	if page := r.lookup(ctx, offlineKey, precache); page != nil {
		return &Outcome{Response: page, Strategy: StrategyCacheFirst, Source: SourceOffline}, nil
	}

	return &Outcome{
		Response: OfflinePageResponse(r.now().UTC()),
		Strategy: StrategyCacheFirst,
		Source:   SourceOffline,
	}, nil
}

// lookup returns the first hit across partitions. Read failures count as misses.
func (r *Router) lookup(ctx context.Context, key domain.RequestKey, partitions ...string) *domain.StoredResponse {
	hit, _, err := r.cache.Match(ctx, key, partitions...)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("cache lookup failed for " + key.String() + ": " + err.Error())
		}
		return nil
	}
	return hit
}

func cloneRequest(req *domain.Request) *domain.Request {
	c := *req
	c.Header = req.Header.Clone()
	c.Body = nil
	return &c
}
