package router

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/offsync/internal/adapters/cas"
	"go.trai.ch/offsync/internal/adapters/config"
	"go.trai.ch/offsync/internal/adapters/httpclient"
	"go.trai.ch/offsync/internal/adapters/logger"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
)

// NodeID is the unique identifier for the strategy router Graft node.
const NodeID graft.ID = "engine.router"

func init() {
	graft.Register(graft.Node[*Router]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{cas.NodeID, httpclient.NodeID, logger.NodeID, config.NodeID},
		Run: func(ctx context.Context) (*Router, error) {
			cache, err := graft.Dep[ports.CacheStore](ctx)
			if err != nil {
				return nil, err
			}
			fetcher, err := graft.Dep[ports.Fetcher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return New(cache, fetcher, log, cfg), nil
		},
	})
}
