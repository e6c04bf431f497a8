package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/offsync/internal/adapters/config"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
)

// NodeID is the unique identifier for the cache store Graft node.
const NodeID graft.ID = "adapter.cache_store"

func init() {
	graft.Register(graft.Node[ports.CacheStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.CacheStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(domain.CachePath(cfg.DataDir)), nil
		},
	})
}
