package sqlite

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/offsync/internal/adapters/config"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
)

// NodeID is the unique identifier for the pending-write queue Graft node.
const NodeID graft.ID = "adapter.pending_queue"

func init() {
	graft.Register(graft.Node[ports.PendingQueue]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.PendingQueue, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return Open(domain.QueuePath(cfg.DataDir))
		},
	})
}
