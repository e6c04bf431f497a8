package interceptor

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/offsync/internal/adapters/config"
	"go.trai.ch/offsync/internal/adapters/logger"
	"go.trai.ch/offsync/internal/adapters/sqlite"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
	"go.trai.ch/offsync/internal/engine/dispatch"
	"go.trai.ch/offsync/internal/engine/syncer"
)

// NodeID is the unique identifier for the interceptor Graft node.
const NodeID graft.ID = "adapter.interceptor"

func init() {
	graft.Register(graft.Node[*Handler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			dispatch.NodeID,
			sqlite.NodeID,
			syncer.SchedulerNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: func(ctx context.Context) (*Handler, error) {
			rt, err := graft.Dep[*dispatch.Runtime](ctx)
			if err != nil {
				return nil, err
			}
			queue, err := graft.Dep[ports.PendingQueue](ctx)
			if err != nil {
				return nil, err
			}
			sched, err := graft.Dep[*syncer.Scheduler](ctx)
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
			return New(rt, queue, sched, log, cfg), nil
		},
	})
}
