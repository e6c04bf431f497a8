package syncer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/offsync/internal/adapters/config"
	"go.trai.ch/offsync/internal/adapters/httpclient"
	"go.trai.ch/offsync/internal/adapters/logger"
	"go.trai.ch/offsync/internal/adapters/sqlite"
	"go.trai.ch/offsync/internal/adapters/terminal"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
)

const (
	// CoordinatorNodeID is the unique identifier for the sync coordinator Graft node.
	CoordinatorNodeID graft.ID = "engine.sync_coordinator"
	// SchedulerNodeID is the unique identifier for the sync scheduler Graft node.
	SchedulerNodeID graft.ID = "engine.sync_scheduler"
)

func init() {
	graft.Register(graft.Node[*Coordinator]{
		ID:        CoordinatorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			sqlite.NodeID,
			httpclient.NodeID,
			terminal.NotifierNodeID,
			terminal.OpenerNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: func(ctx context.Context) (*Coordinator, error) {
			queue, err := graft.Dep[ports.PendingQueue](ctx)
			if err != nil {
				return nil, err
			}
			fetcher, err := graft.Dep[ports.Fetcher](ctx)
			if err != nil {
				return nil, err
			}
			notifier, err := graft.Dep[ports.Notifier](ctx)
			if err != nil {
				return nil, err
			}
			opener, err := graft.Dep[ports.WindowOpener](ctx)
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
			return NewCoordinator(queue, fetcher, notifier, opener, log, cfg), nil
		},
	})

	graft.Register(graft.Node[*Scheduler]{
		ID:        SchedulerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{CoordinatorNodeID, logger.NodeID, config.NodeID},
		Run: func(ctx context.Context) (*Scheduler, error) {
			coord, err := graft.Dep[*Coordinator](ctx)
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
			return NewScheduler(coord, cfg.Sync, log), nil
		},
	})
}
