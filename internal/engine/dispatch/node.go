package dispatch

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/offsync/internal/adapters/config"
	"go.trai.ch/offsync/internal/adapters/logger"
	"go.trai.ch/offsync/internal/adapters/telemetry"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
	"go.trai.ch/offsync/internal/engine/lifecycle"
	"go.trai.ch/offsync/internal/engine/router"
	"go.trai.ch/offsync/internal/engine/syncer"
)

// NodeID is the unique identifier for the dispatch runtime Graft node.
const NodeID graft.ID = "engine.dispatch"

func init() {
	graft.Register(graft.Node[*Runtime]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			router.NodeID,
			lifecycle.NodeID,
			syncer.CoordinatorNodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: func(ctx context.Context) (*Runtime, error) {
			rt, err := graft.Dep[*router.Router](ctx)
			if err != nil {
				return nil, err
			}
			lc, err := graft.Dep[*lifecycle.Manager](ctx)
			if err != nil {
				return nil, err
			}
			coord, err := graft.Dep[*syncer.Coordinator](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
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
			return NewRuntime(NewTable(rt, lc, coord, cfg.Precache), tracer, log), nil
		},
	})
}
