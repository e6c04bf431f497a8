package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/offsync/internal/adapters/config"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
)

// TracerNodeID is the unique identifier for the Telemetry adapter Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			shutdown, err := Setup(ctx, cfg.OTLPEndpoint)
			if err != nil {
				return nil, err
			}

			t := NewOTelTracer(ServiceName)
			t.shutdown = shutdown
			return t, nil
		},
	})
}
