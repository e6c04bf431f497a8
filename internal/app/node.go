package app

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/offsync/internal/adapters/config"      //nolint:depguard // Wired in app layer
	"go.trai.ch/offsync/internal/adapters/interceptor" //nolint:depguard // Wired in app layer
	"go.trai.ch/offsync/internal/adapters/logger"      //nolint:depguard // Wired in app layer
	"go.trai.ch/offsync/internal/adapters/sqlite"      //nolint:depguard // Wired in app layer
	"go.trai.ch/offsync/internal/adapters/telemetry"   //nolint:depguard // Wired in app layer
	"go.trai.ch/offsync/internal/adapters/watcher"     //nolint:depguard // Wired in app layer
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
	"go.trai.ch/offsync/internal/engine/dispatch"
	"go.trai.ch/offsync/internal/engine/syncer"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds the application components.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			dispatch.NodeID,
			sqlite.NodeID,
			syncer.SchedulerNodeID,
			interceptor.NodeID,
			watcher.NodeID,
			config.LoaderNodeID,
			config.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{AppNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
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
	handler, err := graft.Dep[*interceptor.Handler](ctx)
	if err != nil {
		return nil, err
	}
	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := graft.Dep[*domain.Config](ctx)
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

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	deps := Deps{
		Dispatcher: rt,
		Queue:      queue,
		Scheduler:  sched,
		Server:     handler,
		Watcher:    w,
		Loader:     loader,
		Logger:     log,
		Config:     cfg,
		ConfigPath: config.ResolvePath(cwd),
	}
	if t, ok := tracer.(*telemetry.OTelTracer); ok {
		deps.Shutdown = t.Shutdown
	}
	return New(deps), nil
}
