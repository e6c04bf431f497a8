package terminal

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/offsync/internal/core/ports"
)

const (
	// NotifierNodeID is the unique identifier for the notifier Graft node.
	NotifierNodeID graft.ID = "adapter.notifier"
	// OpenerNodeID is the unique identifier for the window opener Graft node.
	OpenerNodeID graft.ID = "adapter.window_opener"
)

func init() {
	graft.Register(graft.Node[ports.Notifier]{
		ID:        NotifierNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Notifier, error) {
			return NewNotifier(nil, nil), nil
		},
	})

	graft.Register(graft.Node[ports.WindowOpener]{
		ID:        OpenerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.WindowOpener, error) {
			return NewOpener(), nil
		},
	})
}
