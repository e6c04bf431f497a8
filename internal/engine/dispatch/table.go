package dispatch

import (
	"context"

	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/engine/lifecycle"
	"go.trai.ch/offsync/internal/engine/router"
	"go.trai.ch/offsync/internal/engine/syncer"
)

// NewTable wires the agent's handlers. manifest is the default install manifest.
func NewTable(rt *router.Router, lc *lifecycle.Manager, coord *syncer.Coordinator, manifest []string) Table {
	version := func(ev Event) domain.CacheVersion {
		if ev.Version != "" {
			return ev.Version
		}
		return rt.Version()
	}

	return Table{
		KindInstall: func(ctx context.Context, ev Event) (*Result, error) {
			m := ev.Manifest
			if m == nil {
				m = manifest
			}
			report, err := lc.Precache(ctx, version(ev), m)
			if err != nil {
				return nil, err
			}
			return &Result{Precache: report}, nil
		},

		KindActivate: func(ctx context.Context, ev Event) (*Result, error) {
			v := version(ev)
			// Switch first so no background write lands in a purged partition.
			rt.SetVersion(v)
			purged, err := lc.PurgeStale(ctx, v.Partitions())
			if err != nil {
				return nil, err
			}
			return &Result{Purged: purged}, nil
		},

		KindFetch: func(ctx context.Context, ev Event) (*Result, error) {
			if ev.Request == nil {
				return nil, domain.ErrInvalidRequest
			}
			out, err := rt.Route(ctx, ev.Request)
			if err != nil {
				return nil, err
			}
			return &Result{Outcome: out, Effects: out.Effects}, nil
		},

		KindSync: func(ctx context.Context, ev Event) (*Result, error) {
			if err := coord.OnSyncSignal(ctx, ev.Tag); err != nil {
				return nil, err
			}
			return &Result{}, nil
		},

		KindPush: func(ctx context.Context, ev Event) (*Result, error) {
			n, err := coord.OnPushReceived(ctx, ev.Payload)
			if err != nil {
				return nil, err
			}
			return &Result{Notification: &n}, nil
		},

		KindNotificationClick: func(ctx context.Context, ev Event) (*Result, error) {
			if err := coord.OnNotificationClicked(ctx, ev.Tag, ev.Action); err != nil {
				return nil, err
			}
			return &Result{}, nil
		},
	}
}
