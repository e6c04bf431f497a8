// Package dispatch routes agent events to their handlers through an explicit
// table and runs the follow-up effects the handlers produce in the background.
package dispatch

import (
	"context"
	"sync"

	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
	"go.trai.ch/offsync/internal/engine/lifecycle"
	"go.trai.ch/offsync/internal/engine/router"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Kind names an event.
type Kind string

// Event kinds.
const (
	KindInstall           Kind = "install"
	KindActivate          Kind = "activate"
	KindFetch             Kind = "fetch"
	KindSync              Kind = "sync"
	KindPush              Kind = "push"
	KindNotificationClick Kind = "notificationclick"
)

// Event is one input to the agent. Only the fields of its kind are set.
type Event struct {
	Kind Kind

	// Version and Manifest drive install and activate. Empty values select
	// the router's current version and the configured manifest.
	Version  domain.CacheVersion
	Manifest []string

	// Request is the intercepted request of a fetch.
	Request *domain.Request

	// Tag is the sync tag, or the tag of the clicked notification.
	Tag string
	// Action is the clicked notification action.
	Action string

	// Payload is the raw push body.
	Payload []byte
}

// Result is what a handler produced for an event.
type Result struct {
	Outcome      *router.Outcome
	Precache     *lifecycle.Report
	Purged       []string
	Notification *domain.Notification
	// Effects run after the result has been returned.
	Effects []ports.Effect
}

// Handler handles one kind of event.
type Handler func(ctx context.Context, ev Event) (*Result, error)

// Table maps event kinds to handlers.
type Table map[Kind]Handler

// Runtime dispatches events and runs their effects detached from the
// caller's context. Effects with the same non-empty key that overlap in time
// run once.
type Runtime struct {
	table  Table
	tracer ports.Tracer
	logger ports.Logger

	wg    sync.WaitGroup
	group singleflight.Group
}

// NewRuntime creates a Runtime for table.
func NewRuntime(table Table, tracer ports.Tracer, logger ports.Logger) *Runtime {
	return &Runtime{table: table, tracer: tracer, logger: logger}
}

// Dispatch runs the handler for ev and schedules its effects. Effects are
// only scheduled when the handler succeeds.
func (r *Runtime) Dispatch(ctx context.Context, ev Event) (*Result, error) {
	handler, ok := r.table[ev.Kind]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownEvent, "dispatch"), "kind", string(ev.Kind))
	}

	var opts []ports.SpanOption
	if ev.Kind == KindFetch {
		opts = append(opts, ports.WithServerKind())
	}
	ctx, span := r.tracer.Start(ctx, "event."+string(ev.Kind), opts...)
	defer span.End()

	if ev.Request != nil {
		span.SetAttribute("http.method", ev.Request.Method)
		span.SetAttribute("http.url", ev.Request.URL)
	}
	if ev.Tag != "" {
		span.SetAttribute("offsync.tag", ev.Tag)
	}

	res, err := handler(ctx, ev)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if res == nil {
		res = &Result{}
	}

	if out := res.Outcome; out != nil {
		span.SetAttribute("offsync.strategy", string(out.Strategy))
		span.SetAttribute("offsync.source", string(out.Source))
		if out.Response != nil {
			span.SetAttribute("http.status_code", out.Response.Status)
		}
	}

	r.Go(ctx, res.Effects...)
	return res, nil
}

// Go runs effects in the background. They outlive ctx but keep its values.
func (r *Runtime) Go(ctx context.Context, effects ...ports.Effect) {
	bg := context.WithoutCancel(ctx)
	for _, e := range effects {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.apply(bg, e)
		}()
	}
}

func (r *Runtime) apply(ctx context.Context, e ports.Effect) {
	ctx, span := r.tracer.Start(ctx, "effect")
	defer span.End()

	var err error
	if key := e.Key(); key != "" {
		span.SetAttribute("offsync.effect", key)
		_, err, _ = r.group.Do(key, func() (any, error) {
			return nil, e.Apply(ctx)
		})
	} else {
		err = e.Apply(ctx)
	}

	if err != nil {
		span.RecordError(err)
		if r.logger != nil {
			r.logger.Warn("background task failed: " + err.Error())
		}
	}
}

// Wait blocks until every effect scheduled so far has finished.
func (r *Runtime) Wait() {
	r.wg.Wait()
}
