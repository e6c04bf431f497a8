// Package app implements the application layer for offsync.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
	"go.trai.ch/offsync/internal/engine/dispatch"
	"go.trai.ch/offsync/internal/engine/lifecycle"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Dispatcher delivers events and tracks their background effects.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev dispatch.Event) (*dispatch.Result, error)
	Wait()
}

// SyncScheduler retries registered sync tags in the background.
type SyncScheduler interface {
	Register(tag string)
	Run(ctx context.Context) error
}

// Server serves the interceptor.
type Server interface {
	Serve(ctx context.Context, addr string) error
}

// Deps are the collaborators of an App.
type Deps struct {
	Dispatcher Dispatcher
	Queue      ports.PendingQueue
	Scheduler  SyncScheduler
	Server     Server
	Watcher    ports.Watcher
	Loader     ports.ConfigLoader
	Logger     ports.Logger
	Config     *domain.Config
	// ConfigPath is the file watched for version bumps while serving.
	ConfigPath string
	// Shutdown flushes telemetry on Close.
	Shutdown func(context.Context) error
}

// App represents the main application logic.
type App struct {
	dispatcher Dispatcher
	queue      ports.PendingQueue
	scheduler  SyncScheduler
	server     Server
	watcher    ports.Watcher
	loader     ports.ConfigLoader
	logger     ports.Logger
	configPath string
	shutdown   func(context.Context) error

	mu  sync.Mutex
	cfg *domain.Config
}

// New creates a new App instance.
func New(d Deps) *App {
	return &App{
		dispatcher: d.Dispatcher,
		queue:      d.Queue,
		scheduler:  d.Scheduler,
		server:     d.Server,
		watcher:    d.Watcher,
		loader:     d.Loader,
		logger:     d.Logger,
		configPath: d.ConfigPath,
		shutdown:   d.Shutdown,
		cfg:        d.Config,
	}
}

// Config returns the configuration in effect.
func (a *App) Config() *domain.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// SetJSONLogs switches the logger to JSON output when it supports it.
func (a *App) SetJSONLogs(on bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(on)
	}
}

// SetLogOutput redirects the logger when it supports it.
func (a *App) SetLogOutput(w io.Writer) {
	if l, ok := a.logger.(interface{ SetOutput(io.Writer) }); ok {
		l.SetOutput(w)
	}
}

// Install precaches the asset manifest of the configured version. Missing
// assets are logged and do not fail the install.
func (a *App) Install(ctx context.Context) (*lifecycle.Report, error) {
	cfg := a.Config()
	return a.install(ctx, cfg.Version, cfg.Precache)
}

func (a *App) install(ctx context.Context, v domain.CacheVersion, manifest []string) (*lifecycle.Report, error) {
	res, err := a.dispatcher.Dispatch(ctx, dispatch.Event{Kind: dispatch.KindInstall, Version: v, Manifest: manifest})
	if err != nil {
		return nil, zerr.Wrap(err, "install failed")
	}
	report := res.Precache
	a.logger.Info(fmt.Sprintf("precached %d/%d assets for %s", len(report.Stored), len(report.Stored)+len(report.Failed), v))
	return report, nil
}

// Activate deletes every partition that does not belong to the configured
// version and switches the router to it.
func (a *App) Activate(ctx context.Context) ([]string, error) {
	return a.activate(ctx, a.Config().Version)
}

func (a *App) activate(ctx context.Context, v domain.CacheVersion) ([]string, error) {
	res, err := a.dispatcher.Dispatch(ctx, dispatch.Event{Kind: dispatch.KindActivate, Version: v})
	if err != nil {
		return nil, zerr.Wrap(err, "activate failed")
	}
	return res.Purged, nil
}

// Serve installs and activates the configured version, then intercepts
// requests, retries syncs and follows config edits until ctx is done.
func (a *App) Serve(ctx context.Context) error {
	if _, err := a.Install(ctx); err != nil {
		return err
	}
	if _, err := a.Activate(ctx); err != nil {
		return err
	}

	cfg := a.Config()
	if pending, err := a.queue.ListAll(ctx); err == nil && len(pending) > 0 {
		a.scheduler.Register(cfg.SyncTag)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.server.Serve(gctx, cfg.Listen)
	})
	g.Go(func() error {
		return a.scheduler.Run(gctx)
	})
	if a.watcher != nil && a.configPath != "" {
		g.Go(func() error {
			return a.watcher.Watch(gctx, a.configPath, func() { a.reload(gctx) })
		})
	}

	err := g.Wait()
	a.dispatcher.Wait()
	return err
}

// reload applies a version bump from the config file: the new version is
// installed, then activated. Any other edit needs a restart.
func (a *App) reload(ctx context.Context) {
	next, err := a.loader.Load(a.configPath)
	if err != nil {
		a.logger.Error(zerr.Wrap(err, "config reload failed"))
		return
	}

	current := a.Config()
	if next.Version == current.Version {
		return
	}

	a.logger.Info(fmt.Sprintf("cache version changed from %s to %s", current.Version, next.Version))
	if _, err := a.install(ctx, next.Version, next.Precache); err != nil {
		a.logger.Error(err)
		return
	}
	if _, err := a.activate(ctx, next.Version); err != nil {
		a.logger.Error(err)
		return
	}

	updated := *current
	updated.Version = next.Version
	updated.Precache = next.Precache
	a.mu.Lock()
	a.cfg = &updated
	a.mu.Unlock()
}

// Sync delivers one sync signal for tag and waits for the drain.
// An empty tag selects the transaction sync tag.
func (a *App) Sync(ctx context.Context, tag string) error {
	if tag == "" {
		tag = a.Config().SyncTag
	}
	_, err := a.dispatcher.Dispatch(ctx, dispatch.Event{Kind: dispatch.KindSync, Tag: tag})
	return err
}

// Push delivers a push payload and returns the notification shown.
func (a *App) Push(ctx context.Context, payload []byte) (*domain.Notification, error) {
	res, err := a.dispatcher.Dispatch(ctx, dispatch.Event{Kind: dispatch.KindPush, Payload: payload})
	if err != nil {
		return nil, err
	}
	return res.Notification, nil
}

// Click delivers a notification click.
func (a *App) Click(ctx context.Context, tag, action string) error {
	_, err := a.dispatcher.Dispatch(ctx, dispatch.Event{Kind: dispatch.KindNotificationClick, Tag: tag, Action: action})
	return err
}

// QueueList returns the pending writes, or the dead ones.
func (a *App) QueueList(ctx context.Context, dead bool) ([]domain.PendingWrite, error) {
	if dead {
		return a.queue.ListDead(ctx)
	}
	return a.queue.ListAll(ctx)
}

// QueueRemove drops a queued write without replaying it.
func (a *App) QueueRemove(ctx context.Context, id int64) error {
	if err := a.queue.Remove(ctx, id); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("removed pending write %d", id))
	return nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Cache bool
	Queue bool
}

// Clean removes the cache partitions and/or the pending-write database.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	var errs error
	cfg := a.Config()

	remove := func(name string, paths ...string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		for _, path := range paths {
			if err := os.RemoveAll(path); err != nil {
				errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
				return
			}
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if options.Cache {
		remove("cache partitions", domain.CachePath(cfg.DataDir))
	}

	if options.Queue {
		if err := a.queue.Close(); err != nil {
			errs = errors.Join(errs, err)
		}
		db := domain.QueuePath(cfg.DataDir)
		remove("pending-write queue", db, db+"-wal", db+"-shm")
	}

	return errs
}

// Close waits for background work and releases the queue and telemetry.
func (a *App) Close(ctx context.Context) error {
	a.dispatcher.Wait()

	var errs error
	if err := a.queue.Close(); err != nil {
		errs = errors.Join(errs, err)
	}
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
