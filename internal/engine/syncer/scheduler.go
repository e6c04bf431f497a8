package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
)

// SyncHandler handles one sync signal.
type SyncHandler interface {
	OnSyncSignal(ctx context.Context, tag string) error
}

// Scheduler turns registered sync tags into handler runs, retrying a failed
// run with exponential backoff until it succeeds or the backoff gives up.
// Registering a tag that is already waiting, or whose run is between retries,
// is absorbed by that run. Registering it during an attempt schedules one
// follow-up run, since the attempt may have listed the queue too early.
type Scheduler struct {
	handler SyncHandler
	cfg     domain.SyncConfig
	logger  ports.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	// running maps an in-flight tag to whether it was registered again
	// since its current attempt started.
	running map[string]bool
	wake    chan struct{}
}

// NewScheduler creates a Scheduler for handler.
func NewScheduler(handler SyncHandler, cfg domain.SyncConfig, logger ports.Logger) *Scheduler {
	return &Scheduler{
		handler: handler,
		cfg:     cfg,
		logger:  logger,
		pending: make(map[string]struct{}),
		running: make(map[string]bool),
		wake:    make(chan struct{}, 1),
	}
}

// Register asks for tag to be handled once connectivity allows.
func (s *Scheduler) Register(tag string) {
	s.mu.Lock()
	if _, ok := s.running[tag]; ok {
		s.running[tag] = true
		s.mu.Unlock()
		return
	}
	s.pending[tag] = struct{}{}
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run handles registered tags until ctx is done. Tags run one at a time.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.wake:
		}

		for {
			tag, ok := s.next()
			if !ok {
				break
			}
			s.runTag(ctx, tag)
			if ctx.Err() != nil {
				return nil
			}
		}
	}
}

func (s *Scheduler) next() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for tag := range s.pending {
		delete(s.pending, tag)
		s.running[tag] = false
		return tag, true
	}
	return "", false
}

func (s *Scheduler) runTag(ctx context.Context, tag string) {
	defer s.finish(tag)

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		s.mu.Lock()
		s.running[tag] = false
		s.mu.Unlock()
		return struct{}{}, s.handler.OnSyncSignal(ctx, tag)
	},
		backoff.WithBackOff(s.newBackOff()),
		backoff.WithMaxElapsedTime(s.cfg.MaxElapsed),
		backoff.WithNotify(func(err error, next time.Duration) {
			if s.logger != nil {
				s.logger.Warn("sync " + tag + " failed, retrying in " + next.Round(time.Millisecond).String() + ": " + err.Error())
			}
		}),
	)
	if err != nil && !errors.Is(err, context.Canceled) && s.logger != nil {
		s.logger.Error(err)
	}
}

// finish ends the run of tag and queues a follow-up when it was registered
// during the last attempt.
func (s *Scheduler) finish(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[tag] {
		s.pending[tag] = struct{}{}
	}
	delete(s.running, tag)
}

func (s *Scheduler) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if s.cfg.InitialInterval > 0 {
		b.InitialInterval = s.cfg.InitialInterval
	}
	if s.cfg.MaxInterval > 0 {
		b.MaxInterval = s.cfg.MaxInterval
	}
	return b
}
