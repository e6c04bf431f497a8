// Package syncer drains the pending-write queue on sync signals and turns
// push messages into notifications.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
	"go.trai.ch/zerr"
)

// DrainReport lists what one drain did with each entry, in replay order.
type DrainReport struct {
	Replayed []int64
	Failed   []int64
	Buried   []int64
}

// Coordinator implements the sync and notification handlers.
type Coordinator struct {
	queue    ports.PendingQueue
	fetcher  ports.Fetcher
	notifier ports.Notifier
	opener   ports.WindowOpener
	logger   ports.Logger
	cfg      *domain.Config

	// mu keeps drains from interleaving.
	mu    sync.Mutex
	newID func() string
	now   func() time.Time
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(
	queue ports.PendingQueue,
	fetcher ports.Fetcher,
	notifier ports.Notifier,
	opener ports.WindowOpener,
	logger ports.Logger,
	cfg *domain.Config,
) *Coordinator {
	return &Coordinator{
		queue:    queue,
		fetcher:  fetcher,
		notifier: notifier,
		opener:   opener,
		logger:   logger,
		cfg:      cfg,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// OnSyncSignal drains the queue when tag is the transaction sync tag. Other
// tags are ignored. The result is ErrSyncIncomplete if any entry stayed queued.
func (c *Coordinator) OnSyncSignal(ctx context.Context, tag string) error {
	if tag != c.cfg.SyncTag {
		return nil
	}
	report, err := c.Drain(ctx)
	if err != nil {
		return err
	}
	if len(report.Failed) > 0 {
		return zerr.With(zerr.Wrap(domain.ErrSyncIncomplete, "drain "+tag), "failed", len(report.Failed))
	}
	return nil
}

// Drain replays every pending entry in ascending id order. A replayed entry
// is removed. A failed entry stays queued and the drain moves on; an entry
// rejected by the origin counts an attempt and is buried at the attempt cap.
func (c *Coordinator) Drain(ctx context.Context) (*DrainReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	writes, err := c.queue.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &DrainReport{}
	for _, w := range writes {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		replayErr := c.replay(ctx, w)
		if replayErr == nil {
			if err := c.queue.Remove(ctx, w.ID); err != nil {
				return report, err
			}
			report.Replayed = append(report.Replayed, w.ID)
			continue
		}

		buried, err := c.fail(ctx, w, replayErr)
		if err != nil {
			return report, err
		}
		if buried {
			report.Buried = append(report.Buried, w.ID)
		} else {
			report.Failed = append(report.Failed, w.ID)
		}
	}

	if n := len(report.Replayed); n > 0 && c.logger != nil {
		c.logger.Info("synced " + strconv.Itoa(n) + " pending write(s)")
	}

	return report, nil
}

func (c *Coordinator) replay(ctx context.Context, w domain.PendingWrite) error {
	header := http.Header{"Content-Type": {"application/json"}}
	if auth := w.Authorization(); auth != "" {
		header.Set("Authorization", auth)
	}

	resp, err := c.fetcher.Fetch(ctx, &domain.Request{
		Method: w.Method,
		URL:    w.URL,
		Header: header,
		Body:   w.Payload,
	})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return zerr.With(fmt.Errorf("%w: status %d", domain.ErrReplayFailed, resp.Status), "url", w.URL)
	}
	return nil
}

// fail records a failed replay. Transport failures leave the entry untouched;
// the origin is not at fault for those. It reports whether the entry was buried.
func (c *Coordinator) fail(ctx context.Context, w domain.PendingWrite, cause error) (bool, error) {
	if c.logger != nil {
		c.logger.Warn("replay of pending write " + strconv.FormatInt(w.ID, 10) + " failed: " + cause.Error())
	}

	if !errors.Is(cause, domain.ErrReplayFailed) {
		return false, nil
	}

	attempts, err := c.queue.RecordFailure(ctx, w.ID, cause.Error())
	if err != nil {
		return false, err
	}

	limit := c.cfg.Sync.MaxAttempts
	if limit <= 0 || attempts < limit {
		return false, nil
	}

	if err := c.queue.Bury(ctx, w.ID); err != nil {
		return false, err
	}

	c.notifyBuried(ctx, w, attempts)
	return true, nil
}

func (c *Coordinator) notifyBuried(ctx context.Context, w domain.PendingWrite, attempts int) {
	n := domain.Notification{
		Tag:   c.newID(),
		Title: c.cfg.Notification.Title,
		Body:  "A transaction saved offline could not be synced after " + strconv.Itoa(attempts) + " attempts.",
		Icon:  c.cfg.Notification.Icon,
		Badge: c.cfg.Notification.Badge,
		Data: map[string]any{
			"pendingWriteId": w.ID,
			"url":            w.URL,
		},
	}
	if err := c.notifier.Show(ctx, n); err != nil && c.logger != nil {
		c.logger.Error(zerr.Wrap(err, domain.ErrNotificationFailed.Error()))
	}
}
