package interceptor

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Serve listens on addr and serves h until ctx is done.
func (h *Handler) Serve(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	lis, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrServeFailed.Error()), "addr", addr)
	}
	return h.ServeListener(ctx, lis)
}

// ServeListener serves h on lis until ctx is done, then shuts down gracefully.
func (h *Handler) ServeListener(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(lis)
	}()

	h.info("intercepting on http://" + lis.Addr().String() + " for " + h.cfg.Origin)

	select {
	case err := <-errCh:
		return zerr.Wrap(err, domain.ErrServeFailed.Error())
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return zerr.Wrap(err, domain.ErrServeFailed.Error())
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return zerr.Wrap(err, domain.ErrServeFailed.Error())
	}
	return nil
}
