// Package interceptor exposes the agent as a local HTTP proxy in front of the
// application origin, plus the control endpoints that deliver sync, push and
// notification events.
package interceptor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
	"go.trai.ch/offsync/internal/engine/dispatch"
	"go.trai.ch/zerr"
)

// MaxBodyBytes bounds the request bodies the interceptor buffers.
const MaxBodyBytes = 10 << 20

// QueuedMessage is returned to the caller when a write was saved for later.
const QueuedMessage = "Saved offline; will sync when back online"

// Dispatcher delivers events to the agent.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev dispatch.Event) (*dispatch.Result, error)
}

// SyncRegistrar schedules a sync for a tag.
type SyncRegistrar interface {
	Register(tag string)
}

// Handler is the interceptor's http.Handler.
type Handler struct {
	dispatcher Dispatcher
	queue      ports.PendingQueue
	sync       SyncRegistrar
	logger     ports.Logger
	cfg        *domain.Config
	prompt     *domain.PromptSlot
	mux        *http.ServeMux
	now        func() time.Time
}

// New creates a Handler. Requests outside the control prefix are routed
// through dispatcher as fetch events.
func New(
	dispatcher Dispatcher,
	queue ports.PendingQueue,
	sync SyncRegistrar,
	logger ports.Logger,
	cfg *domain.Config,
) *Handler {
	h := &Handler{
		dispatcher: dispatcher,
		queue:      queue,
		sync:       sync,
		logger:     logger,
		cfg:        cfg,
		prompt:     &domain.PromptSlot{},
		mux:        http.NewServeMux(),
		now:        time.Now,
	}
	h.routes()
	return h
}

// Prompt returns the deferred install prompt slot.
func (h *Handler) Prompt() *domain.PromptSlot {
	return h.prompt
}

// ServeHTTP implements http.Handler. Only control paths go through the mux;
// every other request reaches the router with its path untouched.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, domain.ControlPrefix) {
		h.mux.ServeHTTP(w, r)
		return
	}
	h.proxy(w, r)
}

func (h *Handler) proxy(w http.ResponseWriter, r *http.Request) {
	req, err := toRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", err)
		return
	}

	res, err := h.dispatcher.Dispatch(r.Context(), dispatch.Event{Kind: dispatch.KindFetch, Request: req})
	if err != nil {
		if h.queueable(req) && errors.Is(err, domain.ErrNetworkUnavailable) {
			h.enqueue(r.Context(), w, req)
			return
		}
		h.warn("request " + req.Key().String() + " failed: " + err.Error())
		writeError(w, http.StatusBadGateway, "Bad Gateway", err)
		return
	}

	writeResponse(w, res.Outcome.Response)
}

// queueable reports whether a failed req is saved for replay.
func (h *Handler) queueable(req *domain.Request) bool {
	if req.IsSafe() || h.cfg.TransactionEndpoint == "" {
		return false
	}
	return path.Clean(req.Path()) == path.Clean(h.cfg.TransactionEndpoint)
}

func (h *Handler) enqueue(ctx context.Context, w http.ResponseWriter, req *domain.Request) {
	id, err := h.queue.Enqueue(ctx, domain.PendingWrite{
		URL:       req.URL,
		Method:    req.Method,
		Payload:   req.Body,
		AuthToken: domain.AuthTokenFromHeader(req.Header.Get("Authorization")),
		CreatedAt: h.now(),
	})
	if err != nil {
		h.error(err)
		writeError(w, http.StatusServiceUnavailable, "Offline", err)
		return
	}

	h.sync.Register(h.cfg.SyncTag)
	h.info("saved " + req.Key().String() + " for background sync")

	writeJSON(w, http.StatusAccepted, map[string]any{
		"queued":  true,
		"id":      id,
		"message": QueuedMessage,
	})
}

func toRequest(w http.ResponseWriter, r *http.Request) (*domain.Request, error) {
	req := &domain.Request{
		Method: strings.ToUpper(r.Method),
		URL:    r.URL.RequestURI(),
		Header: r.Header.Clone(),
	}
	req.Navigate = isNavigation(r)

	if r.Body != nil && r.Body != http.NoBody {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidRequest.Error()), "url", req.URL)
		}
		req.Body = body
	}

	return req, nil
}

func isNavigation(r *http.Request) bool {
	if mode := r.Header.Get("Sec-Fetch-Mode"); mode != "" {
		return mode == "navigate"
	}
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}

func writeResponse(w http.ResponseWriter, resp *domain.StoredResponse) {
	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, title string, err error) {
	writeJSON(w, status, map[string]string{"error": title, "message": err.Error()})
}

func (h *Handler) info(msg string) {
	if h.logger != nil {
		h.logger.Info(msg)
	}
}

func (h *Handler) warn(msg string) {
	if h.logger != nil {
		h.logger.Warn(msg)
	}
}

func (h *Handler) error(err error) {
	if h.logger != nil {
		h.logger.Error(err)
	}
}
