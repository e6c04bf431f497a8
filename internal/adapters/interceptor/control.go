package interceptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/engine/dispatch"
)

func (h *Handler) routes() {
	p := domain.ControlPrefix
	h.mux.HandleFunc("POST "+p+"sync", h.handleSync)
	h.mux.HandleFunc("POST "+p+"push", h.handlePush)
	h.mux.HandleFunc("POST "+p+"notificationclick", h.handleClick)
	h.mux.HandleFunc("POST "+p+"install-prompt", h.handleStorePrompt)
	h.mux.HandleFunc("DELETE "+p+"install-prompt", h.handleClearPrompt)
	h.mux.HandleFunc("POST "+p+"install-prompt/take", h.handleTakePrompt)
	h.mux.HandleFunc("GET "+p+"queue", h.handleQueue)
}

type syncRequest struct {
	Tag string `json:"tag"`
}

type clickRequest struct {
	Tag    string `json:"tag"`
	Action string `json:"action"`
}

// decode reads an optional JSON body into v. An empty body leaves v unchanged.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// handleSync delivers a sync signal. An incomplete drain is handed to the
// scheduler, which retries it with backoff.
func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	body := syncRequest{Tag: h.cfg.SyncTag}
	if err := decode(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", err)
		return
	}

	_, err := h.dispatcher.Dispatch(r.Context(), dispatch.Event{Kind: dispatch.KindSync, Tag: body.Tag})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"tag": body.Tag, "synced": true})
	case errors.Is(err, domain.ErrSyncIncomplete):
		h.sync.Register(body.Tag)
		writeJSON(w, http.StatusAccepted, map[string]any{"tag": body.Tag, "synced": false, "message": err.Error()})
	default:
		h.error(err)
		writeError(w, http.StatusInternalServerError, "Sync Failed", err)
	}
}

func (h *Handler) handlePush(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", err)
		return
	}

	res, err := h.dispatcher.Dispatch(r.Context(), dispatch.Event{Kind: dispatch.KindPush, Payload: payload})
	if err != nil {
		h.error(err)
		writeError(w, http.StatusInternalServerError, "Push Failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res.Notification)
}

func (h *Handler) handleClick(w http.ResponseWriter, r *http.Request) {
	var body clickRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", err)
		return
	}

	_, err := h.dispatcher.Dispatch(r.Context(), dispatch.Event{
		Kind:   dispatch.KindNotificationClick,
		Tag:    body.Tag,
		Action: body.Action,
	})
	if err != nil {
		h.error(err)
		writeError(w, http.StatusInternalServerError, "Click Failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStorePrompt(w http.ResponseWriter, r *http.Request) {
	var p domain.InstallPrompt
	if err := decode(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", err)
		return
	}
	p.ReceivedAt = h.now().UTC()
	h.prompt.Store(p)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClearPrompt(w http.ResponseWriter, _ *http.Request) {
	h.prompt.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleTakePrompt(w http.ResponseWriter, _ *http.Request) {
	p, ok := h.prompt.Take()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not Found", "message": "no install prompt"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleQueue lists the pending writes, or the dead ones with ?dead=1.
// Auth tokens are never listed.
func (h *Handler) handleQueue(w http.ResponseWriter, r *http.Request) {
	list := h.queue.ListAll
	if d := r.URL.Query().Get("dead"); d == "1" || d == "true" {
		list = h.queue.ListDead
	}

	writes, err := list(r.Context())
	if err != nil {
		h.error(err)
		writeError(w, http.StatusInternalServerError, "Queue Unavailable", err)
		return
	}
	for i := range writes {
		writes[i].AuthToken = ""
	}
	if writes == nil {
		writes = []domain.PendingWrite{}
	}
	writeJSON(w, http.StatusOK, writes)
}
