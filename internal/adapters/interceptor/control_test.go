package interceptor_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/engine/dispatch"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func TestControl_Sync(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantTag    string
		wantStatus int
		wantRetry  bool
	}{
		{name: "default tag", wantTag: "sync-transactions", wantStatus: http.StatusOK},
		{name: "explicit tag", body: `{"tag":"sync-budgets"}`, wantTag: "sync-budgets", wantStatus: http.StatusOK},
		{
			name:       "incomplete drain is retried",
			err:        zerr.With(zerr.Wrap(domain.ErrSyncIncomplete, "drain"), "failed", 1),
			wantTag:    "sync-transactions",
			wantStatus: http.StatusAccepted,
			wantRetry:  true,
		},
		{name: "queue failure", err: domain.ErrQueueReadFailed, wantTag: "sync-transactions", wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			var gotTag string
			f.table[dispatch.KindSync] = func(_ context.Context, ev dispatch.Event) (*dispatch.Result, error) {
				gotTag = ev.Tag
				return nil, tt.err
			}

			resp := f.do(httptest.NewRequest(http.MethodPost, "/__offsync/sync", strings.NewReader(tt.body)))
			_ = resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantTag, gotTag)
			if tt.wantRetry {
				assert.Equal(t, []string{tt.wantTag}, f.sync.tags)
			} else {
				assert.Empty(t, f.sync.tags)
			}
		})
	}
}

func TestControl_Push(t *testing.T) {
	f := newFixture(t)
	f.table[dispatch.KindPush] = func(_ context.Context, ev dispatch.Event) (*dispatch.Result, error) {
		assert.JSONEq(t, `{"message":"Budget exceeded"}`, string(ev.Payload))
		return &dispatch.Result{Notification: &domain.Notification{Tag: "t1", Title: "Cashflow", Body: "Budget exceeded"}}, nil
	}

	resp := f.do(httptest.NewRequest(http.MethodPost, "/__offsync/push", strings.NewReader(`{"message":"Budget exceeded"}`)))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var n domain.Notification
	decodeBody(t, resp, &n)
	assert.Equal(t, "t1", n.Tag)
	assert.Equal(t, "Budget exceeded", n.Body)
}

func TestControl_NotificationClick(t *testing.T) {
	f := newFixture(t)
	var got dispatch.Event
	f.table[dispatch.KindNotificationClick] = func(_ context.Context, ev dispatch.Event) (*dispatch.Result, error) {
		got = ev
		return nil, nil
	}

	resp := f.do(httptest.NewRequest(http.MethodPost, "/__offsync/notificationclick",
		strings.NewReader(`{"tag":"t1","action":"explore"}`)))
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "t1", got.Tag)
	assert.Equal(t, domain.ActionExplore, got.Action)
}

func TestControl_MalformedBody(t *testing.T) {
	f := newFixture(t)

	resp := f.do(httptest.NewRequest(http.MethodPost, "/__offsync/notificationclick", strings.NewReader(`{`)))
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestControl_InstallPrompt(t *testing.T) {
	f := newFixture(t)

	resp := f.do(httptest.NewRequest(http.MethodPost, "/__offsync/install-prompt/take", nil))
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(httptest.NewRequest(http.MethodPost, "/__offsync/install-prompt", strings.NewReader(`{"platforms":["web"]}`)))
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.True(t, f.handler.Prompt().Pending())

	resp = f.do(httptest.NewRequest(http.MethodPost, "/__offsync/install-prompt/take", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p domain.InstallPrompt
	decodeBody(t, resp, &p)
	assert.Equal(t, []string{"web"}, p.Platforms)
	assert.False(t, p.ReceivedAt.IsZero())

	resp = f.do(httptest.NewRequest(http.MethodPost, "/__offsync/install-prompt/take", nil))
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "a prompt is consumed once")

	resp = f.do(httptest.NewRequest(http.MethodPost, "/__offsync/install-prompt", nil))
	_ = resp.Body.Close()
	resp = f.do(httptest.NewRequest(http.MethodDelete, "/__offsync/install-prompt", nil))
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.False(t, f.handler.Prompt().Pending())
}

func TestControl_Queue(t *testing.T) {
	f := newFixture(t)
	f.queue.EXPECT().ListAll(gomock.Any()).Return([]domain.PendingWrite{
		{ID: 1, URL: "/api/transactions", Method: http.MethodPost, AuthToken: "secret"},
	}, nil)

	resp := f.do(httptest.NewRequest(http.MethodGet, "/__offsync/queue", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var writes []domain.PendingWrite
	decodeBody(t, resp, &writes)
	require.Len(t, writes, 1)
	assert.Equal(t, int64(1), writes[0].ID)
	assert.Empty(t, writes[0].AuthToken)

	f.queue.EXPECT().ListDead(gomock.Any()).Return(nil, nil)
	resp = f.do(httptest.NewRequest(http.MethodGet, "/__offsync/queue?dead=1", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &writes)
	assert.Empty(t, writes)
}
