package syncer_test

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/offsync/internal/adapters/sqlite"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports/mocks"
	"go.trai.ch/offsync/internal/engine/syncer"
	"go.uber.org/mock/gomock"
)

const syncTag = "sync-transactions"

func testConfig() *domain.Config {
	return &domain.Config{
		Origin:  "https://cashflow.example.com",
		SyncTag: syncTag,
		Sync:    domain.SyncConfig{MaxAttempts: 3},
		Notification: domain.NotificationConfig{
			Title:       "Cashflow",
			DefaultBody: "New notification from Cashflow",
			Icon:        "/logo192.png",
			ExploreURL:  "/",
		},
	}
}

type fixture struct {
	queue    *mocks.MockPendingQueue
	fetcher  *mocks.MockFetcher
	notifier *mocks.MockNotifier
	opener   *mocks.MockWindowOpener
	coord    *syncer.Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		queue:    mocks.NewMockPendingQueue(ctrl),
		fetcher:  mocks.NewMockFetcher(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
		opener:   mocks.NewMockWindowOpener(ctrl),
	}
	f.coord = syncer.NewCoordinator(f.queue, f.fetcher, f.notifier, f.opener, nil, testConfig())
	f.coord.SetClock(
		func() time.Time { return time.UnixMilli(1700000000000) },
		func() string { return "tag-1" },
	)
	return f
}

func pending(id int64, url string) domain.PendingWrite {
	return domain.PendingWrite{ID: id, URL: url, Method: http.MethodPost, Payload: []byte(`{}`), AuthToken: "tok"}
}

func ok() *domain.StoredResponse {
	return &domain.StoredResponse{Status: http.StatusCreated}
}

func TestOnSyncSignal_IgnoresOtherTags(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.coord.OnSyncSignal(context.Background(), "sync-budgets"))
}

func TestOnSyncSignal_ReplaysInOrderAndRemoves(t *testing.T) {
	f := newFixture(t)
	f.queue.EXPECT().ListAll(gomock.Any()).Return([]domain.PendingWrite{
		pending(1, "/api/transactions"),
		pending(2, "/api/transactions?n=2"),
		pending(5, "/api/transactions?n=5"),
	}, nil)

	gomock.InOrder(
		f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req *domain.Request) (*domain.StoredResponse, error) {
				assert.Equal(t, "/api/transactions", req.URL)
				assert.Equal(t, http.MethodPost, req.Method)
				assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
				assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
				assert.Equal(t, []byte(`{}`), req.Body)
				return ok(), nil
			}),
		f.queue.EXPECT().Remove(gomock.Any(), int64(1)).Return(nil),
		f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req *domain.Request) (*domain.StoredResponse, error) {
				assert.Equal(t, "/api/transactions?n=2", req.URL)
				return ok(), nil
			}),
		f.queue.EXPECT().Remove(gomock.Any(), int64(2)).Return(nil),
		f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req *domain.Request) (*domain.StoredResponse, error) {
				assert.Equal(t, "/api/transactions?n=5", req.URL)
				return ok(), nil
			}),
		f.queue.EXPECT().Remove(gomock.Any(), int64(5)).Return(nil),
	)

	assert.NoError(t, f.coord.OnSyncSignal(context.Background(), syncTag))
}

func TestOnSyncSignal_FailureKeepsEntryAndContinues(t *testing.T) {
	f := newFixture(t)
	f.queue.EXPECT().ListAll(gomock.Any()).Return([]domain.PendingWrite{
		pending(1, "/api/transactions?a"),
		pending(2, "/api/transactions?b"),
	}, nil)

	gomock.InOrder(
		f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(&domain.StoredResponse{Status: 500}, nil),
		f.queue.EXPECT().RecordFailure(gomock.Any(), int64(1), gomock.Any()).Return(1, nil),
		f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(ok(), nil),
		f.queue.EXPECT().Remove(gomock.Any(), int64(2)).Return(nil),
	)

	err := f.coord.OnSyncSignal(context.Background(), syncTag)
	assert.ErrorContains(t, err, domain.ErrSyncIncomplete.Error())
}

func TestDrain_TransportFailureDoesNotCountAttempt(t *testing.T) {
	f := newFixture(t)
	f.queue.EXPECT().ListAll(gomock.Any()).Return([]domain.PendingWrite{pending(4, "/api/transactions")}, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, domain.ErrNetworkUnavailable)

	report, err := f.coord.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, report.Failed)
	assert.Empty(t, report.Buried)
}

func TestDrain_BuriesAtAttemptCap(t *testing.T) {
	f := newFixture(t)
	f.queue.EXPECT().ListAll(gomock.Any()).Return([]domain.PendingWrite{pending(7, "/api/transactions")}, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(&domain.StoredResponse{Status: 422}, nil)
	f.queue.EXPECT().RecordFailure(gomock.Any(), int64(7), gomock.Any()).Return(3, nil)
	f.queue.EXPECT().Bury(gomock.Any(), int64(7)).Return(nil)
	f.notifier.EXPECT().Show(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, n domain.Notification) error {
			assert.Equal(t, "tag-1", n.Tag)
			assert.Equal(t, "Cashflow", n.Title)
			assert.Equal(t, int64(7), n.Data["pendingWriteId"])
			return nil
		})

	report, err := f.coord.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, report.Buried)

	f.queue.EXPECT().ListAll(gomock.Any()).Return(nil, nil)
	assert.NoError(t, f.coord.OnSyncSignal(context.Background(), syncTag), "buried entries do not fail the sync")
}

func TestDrain_ListError(t *testing.T) {
	f := newFixture(t)
	f.queue.EXPECT().ListAll(gomock.Any()).Return(nil, domain.ErrQueueReadFailed)

	err := f.coord.OnSyncSignal(context.Background(), syncTag)
	assert.ErrorIs(t, err, domain.ErrQueueReadFailed)
}

func TestDrain_WithSQLiteQueue(t *testing.T) {
	ctx := context.Background()
	queue, err := sqlite.Open(filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	defer queue.Close() //nolint:errcheck // test cleanup

	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	coord := syncer.NewCoordinator(queue, fetcher, nil, nil, nil, testConfig())

	okID, err := queue.Enqueue(ctx, domain.PendingWrite{URL: "/api/transactions", Method: "POST", Payload: []byte(`{"ok":true}`)})
	require.NoError(t, err)
	badID, err := queue.Enqueue(ctx, domain.PendingWrite{URL: "/api/transactions", Method: "POST", Payload: []byte(`{"ok":false}`)})
	require.NoError(t, err)

	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *domain.Request) (*domain.StoredResponse, error) {
			if string(req.Body) == `{"ok":true}` {
				return ok(), nil
			}
			return nil, errors.New("connection reset")
		}).Times(2)

	err = coord.OnSyncSignal(ctx, syncTag)
	assert.ErrorContains(t, err, domain.ErrSyncIncomplete.Error())

	left, err := queue.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, badID, left[0].ID)
	assert.NotEqual(t, okID, left[0].ID)
	assert.Equal(t, []byte(`{"ok":false}`), left[0].Payload)
	assert.Equal(t, "/api/transactions", left[0].URL)
	assert.Zero(t, left[0].Attempts)
}

func TestOnSyncSignal_ReplaysAuthorization(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "bearer token", token: "tok", want: "Bearer tok"},
		{name: "other scheme", token: "Basic dXNlcjpwYXNz", want: "Basic dXNlcjpwYXNz"},
		{name: "no credentials", token: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			w := pending(1, "/api/transactions")
			w.AuthToken = tt.token
			f.queue.EXPECT().ListAll(gomock.Any()).Return([]domain.PendingWrite{w}, nil)
			f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, req *domain.Request) (*domain.StoredResponse, error) {
					assert.Equal(t, tt.want, req.Header.Get("Authorization"))
					return ok(), nil
				})
			f.queue.EXPECT().Remove(gomock.Any(), int64(1)).Return(nil)

			assert.NoError(t, f.coord.OnSyncSignal(context.Background(), syncTag))
		})
	}
}
