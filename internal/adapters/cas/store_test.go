package cas_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/offsync/internal/adapters/cas"
	"go.trai.ch/offsync/internal/core/domain"
)

func response(status int, body string) *domain.StoredResponse {
	return &domain.StoredResponse{
		Status: status,
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   []byte(body),
	}
}

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := cas.NewStore(t.TempDir())
	key := domain.RequestKey{Method: http.MethodGet, URL: "/api/transactions?page=1"}

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		want := response(http.StatusOK, `{"items":[]}`)
		require.NoError(t, store.Put(ctx, "api-v1", key, want))

		got, err := store.Get(ctx, "api-v1", key)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want, got)
	})

	t.Run("miss", func(t *testing.T) {
		t.Parallel()
		got, err := store.Get(ctx, "api-v1", domain.RequestKey{Method: http.MethodGet, URL: "/missing"})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("missing partition", func(t *testing.T) {
		t.Parallel()
		got, err := store.Get(ctx, "nope-v1", key)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestStore_LastWriteWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := cas.NewStore(t.TempDir())
	key := domain.RequestKey{Method: http.MethodGet, URL: "/api/summary"}

	require.NoError(t, store.Put(ctx, "api-v1", key, response(http.StatusOK, `{"total":1}`)))
	require.NoError(t, store.Put(ctx, "api-v1", key, response(http.StatusOK, `{"total":2}`)))

	got, err := store.Get(ctx, "api-v1", key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `{"total":2}`, string(got.Body))
}

func TestStore_ConcurrentPutSameKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := cas.NewStore(t.TempDir())
	key := domain.RequestKey{Method: http.MethodGet, URL: "/static/js/main.js"}

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Go(func() {
			_ = store.Put(ctx, "runtime-v1", key, response(http.StatusOK, string(rune('a'+i))))
		})
	}
	wg.Wait()

	got, err := store.Get(ctx, "runtime-v1", key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Body, 1)

	entries, err := os.ReadDir(filepath.Join(store.Root(), "runtime-v1"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStore_GetCorrupt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	store := cas.NewStore(dir)
	key := domain.RequestKey{Method: http.MethodGet, URL: "/"}

	require.NoError(t, store.Put(ctx, "precache-v1", key, response(http.StatusOK, "<html></html>")))

	entries, err := os.ReadDir(filepath.Join(dir, "precache-v1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	//nolint:gosec // Test file with controlled path
	err = os.WriteFile(filepath.Join(dir, "precache-v1", entries[0].Name()), []byte("{ invalid json"), 0o600)
	require.NoError(t, err)

	_, err = store.Get(ctx, "precache-v1", key)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCacheUnmarshalFailed.Error())
}

func TestStore_Match(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := cas.NewStore(t.TempDir())
	key := domain.RequestKey{Method: http.MethodGet, URL: "/index.html"}

	require.NoError(t, store.Put(ctx, "precache-v1", key, response(http.StatusOK, "precached")))

	got, partition, err := store.Match(ctx, key, "runtime-v1", "precache-v1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "precache-v1", partition)
	assert.Equal(t, "precached", string(got.Body))

	require.NoError(t, store.Put(ctx, "runtime-v1", key, response(http.StatusOK, "fresh")))

	got, partition, err = store.Match(ctx, key, "runtime-v1", "precache-v1")
	require.NoError(t, err)
	assert.Equal(t, "runtime-v1", partition)
	assert.Equal(t, "fresh", string(got.Body))

	got, partition, err = store.Match(ctx, domain.RequestKey{Method: http.MethodGet, URL: "/nope"}, "runtime-v1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, partition)
}

func TestStore_PartitionsAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := cas.NewStore(t.TempDir())
	key := domain.RequestKey{Method: http.MethodGet, URL: "/"}

	names, err := store.Partitions(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, p := range []string{"runtime-v1", "api-v1", "precache-v2"} {
		require.NoError(t, store.Put(ctx, p, key, response(http.StatusOK, p)))
	}

	names, err = store.Partitions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"api-v1", "precache-v2", "runtime-v1"}, names)

	require.NoError(t, store.Delete(ctx, "api-v1"))
	require.NoError(t, store.Delete(ctx, "api-v1"), "deleting twice is a no-op")

	names, err = store.Partitions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"precache-v2", "runtime-v1"}, names)
}

func TestStore_InvalidPartition(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := cas.NewStore(t.TempDir())
	key := domain.RequestKey{Method: http.MethodGet, URL: "/"}

	for _, name := range []string{"", "..", "a/b", `a\b`} {
		err := store.Put(ctx, name, key, response(http.StatusOK, ""))
		require.Error(t, err, name)
		assert.ErrorContains(t, err, domain.ErrInvalidPartition.Error())

		err = store.Delete(ctx, name)
		require.Error(t, err, name)
	}
}
