package domain_test

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/offsync/internal/core/domain"
)

func TestCacheVersion_Partitions(t *testing.T) {
	v := domain.CacheVersion("v3")

	assert.Equal(t, "api-v3", v.Partition(domain.PartitionAPI))
	assert.Equal(t, map[string]struct{}{
		"precache-v3": {},
		"runtime-v3":  {},
		"api-v3":      {},
	}, v.Partitions())
}

func TestValidPartitionName(t *testing.T) {
	assert.True(t, domain.ValidPartitionName("runtime-v1"))
	for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
		assert.False(t, domain.ValidPartitionName(name), name)
	}
}

func TestRequest(t *testing.T) {
	req := &domain.Request{Method: "get", URL: "/api/transactions?month=3#top"}

	assert.Equal(t, domain.RequestKey{Method: "GET", URL: "/api/transactions?month=3#top"}, req.Key())
	assert.Equal(t, "GET /api/transactions?month=3#top", req.Key().String())
	assert.True(t, req.IsSafe())
	assert.Equal(t, "/api/transactions", req.Path())
	assert.True(t, req.HasPrefix("/api/"))
	assert.False(t, req.HasPrefix(""))
	assert.False(t, (&domain.Request{Method: http.MethodPost, URL: "/"}).IsSafe())
}

func TestStoredResponse_Clone(t *testing.T) {
	orig := &domain.StoredResponse{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": {"application/json"}},
		Body:   []byte(`{"a":1}`),
	}

	c := orig.Clone()
	c.Body[0] = 'X'
	c.Header.Set("Content-Type", "text/plain")

	assert.Equal(t, `{"a":1}`, string(orig.Body))
	assert.Equal(t, "application/json", orig.Header.Get("Content-Type"))
	assert.Nil(t, (*domain.StoredResponse)(nil).Clone())
}

func TestStoredResponse_OK(t *testing.T) {
	assert.True(t, (&domain.StoredResponse{Status: 204}).OK())
	assert.False(t, (&domain.StoredResponse{Status: 304}).OK())
	assert.False(t, (&domain.StoredResponse{Status: 500}).OK())
	assert.False(t, (*domain.StoredResponse)(nil).OK())
}

func TestParsePushPayload(t *testing.T) {
	p := domain.ParsePushPayload([]byte(`{"message":"Budget exceeded","amount":120}`))
	require.NotNil(t, p)
	assert.Equal(t, "Budget exceeded", p.Message)
	assert.InDelta(t, 120, p.Raw["amount"], 0)

	p = domain.ParsePushPayload([]byte(`{"message":42}`))
	require.NotNil(t, p)
	assert.Empty(t, p.Message)

	assert.Nil(t, domain.ParsePushPayload(nil))
	assert.Nil(t, domain.ParsePushPayload([]byte("plain text")))
	assert.Nil(t, domain.ParsePushPayload([]byte("null")))
	assert.Nil(t, domain.ParsePushPayload([]byte(`["a"]`)))
}

func TestPromptSlot(t *testing.T) {
	var slot domain.PromptSlot

	_, ok := slot.Take()
	assert.False(t, ok)

	slot.Store(domain.InstallPrompt{Platforms: []string{"web"}})
	slot.Store(domain.InstallPrompt{Platforms: []string{"play"}})
	assert.True(t, slot.Pending())

	p, ok := slot.Take()
	require.True(t, ok)
	assert.Equal(t, []string{"play"}, p.Platforms)

	_, ok = slot.Take()
	assert.False(t, ok, "a prompt can be taken once")

	slot.Store(domain.InstallPrompt{})
	slot.Clear()
	assert.False(t, slot.Pending())
}

func TestConfig_RootURL(t *testing.T) {
	tests := []struct {
		origin  string
		explore string
		want    string
	}{
		{origin: "http://localhost:5000", explore: "/", want: "http://localhost:5000/"},
		{origin: "http://localhost:5000/", explore: "", want: "http://localhost:5000/"},
		{origin: "https://cashflow.example.com", explore: "dashboard", want: "https://cashflow.example.com/dashboard"},
		{origin: "https://cashflow.example.com", explore: "https://other.example.com/", want: "https://other.example.com/"},
	}

	for _, tt := range tests {
		cfg := &domain.Config{Origin: tt.origin, Notification: domain.NotificationConfig{ExploreURL: tt.explore}}
		assert.Equal(t, tt.want, cfg.RootURL())
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *domain.Config {
		return &domain.Config{
			Version:   "v1",
			Origin:    "http://localhost:5000",
			APIPrefix: "/api/",
			SyncTag:   "sync-transactions",
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*domain.Config)
		want   error
	}{
		{name: "no version", mutate: func(c *domain.Config) { c.Version = "" }, want: domain.ErrMissingVersion},
		{name: "version with slash", mutate: func(c *domain.Config) { c.Version = "v1/x" }, want: domain.ErrInvalidConfig},
		{name: "no origin", mutate: func(c *domain.Config) { c.Origin = "" }, want: domain.ErrMissingOrigin},
		{name: "relative origin", mutate: func(c *domain.Config) { c.Origin = "localhost" }, want: domain.ErrInvalidConfig},
		{name: "api prefix", mutate: func(c *domain.Config) { c.APIPrefix = "api" }, want: domain.ErrInvalidConfig},
		{name: "sync tag", mutate: func(c *domain.Config) { c.SyncTag = "" }, want: domain.ErrInvalidConfig},
		{name: "attempts", mutate: func(c *domain.Config) { c.Sync.MaxAttempts = -1 }, want: domain.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestLayout(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "caches"), domain.CachePath("data"))
	assert.Equal(t, filepath.Join("data", "queue.db"), domain.QueuePath("data"))
}

func TestPendingWrite_Authorization(t *testing.T) {
	tests := []struct {
		header string
		stored string
	}{
		{header: "Bearer tok-1", stored: "tok-1"},
		{header: "bearer tok-1", stored: "tok-1"},
		{header: "Basic dXNlcjpwYXNz", stored: "Basic dXNlcjpwYXNz"},
		{header: "", stored: ""},
	}

	for _, tt := range tests {
		stored := domain.AuthTokenFromHeader(tt.header)
		assert.Equal(t, tt.stored, stored, tt.header)

		w := domain.PendingWrite{AuthToken: stored}
		if tt.header == "" {
			assert.Empty(t, w.Authorization())
			continue
		}
		assert.Equal(t, tt.stored, domain.AuthTokenFromHeader(w.Authorization()), "round trip of %q", tt.header)
	}

	assert.Equal(t, "Bearer tok-1", domain.PendingWrite{AuthToken: "tok-1"}.Authorization())
	assert.Equal(t, "Basic abc", domain.PendingWrite{AuthToken: "Basic abc"}.Authorization())
}
