package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/offsync/internal/adapters/config"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), domain.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Success(t *testing.T) {
	path := writeConfig(t, `
version: "v3"
origin: "https://cashflow.example.com/"
listen: "127.0.0.1:9000"
apiPrefix: "/v1/"
precache: ["/", "/app.js"]
fetchTimeout: 5s
sync:
  maxAttempts: 0
  initialInterval: 2s
notification:
  title: "Money"
telemetry:
  otlpEndpoint: "http://collector:4318"
`)

	loader := &config.Loader{Environ: map[string]string{}}
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, domain.CacheVersion("v3"), cfg.Version)
	assert.Equal(t, "https://cashflow.example.com", cfg.Origin)
	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
	assert.Equal(t, "/v1/", cfg.APIPrefix)
	assert.Equal(t, []string{"/", "/app.js"}, cfg.Precache)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 0, cfg.Sync.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Sync.InitialInterval)
	assert.Equal(t, time.Minute, cfg.Sync.MaxInterval)
	assert.Equal(t, "Money", cfg.Notification.Title)
	assert.Equal(t, "New notification from Cashflow", cfg.Notification.DefaultBody)
	assert.Equal(t, "http://collector:4318", cfg.OTLPEndpoint)
	assert.Equal(t, filepath.Join(filepath.Dir(path), domain.DataDirName), cfg.DataDir)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any())

	path := filepath.Join(t.TempDir(), domain.ConfigFileName)
	loader := &config.Loader{Logger: log, Environ: map[string]string{}}

	cfg, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, domain.CacheVersion("v1"), cfg.Version)
	assert.Equal(t, "http://localhost:5000", cfg.Origin)
	assert.Equal(t, "/api/", cfg.APIPrefix)
	assert.Equal(t, "/api/transactions", cfg.TransactionEndpoint)
	assert.Equal(t, "sync-transactions", cfg.SyncTag)
	assert.Equal(t, config.DefaultPrecache, cfg.Precache)
	assert.Equal(t, "/offline.html", cfg.OfflinePage)
	assert.Equal(t, 10, cfg.Sync.MaxAttempts)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
version: "v1"
origin: "http://file.example"
`)
	dataDir := t.TempDir()

	loader := &config.Loader{Environ: map[string]string{
		"OFFSYNC_VERSION":           "v9",
		"OFFSYNC_ORIGIN":            "http://env.example/",
		"OFFSYNC_DATA_DIR":          dataDir,
		"OFFSYNC_PRECACHE":          "/a,/b",
		"OFFSYNC_SYNC_MAX_ATTEMPTS": "3",
		"OFFSYNC_FETCH_TIMEOUT":     "750ms",
	}}

	cfg, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, domain.CacheVersion("v9"), cfg.Version)
	assert.Equal(t, "http://env.example", cfg.Origin)
	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, []string{"/a", "/b"}, cfg.Precache)
	assert.Equal(t, 3, cfg.Sync.MaxAttempts)
	assert.Equal(t, 750*time.Millisecond, cfg.FetchTimeout)
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	path := writeConfig(t, `version: "v1"`)
	loader := &config.Loader{Environ: map[string]string{
		"OFFSYNC_SYNC_MAX_ATTEMPTS": "many",
	}}

	_, err := loader.Load(path)
	assert.ErrorContains(t, err, domain.ErrConfigEnvFailed.Error())
}

func TestLoad_ParseError(t *testing.T) {
	path := writeConfig(t, "version: [unterminated")
	loader := &config.Loader{Environ: map[string]string{}}

	_, err := loader.Load(path)
	assert.ErrorContains(t, err, domain.ErrConfigParseFailed.Error())
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "version with separator",
			content: `version: "v1/evil"`,
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "origin without scheme",
			content: `origin: "localhost"`,
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "relative api prefix",
			content: `apiPrefix: "api"`,
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name: "negative attempts",
			content: `
sync:
  maxAttempts: -1
`,
			wantErr: domain.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			loader := &config.Loader{Environ: map[string]string{}}

			_, err := loader.Load(path)
			assert.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(config.PathEnv, "")
	assert.Equal(t, filepath.Join("/work", domain.ConfigFileName), config.ResolvePath("/work"))

	t.Setenv(config.PathEnv, "/etc/offsync.yaml")
	assert.Equal(t, "/etc/offsync.yaml", config.ResolvePath("/work"))
}
