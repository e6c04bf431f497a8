package domain

import (
	"net/url"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// Config is the resolved agent configuration.
type Config struct {
	// Version namespaces the cache partitions; bumped by every deploy.
	Version CacheVersion
	// Origin is the base URL of the application server.
	Origin string
	// Listen is the address the interceptor binds to.
	Listen string
	// DataDir holds the cache partitions and the pending-write database.
	DataDir string
	// APIPrefix selects the network-first strategy.
	APIPrefix string
	// TransactionEndpoint is the path whose failed writes are queued for replay.
	TransactionEndpoint string
	// SyncTag is the background-sync tag that drains the queue.
	SyncTag string
	// Precache is the install-time asset manifest, in order.
	Precache []string
	// OfflinePage is the precached document served to failed navigations.
	OfflinePage string
	// FetchTimeout bounds a single network round trip; zero means no limit.
	FetchTimeout time.Duration
	// PrecacheWorkers bounds concurrent manifest fetches.
	PrecacheWorkers int
	Sync            SyncConfig
	Notification    NotificationConfig
	// OTLPEndpoint enables trace export when set.
	OTLPEndpoint string
}

// SyncConfig tunes the replay of pending writes.
type SyncConfig struct {
	// MaxAttempts moves an entry to the dead letter state after this many
	// failed replays. Zero retries forever.
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// MaxElapsed stops one backoff run; the next signal starts a new one.
	MaxElapsed time.Duration
}

// NotificationConfig holds the default notification content.
type NotificationConfig struct {
	Title       string
	DefaultBody string
	Icon        string
	Badge       string
	ExploreURL  string
}

// RootURL returns the absolute URL of the application window.
func (c *Config) RootURL() string {
	base := strings.TrimRight(c.Origin, "/")
	p := c.Notification.ExploreURL
	if p == "" {
		p = "/"
	}
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return base + p
}

// Validate checks that the configuration can drive an agent.
func (c *Config) Validate() error {
	if c.Version == "" {
		return ErrMissingVersion
	}
	if !ValidPartitionName(c.Version.Partition(PartitionPrecache)) {
		return zerr.With(zerr.Wrap(ErrInvalidConfig, "version"), "version", string(c.Version))
	}
	if c.Origin == "" {
		return ErrMissingOrigin
	}
	u, err := url.Parse(c.Origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return zerr.With(zerr.Wrap(ErrInvalidConfig, "origin"), "origin", c.Origin)
	}
	if !strings.HasPrefix(c.APIPrefix, "/") {
		return zerr.With(zerr.Wrap(ErrInvalidConfig, "api_prefix"), "api_prefix", c.APIPrefix)
	}
	if c.SyncTag == "" {
		return zerr.With(zerr.Wrap(ErrInvalidConfig, "sync_tag"), "sync_tag", c.SyncTag)
	}
	if c.Sync.MaxAttempts < 0 {
		return zerr.With(zerr.Wrap(ErrInvalidConfig, "sync.max_attempts"), "sync.max_attempts", c.Sync.MaxAttempts)
	}
	return nil
}
