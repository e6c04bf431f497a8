// Package config provides the configuration loader for offsync.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "OFFSYNC_"

// PathEnv names the variable that points at the configuration file.
const PathEnv = EnvPrefix + "CONFIG"

// Loader implements ports.ConfigLoader using a YAML file overlaid with
// environment variables.
type Loader struct {
	Logger ports.Logger
	// Environ replaces the process environment when set.
	Environ map[string]string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// ResolvePath returns the configuration path named by OFFSYNC_CONFIG, or
// offsync.yaml in cwd.
func ResolvePath(cwd string) string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return filepath.Join(cwd, domain.ConfigFileName)
}

// Load reads the configuration at path. A missing file yields the defaults.
// A relative data directory is resolved against the file's directory.
func (l *Loader) Load(path string) (*domain.Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	switch {
	case err == nil:
		var file Offsyncfile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
		}
		applyFile(cfg, &file)
	case errors.Is(err, fs.ErrNotExist):
		if l.Logger != nil {
			l.Logger.Info("no " + filepath.Base(path) + " found, using defaults")
		}
	default:
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}

	if !filepath.IsAbs(cfg.DataDir) {
		cfg.DataDir = filepath.Join(filepath.Dir(path), cfg.DataDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	return cfg, nil
}

func applyFile(cfg *domain.Config, file *Offsyncfile) {
	setString(&cfg.Origin, strings.TrimRight(file.Origin, "/"))
	setString(&cfg.Listen, file.Listen)
	setString(&cfg.DataDir, file.DataDir)
	setString(&cfg.APIPrefix, file.APIPrefix)
	setString(&cfg.TransactionEndpoint, file.TransactionEndpoint)
	setString(&cfg.SyncTag, file.SyncTag)
	setString(&cfg.OfflinePage, file.OfflinePage)
	if file.Version != "" {
		cfg.Version = domain.CacheVersion(file.Version)
	}
	if len(file.Precache) > 0 {
		cfg.Precache = file.Precache
	}
	if file.FetchTimeout > 0 {
		cfg.FetchTimeout = file.FetchTimeout
	}
	if file.PrecacheWorkers > 0 {
		cfg.PrecacheWorkers = file.PrecacheWorkers
	}

	if s := file.Sync; s != nil {
		if s.MaxAttempts != nil {
			cfg.Sync.MaxAttempts = *s.MaxAttempts
		}
		if s.InitialInterval > 0 {
			cfg.Sync.InitialInterval = s.InitialInterval
		}
		if s.MaxInterval > 0 {
			cfg.Sync.MaxInterval = s.MaxInterval
		}
		if s.MaxElapsed > 0 {
			cfg.Sync.MaxElapsed = s.MaxElapsed
		}
	}

	if n := file.Notification; n != nil {
		setString(&cfg.Notification.Title, n.Title)
		setString(&cfg.Notification.DefaultBody, n.DefaultBody)
		setString(&cfg.Notification.Icon, n.Icon)
		setString(&cfg.Notification.Badge, n.Badge)
		setString(&cfg.Notification.ExploreURL, n.ExploreURL)
	}

	if file.Telemetry != nil {
		cfg.OTLPEndpoint = file.Telemetry.OTLPEndpoint
	}
}

func (l *Loader) applyEnv(cfg *domain.Config) error {
	var vars Environment
	opts := env.Options{Prefix: EnvPrefix}
	if l.Environ != nil {
		opts.Environment = l.Environ
	}
	if err := env.ParseWithOptions(&vars, opts); err != nil {
		return zerr.Wrap(err, domain.ErrConfigEnvFailed.Error())
	}

	if vars.Version != "" {
		cfg.Version = domain.CacheVersion(vars.Version)
	}
	setString(&cfg.Origin, strings.TrimRight(vars.Origin, "/"))
	setString(&cfg.Listen, vars.Listen)
	setString(&cfg.DataDir, vars.DataDir)
	setString(&cfg.APIPrefix, vars.APIPrefix)
	setString(&cfg.TransactionEndpoint, vars.TransactionEndpoint)
	setString(&cfg.SyncTag, vars.SyncTag)
	setString(&cfg.OTLPEndpoint, vars.OTLPEndpoint)
	if len(vars.Precache) > 0 {
		cfg.Precache = vars.Precache
	}
	if vars.FetchTimeout > 0 {
		cfg.FetchTimeout = vars.FetchTimeout
	}
	if vars.MaxAttempts != nil {
		cfg.Sync.MaxAttempts = *vars.MaxAttempts
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
