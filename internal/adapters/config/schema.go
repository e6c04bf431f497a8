package config

import "time"

// Offsyncfile represents the structure of the offsync.yaml configuration file.
type Offsyncfile struct {
	Version             string           `yaml:"version"`
	Origin              string           `yaml:"origin"`
	Listen              string           `yaml:"listen"`
	DataDir             string           `yaml:"dataDir"`
	APIPrefix           string           `yaml:"apiPrefix"`
	TransactionEndpoint string           `yaml:"transactionEndpoint"`
	SyncTag             string           `yaml:"syncTag"`
	Precache            []string         `yaml:"precache"`
	OfflinePage         string           `yaml:"offlinePage"`
	FetchTimeout        time.Duration    `yaml:"fetchTimeout"`
	PrecacheWorkers     int              `yaml:"precacheWorkers"`
	Sync                *SyncDTO         `yaml:"sync"`
	Notification        *NotificationDTO `yaml:"notification"`
	Telemetry           *TelemetryDTO    `yaml:"telemetry"`
}

// SyncDTO represents the sync section of the configuration.
type SyncDTO struct {
	MaxAttempts     *int          `yaml:"maxAttempts"`
	InitialInterval time.Duration `yaml:"initialInterval"`
	MaxInterval     time.Duration `yaml:"maxInterval"`
	MaxElapsed      time.Duration `yaml:"maxElapsed"`
}

// NotificationDTO represents the notification section of the configuration.
type NotificationDTO struct {
	Title       string `yaml:"title"`
	DefaultBody string `yaml:"defaultBody"`
	Icon        string `yaml:"icon"`
	Badge       string `yaml:"badge"`
	ExploreURL  string `yaml:"exploreUrl"`
}

// TelemetryDTO represents the telemetry section of the configuration.
type TelemetryDTO struct {
	OTLPEndpoint string `yaml:"otlpEndpoint"`
}

// Environment holds the OFFSYNC_* overrides. Unset variables leave the file
// value in place.
type Environment struct {
	Version             string        `env:"VERSION"`
	Origin              string        `env:"ORIGIN"`
	Listen              string        `env:"LISTEN"`
	DataDir             string        `env:"DATA_DIR"`
	APIPrefix           string        `env:"API_PREFIX"`
	TransactionEndpoint string        `env:"TRANSACTION_ENDPOINT"`
	SyncTag             string        `env:"SYNC_TAG"`
	Precache            []string      `env:"PRECACHE"`
	FetchTimeout        time.Duration `env:"FETCH_TIMEOUT"`
	MaxAttempts         *int          `env:"SYNC_MAX_ATTEMPTS"`
	OTLPEndpoint        string        `env:"OTLP_ENDPOINT"`
}
