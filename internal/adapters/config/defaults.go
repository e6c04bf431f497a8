package config

import (
	"time"

	"go.trai.ch/offsync/internal/core/domain"
)

const (
	defaultVersion             = "v1"
	defaultOrigin              = "http://localhost:5000"
	defaultListen              = "127.0.0.1:8787"
	defaultAPIPrefix           = "/api/"
	defaultTransactionEndpoint = "/api/transactions"
	defaultSyncTag             = "sync-transactions"
	defaultOfflinePage         = "/offline.html"
	defaultFetchTimeout        = 30 * time.Second
	defaultPrecacheWorkers     = 4
	defaultMaxAttempts         = 10
	defaultInitialInterval     = time.Second
	defaultMaxInterval         = time.Minute
	defaultMaxElapsed          = 15 * time.Minute
	defaultTitle               = "Cashflow"
	defaultBody                = "New notification from Cashflow"
	defaultIcon                = "/logo192.png"
	defaultBadge               = "/logo192.png"
	defaultExploreURL          = "/"
)

// DefaultPrecache is the asset manifest used when the file does not name one.
var DefaultPrecache = []string{
	"/",
	"/index.html",
	"/static/css/main.css",
	"/static/js/main.js",
	"/manifest.json",
	"/offline.html",
}

// Defaults returns the configuration used when no file is present.
func Defaults() *domain.Config {
	return &domain.Config{
		Version:             defaultVersion,
		Origin:              defaultOrigin,
		Listen:              defaultListen,
		DataDir:             domain.DataDirName,
		APIPrefix:           defaultAPIPrefix,
		TransactionEndpoint: defaultTransactionEndpoint,
		SyncTag:             defaultSyncTag,
		Precache:            append([]string(nil), DefaultPrecache...),
		OfflinePage:         defaultOfflinePage,
		FetchTimeout:        defaultFetchTimeout,
		PrecacheWorkers:     defaultPrecacheWorkers,
		Sync: domain.SyncConfig{
			MaxAttempts:     defaultMaxAttempts,
			InitialInterval: defaultInitialInterval,
			MaxInterval:     defaultMaxInterval,
			MaxElapsed:      defaultMaxElapsed,
		},
		Notification: domain.NotificationConfig{
			Title:       defaultTitle,
			DefaultBody: defaultBody,
			Icon:        defaultIcon,
			Badge:       defaultBadge,
			ExploreURL:  defaultExploreURL,
		},
	}
}
