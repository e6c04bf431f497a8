// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/offsync/internal/adapters/cas"
	_ "go.trai.ch/offsync/internal/adapters/config"
	_ "go.trai.ch/offsync/internal/adapters/httpclient"
	_ "go.trai.ch/offsync/internal/adapters/interceptor"
	_ "go.trai.ch/offsync/internal/adapters/logger"
	_ "go.trai.ch/offsync/internal/adapters/sqlite"
	_ "go.trai.ch/offsync/internal/adapters/telemetry"
	_ "go.trai.ch/offsync/internal/adapters/terminal"
	_ "go.trai.ch/offsync/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/offsync/internal/app"
	_ "go.trai.ch/offsync/internal/engine/dispatch"
	_ "go.trai.ch/offsync/internal/engine/lifecycle"
	_ "go.trai.ch/offsync/internal/engine/router"
	_ "go.trai.ch/offsync/internal/engine/syncer"
)
