package domain

import "go.trai.ch/zerr"

var (
	// ErrNetworkUnavailable is returned when a request could not reach the network at all.
	ErrNetworkUnavailable = zerr.New("network unavailable")

	// ErrInvalidRequest is returned when an intercepted request cannot be forwarded.
	ErrInvalidRequest = zerr.New("invalid request")

	// ErrInvalidPartition is returned when a partition name is empty or contains path separators.
	ErrInvalidPartition = zerr.New("invalid partition name")

	// ErrCacheCreateFailed is returned when a partition directory cannot be created.
	ErrCacheCreateFailed = zerr.New("failed to create cache partition")

	// ErrCacheReadFailed is returned when a cached response cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read cached response")

	// ErrCacheWriteFailed is returned when a response cannot be written to a partition.
	ErrCacheWriteFailed = zerr.New("failed to write cached response")

	// ErrCacheUnmarshalFailed is returned when a cached response is corrupt.
	ErrCacheUnmarshalFailed = zerr.New("failed to unmarshal cached response")

	// ErrCacheMarshalFailed is returned when a response cannot be encoded for storage.
	ErrCacheMarshalFailed = zerr.New("failed to marshal cached response")

	// ErrCacheDeleteFailed is returned when a stale partition cannot be removed.
	ErrCacheDeleteFailed = zerr.New("failed to delete cache partition")

	// ErrCacheListFailed is returned when the partition directory cannot be listed.
	ErrCacheListFailed = zerr.New("failed to list cache partitions")

	// ErrPrecacheIncomplete is reported when some manifest assets could not be stored.
	ErrPrecacheIncomplete = zerr.New("precache incomplete")

	// ErrQueueOpenFailed is returned when the pending-write store cannot be opened.
	ErrQueueOpenFailed = zerr.New("failed to open pending-write store")

	// ErrQueueMigrateFailed is returned when the pending-write schema cannot be applied.
	ErrQueueMigrateFailed = zerr.New("failed to migrate pending-write store")

	// ErrQueueWriteFailed is returned when a pending write cannot be persisted.
	ErrQueueWriteFailed = zerr.New("failed to persist pending write")

	// ErrQueueReadFailed is returned when pending writes cannot be listed.
	ErrQueueReadFailed = zerr.New("failed to read pending writes")

	// ErrQueueRemoveFailed is returned when a pending write cannot be removed.
	ErrQueueRemoveFailed = zerr.New("failed to remove pending write")

	// ErrReplayFailed is returned when a queued write could not be replayed.
	ErrReplayFailed = zerr.New("replay failed")

	// ErrSyncIncomplete is returned by a drain that left at least one entry queued.
	ErrSyncIncomplete = zerr.New("sync incomplete, entries remain queued")

	// ErrNotificationFailed is returned when a notification cannot be shown.
	ErrNotificationFailed = zerr.New("failed to show notification")

	// ErrWindowOpenFailed is returned when the application window cannot be opened.
	ErrWindowOpenFailed = zerr.New("failed to open application window")

	// ErrUnknownEvent is returned when no handler is registered for an event kind.
	ErrUnknownEvent = zerr.New("unknown event kind")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigEnvFailed is returned when environment overrides cannot be applied.
	ErrConfigEnvFailed = zerr.New("failed to apply environment overrides")

	// ErrInvalidConfig is returned when the loaded configuration is unusable.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrMissingVersion is returned when no cache version is configured.
	ErrMissingVersion = zerr.New("cache version is required")

	// ErrMissingOrigin is returned when no origin URL is configured.
	ErrMissingOrigin = zerr.New("origin URL is required")

	// ErrWatcherFailed is returned when the config watcher cannot start.
	ErrWatcherFailed = zerr.New("failed to watch config file")

	// ErrServeFailed is returned when the interceptor cannot listen.
	ErrServeFailed = zerr.New("interceptor server failed")
)
