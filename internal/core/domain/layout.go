package domain

import "path/filepath"

const (
	// DataDirName is the name of the agent's working directory.
	DataDirName = ".offsync"

	// CacheDirName is the name of the partition directory.
	CacheDirName = "caches"

	// QueueFileName is the name of the pending-write database.
	QueueFileName = "queue.db"

	// ConfigFileName is the name of the agent configuration file.
	ConfigFileName = "offsync.yaml"

	// ControlPrefix is the path prefix of the agent's own endpoints.
	ControlPrefix = "/__offsync/"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// CachePath returns the directory holding the cache partitions under dataDir.
func CachePath(dataDir string) string {
	return filepath.Join(dataDir, CacheDirName)
}

// QueuePath returns the pending-write database path under dataDir.
func QueuePath(dataDir string) string {
	return filepath.Join(dataDir, QueueFileName)
}
