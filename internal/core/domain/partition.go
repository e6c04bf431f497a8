package domain

import "strings"

// PartitionKind names one of the three cache partitions.
type PartitionKind string

const (
	// PartitionPrecache holds install-time assets from the manifest.
	PartitionPrecache PartitionKind = "precache"
	// PartitionRuntime holds lazily cached static assets.
	PartitionRuntime PartitionKind = "runtime"
	// PartitionAPI holds the last known API responses.
	PartitionAPI PartitionKind = "api"
)

// CacheVersion identifies the active set of partitions. It changes on every deploy.
type CacheVersion string

// Partition returns the versioned partition name for kind, e.g. "api-v3".
func (v CacheVersion) Partition(kind PartitionKind) string {
	return string(kind) + "-" + string(v)
}

// Partitions returns the set of partition names that are current for v.
func (v CacheVersion) Partitions() map[string]struct{} {
	return map[string]struct{}{
		v.Partition(PartitionPrecache): {},
		v.Partition(PartitionRuntime):  {},
		v.Partition(PartitionAPI):      {},
	}
}

// ValidPartitionName reports whether name is safe to use as a directory name.
func ValidPartitionName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
