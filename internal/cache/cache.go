package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Well-known cache keys. Each sync stage publishes a whole-value replacement
// under its own key.
const (
	KeySonarrSummary     = "sonarr_summary"
	KeyRadarrSummary     = "radarr_summary"
	KeySonarrRootFolders = "sonarr_root_folders"
	KeyRadarrRootFolders = "radarr_root_folders"
	KeySnapshot          = "library_snapshot"
	KeyClassified        = "classified_media"
	KeyStreamingCards    = "streaming_cards"
	KeyStorage           = "storage_info"
	KeyArchiveStorage    = "archive_storage_info"
	KeyDashboard         = "dashboard_data"

	// KeySyncGuard is the single-flight marker for a running sync.
	KeySyncGuard = "is_syncing"
)

const (
	// DashboardTTL bounds the published dashboard aggregate.
	DashboardTTL = 6 * time.Hour
	// RawTTL bounds the per-stage raw caches; twice the dashboard TTL so the
	// dashboard expires independently of its inputs.
	RawTTL = 2 * DashboardTTL
	// GuardTTL is the dead-man's-switch for the sync guard in case a sync
	// dies without clearing it.
	GuardTTL = 30 * time.Minute
)

// Store is the shared in-process TTL cache. It is constructed once at startup
// and injected wherever needed; all writes are whole-value replacements.
type Store struct {
	c *gocache.Cache
}

// NewStore creates an empty cache store.
func NewStore() *Store {
	return &Store{
		c: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

// Set stores a value under key with the given time-to-live.
func (s *Store) Set(key string, value interface{}, ttl time.Duration) {
	s.c.Set(key, value, ttl)
}

// Get returns the value under key, or false when absent or expired.
func (s *Store) Get(key string) (interface{}, bool) {
	return s.c.Get(key)
}

// Delete removes the value under key.
func (s *Store) Delete(key string) {
	s.c.Delete(key)
}

// AcquireGuard atomically claims a single-flight guard key. It returns false
// when the guard is already held; the TTL bounds how long a crashed holder
// can block later acquisitions.
func (s *Store) AcquireGuard(key string, ttl time.Duration) bool {
	return s.c.Add(key, true, ttl) == nil
}

// ReleaseGuard clears a guard claimed by AcquireGuard.
func (s *Store) ReleaseGuard(key string) {
	s.c.Delete(key)
}
