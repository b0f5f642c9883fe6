package storage

import (
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/models"
)

const bytesPerGB = 1024 * 1024 * 1024

// statfsFunc allows tests to stub filesystem stats.
type statfsFunc func(path string) (total uint64, free uint64, err error)

// deviceFunc allows tests to stub device-id lookups.
type deviceFunc func(path string) (uint64, error)

// Monitor reports disk usage for the configured mount points and the
// dedicated archive drive.
type Monitor struct {
	mounts       []string
	archiveDrive string
	logger       *logrus.Logger
	statfs       statfsFunc
	device       deviceFunc
}

// NewMonitor creates a storage monitor over the given mount points.
func NewMonitor(mounts []string, archiveDrive string, logger *logrus.Logger) *Monitor {
	return &Monitor{
		mounts:       mounts,
		archiveDrive: archiveDrive,
		logger:       logger,
		statfs:       realStatfs,
		device:       realDevice,
	}
}

// Combined sums usage across all mount points, counting each underlying
// device once so two paths on the same filesystem are not double-counted.
// With no mount points configured it falls back to the root filesystem.
func (m *Monitor) Combined() models.StorageInfo {
	paths := m.mounts
	if len(paths) == 0 {
		m.logger.Warn("MOUNT_POINTS not configured, storage stats default to /")
		paths = []string{"/"}
	}

	var total, free uint64
	seen := make(map[uint64]bool)

	for _, path := range paths {
		dev, err := m.device(path)
		if err != nil {
			m.logger.WithError(err).WithField("path", path).Warn("Skipping unreadable mount point")
			continue
		}
		if seen[dev] {
			m.logger.WithField("path", path).Debug("Device already counted, skipping")
			continue
		}

		pathTotal, pathFree, err := m.statfs(path)
		if err != nil {
			m.logger.WithError(err).WithField("path", path).Warn("Failed to read disk usage")
			continue
		}

		seen[dev] = true
		total += pathTotal
		free += pathFree
	}

	return toStorageInfo(total, free)
}

// Archive reports usage for the dedicated archive drive; a missing or
// unconfigured drive yields zero values rather than an error.
func (m *Monitor) Archive() models.StorageInfo {
	if m.archiveDrive == "" {
		return models.StorageInfo{}
	}

	total, free, err := m.statfs(m.archiveDrive)
	if err != nil {
		m.logger.WithError(err).WithField("path", m.archiveDrive).Warn("Failed to read archive drive usage")
		return models.StorageInfo{}
	}
	return toStorageInfo(total, free)
}

func toStorageInfo(total, free uint64) models.StorageInfo {
	return models.StorageInfo{
		Total:     float64(total) / bytesPerGB,
		Used:      float64(total-free) / bytesPerGB,
		Available: float64(free) / bytesPerGB,
	}
}

func realStatfs(path string) (uint64, uint64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	bsize := uint64(stat.Bsize)
	return stat.Blocks * bsize, stat.Bfree * bsize, nil
}

func realDevice(path string) (uint64, error) {
	var stat syscall.Stat_t
	if err := syscall.Stat(path, &stat); err != nil {
		return 0, err
	}
	return uint64(stat.Dev), nil
}
