package logging

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// pruneLogDir removes the oldest log files in logDir until their total size is
// within maxTotalSizeMB. The active log file is never removed.
func pruneLogDir(logDir string, maxTotalSizeMB int, activePath string) (int, error) {
	if maxTotalSizeMB <= 0 {
		return 0, nil
	}
	maxBytes := int64(maxTotalSizeMB) * 1024 * 1024

	dir := strings.TrimSpace(logDir)
	if dir == "" {
		return 0, nil
	}
	dir = filepath.Clean(dir)

	entries, errRead := os.ReadDir(dir)
	if errRead != nil {
		if os.IsNotExist(errRead) {
			return 0, nil
		}
		return 0, errRead
	}

	active := strings.TrimSpace(activePath)
	if active != "" {
		active = filepath.Clean(active)
	}

	type candidate struct {
		path    string
		size    int64
		modTime time.Time
	}

	var (
		candidates []candidate
		total      int64
	)
	for _, entry := range entries {
		if entry.IsDir() || !isLogFileName(entry.Name()) {
			continue
		}
		info, errInfo := entry.Info()
		if errInfo != nil || !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, candidate{
			path:    filepath.Join(dir, entry.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
		total += info.Size()
	}
	if total <= maxBytes {
		return 0, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime.Before(candidates[j].modTime)
	})

	deleted := 0
	for _, c := range candidates {
		if total <= maxBytes {
			break
		}
		if c.path == active {
			continue
		}
		if errRemove := os.Remove(c.path); errRemove != nil {
			log.WithError(errRemove).Warnf("logging: failed to remove old log file: %s", filepath.Base(c.path))
			continue
		}
		total -= c.size
		deleted++
	}
	return deleted, nil
}

func isLogFileName(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return false
	}
	return strings.HasSuffix(lower, ".log") || strings.HasSuffix(lower, ".log.gz")
}
