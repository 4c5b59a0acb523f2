package logger

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/doeshing/statusline-go/internal/domain"
)

const cleanupMarker = ".last_cleanup"

// OpenDaily opens (appending) the log file for the day of now inside dir.
func OpenDaily(dir string, now time.Time) (io.WriteCloser, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	name := "statusline-" + now.Format(domain.LogFileDateFormat) + ".log"
	return os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// ShouldRunCleanup reports whether the last cleanup is older than a day (or never happened).
func ShouldRunCleanup(dir string, now time.Time) bool {
	info, err := os.Stat(filepath.Join(dir, cleanupMarker))
	if err != nil {
		return true
	}
	return now.Sub(info.ModTime()) >= 24*time.Hour
}

// MarkCleanupDone touches the cleanup marker.
func MarkCleanupDone(dir string, now time.Time) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, cleanupMarker)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return err
	}
	return os.Chtimes(path, now, now)
}

// Cleanup removes statusline-*.log files older than retention. It runs at most once per day.
func Cleanup(dir string, retention time.Duration, now time.Time) (int, error) {
	if !ShouldRunCleanup(dir, now) {
		return 0, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "statusline-") || !strings.Contains(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > retention {
			if err := os.Remove(filepath.Join(dir, name)); err == nil {
				removed++
			}
		}
	}
	return removed, MarkCleanupDone(dir, now)
}
