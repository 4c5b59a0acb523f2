package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/doeshing/statusline-go/internal/domain"
)

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL", "OFF", "warning"} {
		if _, ok := ParseLevel(name); !ok {
			t.Errorf("ParseLevel(%q) rejected a valid level", name)
		}
	}
	if _, ok := ParseLevel("INVALID"); ok {
		t.Error("ParseLevel accepted INVALID")
	}
}

func TestStdLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelWarning)

	log.Debug("hidden", nil)
	log.Info("hidden", nil)
	log.Warn("cache miss", map[string]interface{}{"key": "xihu/now"})
	log.Error("fetch failed", errors.New("timeout"), map[string]interface{}{"key": "aqi"})

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected debug/info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WARNING] cache miss key=xihu/now") {
		t.Fatalf("missing warning line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] fetch failed error=timeout key=aqi") {
		t.Fatalf("missing error line: %q", out)
	}
}

func TestStdLoggerOffWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelOff)
	log.Error("boom", errors.New("x"), nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestShouldRunCleanupFirstTime(t *testing.T) {
	if !ShouldRunCleanup(t.TempDir(), time.Now()) {
		t.Fatal("expected cleanup to run when no marker exists")
	}
}

func TestMarkCleanupDoneCreatesMarker(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	if err := MarkCleanupDone(dir, now); err != nil {
		t.Fatalf("MarkCleanupDone error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".last_cleanup")); err != nil {
		t.Fatalf("marker missing: %v", err)
	}
	if ShouldRunCleanup(dir, now.Add(time.Hour)) {
		t.Fatal("cleanup should not run again within a day")
	}
	if !ShouldRunCleanup(dir, now.Add(25*time.Hour)) {
		t.Fatal("cleanup should run after a day")
	}
}

func TestCleanupRemovesOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	oldLog := filepath.Join(dir, "statusline-20200101.log")
	freshLog := filepath.Join(dir, "statusline-20200108.log")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{oldLog, freshLog, other} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	old := now.Add(-8 * 24 * time.Hour)
	if err := os.Chtimes(oldLog, old, old); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(other, old, old); err != nil {
		t.Fatal(err)
	}

	removed, err := Cleanup(dir, 7*24*time.Hour, now)
	if err != nil {
		t.Fatalf("Cleanup error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if _, err := os.Stat(oldLog); !os.IsNotExist(err) {
		t.Fatal("old log should be gone")
	}
	if _, err := os.Stat(freshLog); err != nil {
		t.Fatal("fresh log should remain")
	}
	if _, err := os.Stat(other); err != nil {
		t.Fatal("unrelated files should remain")
	}
}

func TestOpenDailyNamesFileByDay(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)
	f, err := OpenDaily(dir, now)
	if err != nil {
		t.Fatal(err)
	}
	_ = f.Close()
	want := filepath.Join(dir, "statusline-"+now.Format(domain.LogFileDateFormat)+".log")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected %s: %v", want, err)
	}
	if filepath.Base(want) != "statusline-20240501.log" {
		t.Fatalf("unexpected name %s", filepath.Base(want))
	}
}
