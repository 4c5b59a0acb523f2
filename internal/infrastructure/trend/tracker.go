package trend

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/doeshing/statusline-go/internal/domain"
	"github.com/doeshing/statusline-go/internal/pkg/filesystem"
	"github.com/doeshing/statusline-go/internal/pkg/logger"
	"github.com/doeshing/statusline-go/internal/ports"
)

// Tracker compares session counters with the previous invocation's record
// and replaces that record.
type Tracker struct {
	path      string
	window    time.Duration
	threshold float64
	logger    ports.Logger
	now       func() time.Time
}

// NewTracker stores its record at path.
func NewTracker(path string, log ports.Logger) *Tracker {
	if log == nil {
		log = logger.Nop()
	}
	return &Tracker{
		path:      path,
		window:    domain.TrendFreshnessWindow,
		threshold: domain.TrendThreshold,
		logger:    log,
		now:       time.Now,
	}
}

// PathFor returns the record location for a working directory inside dir.
func PathFor(dir, workingDir string) string {
	sum := sha256.Sum256([]byte(workingDir))
	return filepath.Join(dir, "session", "session-"+hex.EncodeToString(sum[:6])+".json")
}

// ComputeAndRecord classifies the change against the stored record and then
// always overwrites it with the current counters.
func (t *Tracker) ComputeAndRecord(added, removed int) domain.Trend {
	if added < 0 {
		added = 0
	}
	if removed < 0 {
		removed = 0
	}
	now := t.now()
	current := domain.NewSessionCounters(added, removed, now)

	trend := domain.TrendNew
	if prev, ok := t.previous(now); ok {
		trend = Classify(prev.Total(), current.Total(), t.threshold)
	}

	if err := t.write(current); err != nil {
		t.logger.Warn("session counters not saved", map[string]interface{}{"error": err.Error()})
	}
	return trend
}

// Classify compares totals. Ratios exactly on 1±threshold are flat.
func Classify(previous, current int, threshold float64) domain.Trend {
	if previous == 0 {
		if current > 0 {
			return domain.TrendUp
		}
		return domain.TrendFlat
	}
	ratio := float64(current) / float64(previous)
	switch {
	case ratio > 1+threshold:
		return domain.TrendUp
	case ratio < 1-threshold:
		return domain.TrendDown
	default:
		return domain.TrendFlat
	}
}

func (t *Tracker) previous(now time.Time) (domain.SessionCounters, bool) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if !os.IsNotExist(err) {
			t.logger.Debug("session record unreadable", map[string]interface{}{"error": err.Error()})
		}
		return domain.SessionCounters{}, false
	}
	var prev domain.SessionCounters
	if err := json.Unmarshal(data, &prev); err != nil {
		t.logger.Debug("session record corrupt", map[string]interface{}{"error": err.Error()})
		return domain.SessionCounters{}, false
	}
	if now.Sub(prev.Time()) > t.window {
		return domain.SessionCounters{}, false
	}
	return prev, true
}

func (t *Tracker) write(c domain.SessionCounters) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return filesystem.WriteFileAtomic(t.path, data, domain.CacheFilePermissions)
}

var _ ports.TrendTracker = (*Tracker)(nil)
