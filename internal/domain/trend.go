package domain

import (
	"math"
	"time"
)

// Trend classifies current session activity against the previous invocation.
type Trend string

const (
	TrendNew  Trend = "new"
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// SessionCounters is the persisted snapshot of one invocation.
type SessionCounters struct {
	LinesAdded   int     `json:"lines_added"`
	LinesRemoved int     `json:"lines_removed"`
	Timestamp    float64 `json:"timestamp"`
}

// NewSessionCounters stamps counters with t as fractional Unix seconds.
func NewSessionCounters(added, removed int, t time.Time) SessionCounters {
	return SessionCounters{
		LinesAdded:   added,
		LinesRemoved: removed,
		Timestamp:    float64(t.UnixNano()) / float64(time.Second),
	}
}

// Total is lines added plus lines removed.
func (c SessionCounters) Total() int {
	return c.LinesAdded + c.LinesRemoved
}

// Time converts the stored timestamp back to a time.Time.
func (c SessionCounters) Time() time.Time {
	sec, frac := math.Modf(c.Timestamp)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}
