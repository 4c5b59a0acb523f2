package domain

import "time"

// SessionRecord captures one status refresh in the optional history log.
type SessionRecord struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	WorkingDir   string    `json:"working_dir"`
	Model        string    `json:"model"`
	CostUSD      float64   `json:"cost_usd"`
	LinesAdded   int       `json:"lines_added"`
	LinesRemoved int       `json:"lines_removed"`
	Trend        Trend     `json:"trend"`
	Site         string    `json:"site"`
}

// CacheEntry describes one cached artifact on disk.
type CacheEntry struct {
	Key     string    `json:"key"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}
