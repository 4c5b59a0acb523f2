package domain

// Config mirrors ~/.claude/statusline.yaml after the environment overlay.
type Config struct {
	ConfigFormatVersion string           `yaml:"config_format_version"`
	API                 APISettings      `yaml:"api"`
	Auth                AuthSettings     `yaml:"auth"`
	Schedule            ScheduleSettings `yaml:"schedule"`
	Sites               []Site           `yaml:"sites"`
	Cache               CacheSettings    `yaml:"cache"`
	Display             DisplaySettings  `yaml:"display"`
	Logging             LoggingSettings  `yaml:"logging"`
	History             HistorySettings  `yaml:"history"`
}

// APISettings configures the weather API.
type APISettings struct {
	Host           string      `yaml:"host"`
	Lang           string      `yaml:"lang"`
	TimeoutSeconds int         `yaml:"timeout"`
	Concurrency    int         `yaml:"concurrency"`
	DomesticRegion BoundingBox `yaml:"domestic_region"`
}

// BoundingBox is an inclusive lon/lat rectangle.
type BoundingBox struct {
	MinLon float64 `yaml:"min_lon"`
	MaxLon float64 `yaml:"max_lon"`
	MinLat float64 `yaml:"min_lat"`
	MaxLat float64 `yaml:"max_lat"`
}

// AuthSettings configures the bearer credential.
type AuthSettings struct {
	KeyID          string `yaml:"key_id"`
	ProjectID      string `yaml:"project_id"`
	PrivateKeyPath string `yaml:"private_key"`
	StaticToken    string `yaml:"token"`
	TTLSeconds     int    `yaml:"ttl"`
	// Signer selects the signing strategy: auto, library or openssl.
	Signer string `yaml:"signer"`
}

// ScheduleSettings drives automatic site selection.
type ScheduleSettings struct {
	Timezone    string `yaml:"timezone"`
	WorkStart   int    `yaml:"work_start"`
	WorkEnd     int    `yaml:"work_end"`
	WorkDays    string `yaml:"work_days"`
	WorkSite    string `yaml:"work_site"`
	OffWorkSite string `yaml:"off_work_site"`
	Override    string `yaml:"override"`
	ToggleFile  string `yaml:"toggle_file"`
}

// CacheSettings configures on-disk caching.
type CacheSettings struct {
	Dir                string `yaml:"dir"`
	NowTTLSeconds      int    `yaml:"now_ttl"`
	MinutelyTTLSeconds int    `yaml:"minutely_ttl"`
	AQITTLSeconds      int    `yaml:"aqi_ttl"`
	DailyTTLSeconds    int    `yaml:"daily_ttl"`
}

// DisplaySettings controls presentation.
type DisplaySettings struct {
	NoColor       bool    `yaml:"no_color"`
	CostThreshold float64 `yaml:"cost_threshold"`
}

// LoggingSettings controls the daily log file.
type LoggingSettings struct {
	Level         string `yaml:"level"`
	Dir           string `yaml:"dir"`
	RetentionDays int    `yaml:"retention_days"`
	Debug         bool   `yaml:"debug"`
}

// HistorySettings controls the optional SQLite session log.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}
