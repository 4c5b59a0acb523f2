package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
	// CacheFilePermissions is the permission for cache documents (rw-r--r--)
	CacheFilePermissions = 0o644
)

// Timeout and duration constants
const (
	// DefaultRequestTimeout bounds a single outbound API call
	DefaultRequestTimeout = 5 * time.Second
	// DefaultGitTimeout bounds a single git status probe
	DefaultGitTimeout = 1 * time.Second
	// GitDirtyCacheTTL is how long a dirty-bit stays valid for one directory
	GitDirtyCacheTTL = 5 * time.Second
	// TokenSafetyMargin is the minimum remaining lifetime of a reusable token
	TokenSafetyMargin = 60 * time.Second
	// TokenClockSkew back-dates the issued-at claim
	TokenClockSkew = 30 * time.Second
	// TrendFreshnessWindow is the age after which a previous record is ignored
	TrendFreshnessWindow = 24 * time.Hour
)

// Limit constants
const (
	// DefaultFetchConcurrency caps concurrent outbound requests per invocation
	DefaultFetchConcurrency = 4
	// TrendThreshold is the relative change needed to leave FLAT
	TrendThreshold = 0.2
	// DefaultCostThreshold is the USD amount at which cost turns red
	DefaultCostThreshold = 0.50
	// DefaultHistoryLimit is the default number of history rows to display
	DefaultHistoryLimit = 20
	// DefaultWorkDays is Monday to Friday in ISO weekdays
	DefaultWorkDays = "1-5"
	// MaxHistoryAnalysisRecords bounds the rows read by history stats
	MaxHistoryAnalysisRecords = 1000
)

// Performance thresholds for the assistant's API time
const (
	PerfFastMS     = 10000
	PerfModerateMS = 60000
)

// Logging constants
const (
	// LogRetentionDays is how long daily log files are kept
	LogRetentionDays = 7
	// DefaultLogLevel is used when the configured level is missing or invalid
	DefaultLogLevel = "WARNING"
)

// Default TTLs in seconds for the weather resources and the token
const (
	DefaultTokenTTLSeconds    = 900
	DefaultNowTTLSeconds      = 180
	DefaultMinutelyTTLSeconds = 180
	DefaultAQITTLSeconds      = 300
	DefaultDailyTTLSeconds    = 3600
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
	// LogFileDateFormat names daily log files
	LogFileDateFormat = "20060102"
)
