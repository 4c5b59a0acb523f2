// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The application core (the statusline service and the doctor) depends only on
// these interfaces; adapters in the infrastructure layer implement them against
// the filesystem, the weather API, git and SQLite. Every invocation of the tool
// is a fresh short-lived process, so none of these contracts carries state
// across calls except through files on disk.
package ports

import (
	"context"
	"time"

	"github.com/doeshing/statusline-go/internal/domain"
)

// ConfigProvider loads the latest configuration.
// Implementations typically read ~/.claude/statusline.yaml plus the environment.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// FetchFunc produces a fresh payload for a cache miss.
type FetchFunc func(ctx context.Context) ([]byte, error)

// ResourceCache is a keyed TTL cache persisted across invocations.
type ResourceCache interface {
	GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc) ([]byte, error)
}

// CacheRepository exposes cache maintenance to the CLI.
type CacheRepository interface {
	Entries() ([]domain.CacheEntry, error)
	Clear() error
	Prune(maxAge time.Duration) (int, error)
	Dir() string
}

// TokenProvider supplies the bearer credential; an empty string means none.
type TokenProvider interface {
	Token(ctx context.Context) string
	State() domain.CredentialState
}

// CredentialInspector exposes the credential for diagnostics.
type CredentialInspector interface {
	State() domain.CredentialState
	Describe(ctx context.Context) domain.Credential
}

// SiteResolver picks the site to query. It must be pure.
type SiteResolver interface {
	Resolve(domain.SiteInput) domain.SiteDecision
}

// ResourceFetcher retrieves every requested resource, isolating failures per key.
type ResourceFetcher interface {
	FetchAll(ctx context.Context, credential string, requests []domain.ResourceRequest) domain.ResourceSet
}

// WeatherSource produces the weather report for one site.
type WeatherSource interface {
	Report(ctx context.Context, site domain.Site, credential string) (domain.WeatherReport, error)
}

// TrendTracker compares the current counters with the previous invocation and records them.
type TrendTracker interface {
	ComputeAndRecord(added, removed int) domain.Trend
}

// TrendTrackerFactory returns the tracker for one working directory.
type TrendTrackerFactory func(workingDir string) TrendTracker

// GitInspector reports the branch and dirty bit of a directory.
type GitInspector interface {
	Inspect(ctx context.Context, dir string) *domain.GitStatus
}

// HistoryRepository persists session records.
type HistoryRepository interface {
	Save(domain.SessionRecord) error
	Records(limit int) ([]domain.SessionRecord, error)
	Clear() error
	Path() string
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stderr, daily files).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
