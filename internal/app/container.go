package app

import (
	"context"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/doeshing/statusline-go/internal/application/doctor"
	"github.com/doeshing/statusline-go/internal/application/statusline"
	"github.com/doeshing/statusline-go/internal/domain"
	"github.com/doeshing/statusline-go/internal/infrastructure/auth"
	"github.com/doeshing/statusline-go/internal/infrastructure/cache"
	"github.com/doeshing/statusline-go/internal/infrastructure/config"
	"github.com/doeshing/statusline-go/internal/infrastructure/git"
	"github.com/doeshing/statusline-go/internal/infrastructure/history"
	"github.com/doeshing/statusline-go/internal/infrastructure/site"
	"github.com/doeshing/statusline-go/internal/infrastructure/trend"
	"github.com/doeshing/statusline-go/internal/infrastructure/weather"
	"github.com/doeshing/statusline-go/internal/pkg/logger"
	"github.com/doeshing/statusline-go/internal/ports"
)

// Options carries the global CLI flags.
type Options struct {
	ConfigPath string
	Debug      bool
	NoColor    bool
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config            domain.Config
	ConfigErr         error
	ConfigProvider    ports.ConfigProvider
	ConfigLoader      *config.FileLoader
	Logger            ports.Logger
	StatuslineService *statusline.Service
	DoctorService     *doctor.Service
	CacheStore        *cache.FileCache
	Tokens            *auth.Provider
	Resolver          *site.Resolver

	historyOnce  sync.Once
	historyStore *history.SQLiteStore
	logFile      io.Closer
}

// BuildContainer constructs the dependency graph. Configuration problems do
// not fail the build: the defaults (plus the environment) are used instead and
// the error is kept in ConfigErr.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	loader := config.NewFileLoader(opts.ConfigPath)
	cfg, cfgErr := loader.Load(ctx)
	if cfgErr != nil {
		cfg = loader.Fallback()
	}
	if opts.Debug {
		cfg.Logging.Debug = true
	}
	if opts.NoColor {
		cfg.Display.NoColor = true
	}

	c := &Container{
		Config:         cfg,
		ConfigErr:      cfgErr,
		ConfigProvider: loader,
		ConfigLoader:   loader,
	}
	c.Logger = c.openLogger(cfg)
	if cfgErr != nil {
		c.Logger.Error("config load failed; using defaults", cfgErr, map[string]interface{}{"path": loader.Path()})
	}

	c.CacheStore = cache.NewFileCache(cfg.Cache.Dir, c.Logger)
	c.Tokens = auth.NewProvider(cfg, c.Logger)

	resolver, err := site.NewResolver(cfg, c.Logger)
	if err != nil {
		c.Logger.Warn("site resolver unavailable", map[string]interface{}{"error": err.Error()})
	} else {
		c.Resolver = resolver
	}

	client := weather.NewClient(&http.Client{})
	fetcher := weather.NewFetcher(c.CacheStore, client, cfg.RequestTimeout(), cfg.FetchConcurrency(), c.Logger)
	probe := git.NewProbe(domain.DefaultGitTimeout)
	inspector := git.NewInspector(git.NewDirtyChecker(probe, c.CacheStore, c.Logger))

	svc := &statusline.Service{
		Config:  cfg,
		Git:     inspector,
		Trends:  c.trendTracker,
		Tokens:  c.Tokens,
		Weather: weather.NewSource(cfg, fetcher, c.Logger),
		Toggle:  func() string { return site.ReadToggle(cfg.Schedule.ToggleFile) },
		Logger:  c.Logger,
	}
	if c.Resolver != nil {
		svc.Sites = c.Resolver
	}
	if cfg.History.Enabled {
		svc.History = c.HistoryStore()
	}
	c.StatuslineService = svc

	c.DoctorService = &doctor.Service{
		ConfigProvider: loader,
		ConfigPath:     loader.Path(),
		Credentials:    c.Tokens,
		Cache:          c.CacheStore,
		GitProbe:       probe.Name(),
	}
	if cfg.History.Enabled {
		c.DoctorService.History = c.HistoryStore()
	}
	return c, nil
}

func (c *Container) trendTracker(workingDir string) ports.TrendTracker {
	return trend.NewTracker(trend.PathFor(c.Config.Cache.Dir, workingDir), c.Logger)
}

// HistoryStore opens the session history on first use.
func (c *Container) HistoryStore() *history.SQLiteStore {
	c.historyOnce.Do(func() {
		c.historyStore = history.NewSQLiteStore(c.Config.History.Path)
	})
	return c.historyStore
}

// openLogger writes to the daily log file; stdout is reserved for the status
// line. Old files are pruned at most once a day.
func (c *Container) openLogger(cfg domain.Config) ports.Logger {
	level, _ := logger.ParseLevel(cfg.Logging.Level)
	if cfg.Logging.Debug {
		level = logger.LevelDebug
	}
	if level == logger.LevelOff {
		return logger.Nop()
	}

	now := time.Now()
	file, err := logger.OpenDaily(cfg.Logging.Dir, now)
	if err != nil {
		if cfg.Logging.Debug {
			return logger.New(os.Stderr, level)
		}
		return logger.Nop()
	}
	c.logFile = file
	log := logger.New(file, level)

	retention := time.Duration(cfg.Logging.RetentionDays) * 24 * time.Hour
	if removed, err := logger.Cleanup(cfg.Logging.Dir, retention, now); err == nil && removed > 0 {
		log.Info("old logs removed", map[string]interface{}{"count": removed})
	}
	return log
}

// Close releases the log file and the history database.
func (c *Container) Close() error {
	if c.historyStore != nil {
		_ = c.historyStore.Close()
	}
	if c.logFile != nil {
		return c.logFile.Close()
	}
	return nil
}
