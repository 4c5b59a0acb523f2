package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/statusline-go/assets"
	"github.com/doeshing/statusline-go/internal/domain"
	"github.com/doeshing/statusline-go/internal/pkg/filesystem"
	"github.com/doeshing/statusline-go/internal/pkg/logger"
	"github.com/doeshing/statusline-go/internal/ports"
)

// EnvConfigPath overrides the configuration file location.
const EnvConfigPath = "STATUSLINE_CONFIG"

// FileLoader loads YAML configuration from ~/.claude/statusline.yaml
// (overridable via STATUSLINE_CONFIG) and overlays the environment.
type FileLoader struct {
	overridePath string
	lookupEnv    func(string) (string, bool)
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path, lookupEnv: os.LookupEnv}
}

// Load implements ports.ConfigProvider. A missing file yields the defaults and
// is not created.
func (l *FileLoader) Load(ctx context.Context) (domain.Config, error) {
	cfg, err := l.LoadFile(ctx)
	if err != nil {
		return domain.Config{}, err
	}
	applyEnv(&cfg, l.lookupEnv)
	return hydrateDefaults(cfg), nil
}

// Fallback returns the defaults with the environment overlay, for use when
// the file cannot be read.
func (l *FileLoader) Fallback() domain.Config {
	cfg := DefaultConfig()
	applyEnv(&cfg, l.lookupEnv)
	return hydrateDefaults(cfg)
}

// LoadFile returns the defaults merged with the file, without the environment
// overlay. Commands that write the file back start from this.
func (l *FileLoader) LoadFile(context.Context) (domain.Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(l.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return domain.Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse config %s: %w", l.Path(), err)
	}
	return cfg, nil
}

// Path returns the resolved configuration file path.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom, _ := l.lookupEnv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".claude", "statusline.yaml")
}

// Exists reports whether the configuration file is present.
func (l *FileLoader) Exists() bool {
	_, err := os.Stat(l.Path())
	return err == nil
}

// Save writes cfg to the configuration file.
func (l *FileLoader) Save(cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return filesystem.WriteFileAtomic(l.Path(), raw, domain.SecureFilePermissions)
}

// Reset overwrites the configuration file with the defaults.
func (l *FileLoader) Reset() (domain.Config, error) {
	if err := filesystem.WriteFileAtomic(l.Path(), assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
		return domain.Config{}, err
	}
	return DefaultConfig(), nil
}

// Backup copies the current file next to itself with a timestamp suffix.
func (l *FileLoader) Backup() (string, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102T150405"))
	if err := os.WriteFile(backup, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return backup, nil
}

// DefaultConfig returns the embedded default configuration.
func DefaultConfig() domain.Config {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		panic(fmt.Sprintf("embedded default config: %v", err))
	}
	return cfg
}

// Hydrate fills derived defaults and expands paths. It is applied by Load and
// by callers that build a Config by hand.
func Hydrate(cfg domain.Config) domain.Config {
	return hydrateDefaults(cfg)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	cfg.Cache.Dir = filesystem.ExpandPath(cfg.Cache.Dir)
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = filepath.Join(filesystem.UserHomeDir(), ".cache", "claude-statusline")
	}
	cfg.Logging.Dir = filesystem.ExpandPath(cfg.Logging.Dir)
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = filepath.Join(cfg.Cache.Dir, "logs")
	}
	if !logger.ValidLevel(cfg.Logging.Level) {
		cfg.Logging.Level = domain.DefaultLogLevel
	}
	cfg.Logging.Level = strings.ToUpper(strings.TrimSpace(cfg.Logging.Level))
	if cfg.Logging.RetentionDays <= 0 {
		cfg.Logging.RetentionDays = domain.LogRetentionDays
	}
	cfg.History.Path = filesystem.ExpandPath(cfg.History.Path)
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(cfg.Cache.Dir, "history.db")
	}
	cfg.Schedule.ToggleFile = filesystem.ExpandPath(cfg.Schedule.ToggleFile)
	if cfg.Schedule.ToggleFile == "" {
		cfg.Schedule.ToggleFile = filepath.Join(filesystem.UserHomeDir(), ".claude", "statusline.site")
	}
	if cfg.Schedule.Timezone == "" {
		cfg.Schedule.Timezone = "Asia/Shanghai"
	}
	if cfg.Schedule.WorkDays == "" {
		cfg.Schedule.WorkDays = domain.DefaultWorkDays
	}
	cfg.Auth.PrivateKeyPath = filesystem.ExpandPath(cfg.Auth.PrivateKeyPath)
	if cfg.Auth.Signer == "" {
		cfg.Auth.Signer = "auto"
	}
	cfg.API.Host = strings.TrimRight(strings.TrimSpace(cfg.API.Host), "/")
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
