package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/doeshing/statusline-go/internal/domain"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}
}

func newTestLoader(t *testing.T, yamlBody string, env map[string]string) *FileLoader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statusline.yaml")
	if yamlBody != "" {
		if err := os.WriteFile(path, []byte(yamlBody), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return &FileLoader{overridePath: path, lookupEnv: envMap(env)}
}

func TestDefaultConfigParses(t *testing.T) {
	cfg := DefaultConfig()
	if len(cfg.Sites) != 2 || cfg.Sites[0].Name != "xihu" || cfg.Sites[1].Name != "xiasha" {
		t.Fatalf("unexpected default sites %+v", cfg.Sites)
	}
	if cfg.Sites[0].Label != "西湖区" || cfg.Sites[0].Location() != "120.13,30.26" {
		t.Fatalf("unexpected xihu site %+v", cfg.Sites[0])
	}
	if cfg.Schedule.WorkStart != 8 || cfg.Schedule.WorkEnd != 19 || cfg.Schedule.WorkDays != "1-5" {
		t.Fatalf("unexpected schedule %+v", cfg.Schedule)
	}
	if cfg.Cache.NowTTLSeconds != 180 || cfg.Cache.DailyTTLSeconds != 3600 || cfg.Auth.TTLSeconds != 900 {
		t.Fatalf("unexpected ttls %+v %+v", cfg.Cache, cfg.Auth)
	}
	if cfg.API.Host != "" {
		t.Fatalf("weather should be disabled by default, host=%q", cfg.API.Host)
	}
}

func TestLoadMissingFileUsesDefaultsWithoutWriting(t *testing.T) {
	loader := newTestLoader(t, "", nil)
	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(loader.Path()); !os.IsNotExist(err) {
		t.Fatalf("config file should not be created, stat err=%v", err)
	}
	if cfg.Logging.Level != domain.DefaultLogLevel {
		t.Fatalf("level = %s", cfg.Logging.Level)
	}
	if !filepath.IsAbs(cfg.Cache.Dir) || !strings.HasSuffix(cfg.Cache.Dir, filepath.Join(".cache", "claude-statusline")) {
		t.Fatalf("cache dir not expanded: %s", cfg.Cache.Dir)
	}
	if cfg.History.Path != filepath.Join(cfg.Cache.Dir, "history.db") {
		t.Fatalf("history path = %s", cfg.History.Path)
	}
	if !strings.HasSuffix(cfg.Schedule.ToggleFile, filepath.Join(".claude", "statusline.site")) {
		t.Fatalf("toggle file = %s", cfg.Schedule.ToggleFile)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	loader := newTestLoader(t, `
api:
  host: https://example.qweatherapi.com/
sites:
  - name: office
    lon: 121.47
    lat: 31.23
schedule:
  work_site: office
  off_work_site: office
cache:
  dir: /tmp/statusline-test
logging:
  level: nonsense
`, nil)
	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.Host != "https://example.qweatherapi.com" {
		t.Fatalf("host = %q", cfg.API.Host)
	}
	if len(cfg.Sites) != 1 || cfg.Sites[0].Name != "office" {
		t.Fatalf("sites should be replaced, got %+v", cfg.Sites)
	}
	if cfg.Schedule.WorkStart != 8 {
		t.Fatalf("unset fields keep defaults, work_start=%d", cfg.Schedule.WorkStart)
	}
	if cfg.Logging.Level != "WARNING" {
		t.Fatalf("invalid level should fall back, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Dir != filepath.Join("/tmp/statusline-test", "logs") {
		t.Fatalf("logs dir = %s", cfg.Logging.Dir)
	}
	if cfg.History.Path != filepath.Join("/tmp/statusline-test", "history.db") {
		t.Fatalf("history path = %s", cfg.History.Path)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	loader := newTestLoader(t, "api: [unterminated", map[string]string{EnvAPIHost: "https://env.example.com"})
	if _, err := loader.Load(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
	fallback := loader.Fallback()
	if fallback.API.Host != "https://env.example.com" || len(fallback.Sites) != 2 {
		t.Fatalf("fallback should be defaults plus environment, got %+v", fallback)
	}
}

func TestEnvironmentOverlay(t *testing.T) {
	loader := newTestLoader(t, "api:\n  host: https://file.example.com\n", map[string]string{
		EnvAPIHost:       "https://env.example.com",
		EnvKeyID:         "KID",
		EnvProjectID:     "PID",
		EnvPrivateKey:    "/keys/ed25519.pem",
		EnvTokenTTL:      "600",
		EnvSigner:        "openssl",
		EnvTTLNow:        "60",
		EnvTTLMinutely:   "not-a-number",
		EnvTimezone:      "UTC",
		EnvWorkStart:     "22",
		EnvWorkEnd:       "6",
		EnvWorkDays:      "1,3,5",
		EnvSite:          "xiasha",
		EnvToggleFile:    "/tmp/site",
		EnvLogLevel:      "debug",
		EnvDebug:         "1",
		EnvCostThreshold: "-1",
		EnvHistory:       "true",
		EnvNoColor:       "",
	})
	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	checks := []struct {
		name string
		ok   bool
	}{
		{"host", cfg.API.Host == "https://env.example.com"},
		{"key id", cfg.Auth.KeyID == "KID" && cfg.Auth.ProjectID == "PID"},
		{"private key", cfg.Auth.PrivateKeyPath == "/keys/ed25519.pem"},
		{"token ttl", cfg.Auth.TTLSeconds == 600},
		{"signer", cfg.Auth.Signer == "openssl"},
		{"now ttl", cfg.Cache.NowTTLSeconds == 60},
		{"invalid minutely ttl keeps default", cfg.Cache.MinutelyTTLSeconds == 180},
		{"timezone", cfg.Schedule.Timezone == "UTC"},
		{"hours", cfg.Schedule.WorkStart == 22 && cfg.Schedule.WorkEnd == 6},
		{"workdays", cfg.Schedule.WorkDays == "1,3,5"},
		{"override", cfg.Schedule.Override == "xiasha"},
		{"toggle", cfg.Schedule.ToggleFile == "/tmp/site"},
		{"level", cfg.Logging.Level == "DEBUG"},
		{"debug", cfg.Logging.Debug},
		{"negative threshold keeps default", cfg.CostThreshold() == domain.DefaultCostThreshold},
		{"history", cfg.History.Enabled},
		{"no color", cfg.Display.NoColor},
	}
	for _, c := range checks {
		if !c.ok {
			t.Errorf("%s: unexpected config %+v", c.name, cfg)
		}
	}
}

func TestPathResolution(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "custom.yaml")
	l := &FileLoader{lookupEnv: envMap(map[string]string{EnvConfigPath: custom})}
	if l.Path() != custom {
		t.Fatalf("env path ignored: %s", l.Path())
	}
	l.overridePath = "/explicit.yaml"
	if l.Path() != "/explicit.yaml" {
		t.Fatalf("override path ignored: %s", l.Path())
	}
	l = &FileLoader{lookupEnv: envMap(nil)}
	if !strings.HasSuffix(l.Path(), filepath.Join(".claude", "statusline.yaml")) {
		t.Fatalf("default path = %s", l.Path())
	}
}

func TestSaveBackupReset(t *testing.T) {
	loader := newTestLoader(t, "", nil)
	cfg := DefaultConfig()
	cfg.API.Host = "https://saved.example.com"
	if err := loader.Save(cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := loader.LoadFile(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if loaded.API.Host != "https://saved.example.com" {
		t.Fatalf("saved host lost: %q", loaded.API.Host)
	}
	info, err := os.Stat(loader.Path())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != domain.SecureFilePermissions {
		t.Fatalf("config permissions = %v", info.Mode().Perm())
	}

	backup, err := loader.Backup()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(backup, ".bak") {
		t.Fatalf("backup name = %s", backup)
	}

	reset, err := loader.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if reset.API.Host != "" {
		t.Fatalf("reset should restore defaults, host=%q", reset.API.Host)
	}
	data, err := os.ReadFile(backup)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "saved.example.com") {
		t.Fatal("backup should keep the previous content")
	}
}
