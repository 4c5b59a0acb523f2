package doctor

import (
	"context"
	"fmt"
	"os"
	"time"

	appconfig "github.com/doeshing/statusline-go/internal/application/config"
	"github.com/doeshing/statusline-go/internal/domain"
	"github.com/doeshing/statusline-go/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	ConfigPath     string
	Credentials    ports.CredentialInspector
	Cache          ports.CacheRepository
	GitProbe       string
	History        ports.HistoryRepository
	Now            func() time.Time
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, configFileCheck(s.ConfigPath))

	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config values", err.Error()))
	} else {
		checks = append(checks, ok("Config values", fmt.Sprintf("%d sites", len(cfg.Sites))))
	}

	if cfg.WeatherEnabled() {
		checks = append(checks, ok("Weather API", cfg.API.Host))
	} else {
		checks = append(checks, warn("Weather API", "api.host not set; weather segment hidden"))
	}

	checks = append(checks, s.credentialCheck(ctx))
	checks = append(checks, timezoneCheck(cfg.Schedule.Timezone))
	checks = append(checks, s.cacheCheck())

	if s.GitProbe != "" {
		checks = append(checks, ok("Git probe", s.GitProbe))
	} else {
		checks = append(checks, warn("Git probe", "not initialized"))
	}

	checks = append(checks, s.historyCheck(cfg.History))

	return domain.HealthReport{Checks: checks}, nil
}

func configFileCheck(path string) domain.HealthCheck {
	if path == "" {
		return ok("Config file", "loaded")
	}
	if _, err := os.Stat(path); err != nil {
		return ok("Config file", fmt.Sprintf("%s not found; using defaults", path))
	}
	return ok("Config file", fmt.Sprintf("loaded %s", path))
}

func (s *Service) credentialCheck(ctx context.Context) domain.HealthCheck {
	if s.Credentials == nil {
		return warn("Credential", "token provider not initialized")
	}
	switch s.Credentials.State() {
	case domain.CredentialNone:
		return warn("Credential", "no key or token configured; requests are unauthenticated")
	case domain.CredentialStatic:
		return ok("Credential", "static token")
	}

	cred := s.Credentials.Describe(ctx)
	if cred.Token == "" {
		return fail("Credential", "signing failed; see the log for details")
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	details := fmt.Sprintf("signed with %s", cred.Signer)
	if left := cred.Remaining(now()); left > 0 {
		details += fmt.Sprintf(", valid for %s", left.Round(time.Second))
	}
	return ok("Credential", details)
}

func timezoneCheck(name string) domain.HealthCheck {
	if _, err := time.LoadLocation(name); err != nil {
		return fail("Timezone", err.Error())
	}
	return ok("Timezone", name)
}

func (s *Service) cacheCheck() domain.HealthCheck {
	if s.Cache == nil {
		return warn("Cache", "not initialized")
	}
	dir := s.Cache.Dir()
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return fail("Cache", err.Error())
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return fail("Cache", fmt.Sprintf("%s not writable: %v", dir, err))
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())

	entries, err := s.Cache.Entries()
	if err != nil {
		return warn("Cache", err.Error())
	}
	return ok("Cache", fmt.Sprintf("%s (%d entries)", dir, len(entries)))
}

func (s *Service) historyCheck(settings domain.HistorySettings) domain.HealthCheck {
	if !settings.Enabled || s.History == nil {
		return ok("History", "disabled")
	}
	if _, err := s.History.Records(1); err != nil {
		return fail("History", err.Error())
	}
	return ok("History", s.History.Path())
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
