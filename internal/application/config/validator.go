package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/doeshing/statusline-go/internal/domain"
	"github.com/doeshing/statusline-go/internal/infrastructure/site"
	"github.com/doeshing/statusline-go/internal/pkg/logger"
)

var validSigners = map[string]bool{"": true, "auto": true, "library": true, "openssl": true}

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validateAPI(cfg.API); err != nil {
		return err
	}
	if err := validateAuth(cfg.Auth); err != nil {
		return err
	}
	if len(cfg.Sites) == 0 {
		return errors.New("at least one site must be configured")
	}
	if err := validateSites(cfg.Sites); err != nil {
		return err
	}
	if err := validateSchedule(cfg); err != nil {
		return err
	}
	if err := validateCache(cfg.Cache); err != nil {
		return err
	}
	if err := validateLogging(cfg.Logging); err != nil {
		return err
	}
	if cfg.Display.CostThreshold < 0 {
		return fmt.Errorf("display.cost_threshold must be >= 0")
	}
	return nil
}

func validateAPI(api domain.APISettings) error {
	host := strings.TrimSpace(api.Host)
	if host != "" {
		u, err := url.Parse(host)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("api.host must be an http(s) URL, got %q", api.Host)
		}
	}
	if api.TimeoutSeconds < 0 {
		return fmt.Errorf("api.timeout must be >= 0")
	}
	if api.Concurrency < 0 {
		return fmt.Errorf("api.concurrency must be >= 0")
	}
	box := api.DomesticRegion
	if box != (domain.BoundingBox{}) && (box.MinLon > box.MaxLon || box.MinLat > box.MaxLat) {
		return fmt.Errorf("api.domestic_region min must not exceed max")
	}
	return nil
}

func validateAuth(auth domain.AuthSettings) error {
	if !validSigners[strings.ToLower(auth.Signer)] {
		return fmt.Errorf("auth.signer must be auto|library|openssl, got %s", auth.Signer)
	}
	if auth.TTLSeconds < 0 {
		return fmt.Errorf("auth.ttl must be >= 0")
	}
	return nil
}

func validateSites(sites []domain.Site) error {
	seen := make(map[string]bool, len(sites))
	for _, s := range sites {
		name := strings.ToLower(strings.TrimSpace(s.Name))
		if name == "" {
			return errors.New("every site needs a name")
		}
		if seen[name] {
			return fmt.Errorf("duplicate site %s", s.Name)
		}
		seen[name] = true
		if s.Longitude < -180 || s.Longitude > 180 || s.Latitude < -90 || s.Latitude > 90 {
			return fmt.Errorf("site %s has invalid coordinates", s.Name)
		}
	}
	return nil
}

func validateSchedule(cfg domain.Config) error {
	sched := cfg.Schedule
	if sched.WorkStart < 0 || sched.WorkStart > 23 {
		return fmt.Errorf("schedule.work_start must be 0..23, got %d", sched.WorkStart)
	}
	if sched.WorkEnd < 0 || sched.WorkEnd > 23 {
		return fmt.Errorf("schedule.work_end must be 0..23, got %d", sched.WorkEnd)
	}
	if _, err := site.ParseWorkdays(sched.WorkDays); err != nil {
		return fmt.Errorf("schedule.work_days invalid: %w", err)
	}
	if sched.Timezone != "" {
		if _, err := time.LoadLocation(sched.Timezone); err != nil {
			return fmt.Errorf("schedule.timezone invalid: %w", err)
		}
	}
	for key, name := range map[string]string{"work_site": sched.WorkSite, "off_work_site": sched.OffWorkSite} {
		if name != "" && !cfg.HasSite(name) {
			return fmt.Errorf("schedule.%s %s not found in sites", key, name)
		}
	}
	return nil
}

func validateCache(cache domain.CacheSettings) error {
	ttls := map[string]int{
		"now_ttl":      cache.NowTTLSeconds,
		"minutely_ttl": cache.MinutelyTTLSeconds,
		"aqi_ttl":      cache.AQITTLSeconds,
		"daily_ttl":    cache.DailyTTLSeconds,
	}
	for key, value := range ttls {
		if value < 0 {
			return fmt.Errorf("cache.%s must be >= 0", key)
		}
	}
	return nil
}

func validateLogging(logging domain.LoggingSettings) error {
	if logging.Level != "" && !logger.ValidLevel(logging.Level) {
		return fmt.Errorf("logging.level must be DEBUG|INFO|WARNING|ERROR|CRITICAL|OFF, got %s", logging.Level)
	}
	if logging.RetentionDays < 0 {
		return fmt.Errorf("logging.retention_days must be >= 0")
	}
	return nil
}
