package domain

import (
	"fmt"
	"strings"
	"time"
)

// FindSite searches for a site by name, case-insensitively.
// Returns the site and true if found, empty site and false otherwise
func (c *Config) FindSite(name string) (Site, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Site{}, false
	}
	for _, site := range c.Sites {
		if strings.EqualFold(site.Name, name) {
			return site, true
		}
	}
	return Site{}, false
}

// HasSite checks if a site with the given name exists in the configuration
func (c *Config) HasSite(name string) bool {
	_, exists := c.FindSite(name)
	return exists
}

// SiteNames lists configured site names in declaration order.
func (c *Config) SiteNames() []string {
	names := make([]string, 0, len(c.Sites))
	for _, site := range c.Sites {
		names = append(names, site.Name)
	}
	return names
}

// WeatherEnabled reports whether an API host is configured.
func (c *Config) WeatherEnabled() bool {
	return strings.TrimSpace(c.API.Host) != ""
}

// RequestTimeout returns the per-call network timeout.
func (c *Config) RequestTimeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// FetchConcurrency returns the worker ceiling for outbound requests.
func (c *Config) FetchConcurrency() int {
	if c.API.Concurrency <= 0 {
		return DefaultFetchConcurrency
	}
	return c.API.Concurrency
}

// TokenTTL returns the lifetime of newly signed tokens.
func (c *Config) TokenTTL() time.Duration {
	return secondsOr(c.Auth.TTLSeconds, DefaultTokenTTLSeconds)
}

// ResourceTTL returns the cache TTL for a weather resource.
func (c *Config) ResourceTTL(kind ResourceKind) (time.Duration, error) {
	switch kind {
	case ResourceNow:
		return secondsOr(c.Cache.NowTTLSeconds, DefaultNowTTLSeconds), nil
	case ResourceMinutely:
		return secondsOr(c.Cache.MinutelyTTLSeconds, DefaultMinutelyTTLSeconds), nil
	case ResourceAQI:
		return secondsOr(c.Cache.AQITTLSeconds, DefaultAQITTLSeconds), nil
	case ResourceDaily:
		return secondsOr(c.Cache.DailyTTLSeconds, DefaultDailyTTLSeconds), nil
	default:
		return 0, fmt.Errorf("unknown resource %q", kind)
	}
}

// CostThreshold returns the configured USD threshold, or the default when unset.
func (c *Config) CostThreshold() float64 {
	if c.Display.CostThreshold <= 0 {
		return DefaultCostThreshold
	}
	return c.Display.CostThreshold
}

func secondsOr(value, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Second
}
