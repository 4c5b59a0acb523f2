package domain

import (
	"strconv"
	"time"
)

// Site is a named query target for weather data.
type Site struct {
	Name      string  `yaml:"name"`
	Longitude float64 `yaml:"lon"`
	Latitude  float64 `yaml:"lat"`
	Label     string  `yaml:"label"`
}

// Location renders the "lon,lat" pair the weather API expects.
func (s Site) Location() string {
	return formatCoord(s.Longitude) + "," + formatCoord(s.Latitude)
}

// DisplayName prefers the label and falls back to the name.
func (s Site) DisplayName() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Name
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Contains reports whether the coordinate lies inside the box (edges included).
func (b BoundingBox) Contains(lon, lat float64) bool {
	return lon >= b.MinLon && lon <= b.MaxLon && lat >= b.MinLat && lat <= b.MaxLat
}

// SiteReason explains how a site was chosen.
type SiteReason string

const (
	SiteReasonOverride SiteReason = "override"
	SiteReasonToggle   SiteReason = "toggle"
	SiteReasonWork     SiteReason = "schedule-work"
	SiteReasonOffWork  SiteReason = "schedule-off-work"
	SiteReasonDefault  SiteReason = "default"
)

// SiteInput carries everything the resolver needs; it never reads files or clocks itself.
type SiteInput struct {
	Override string
	Toggle   string
	Now      time.Time
}

// SiteDecision is the resolver's answer.
type SiteDecision struct {
	Site   Site
	Reason SiteReason
}
