package domain_test

import (
	"testing"
	"time"

	"github.com/doeshing/statusline-go/internal/domain"
)

func TestConfig_FindSite(t *testing.T) {
	cfg := domain.Config{Sites: []domain.Site{
		{Name: "xihu", Longitude: 120.13, Latitude: 30.26, Label: "西湖区"},
		{Name: "xiasha", Longitude: 120.37, Latitude: 30.30},
	}}

	tests := []struct {
		name  string
		query string
		want  string
		found bool
	}{
		{name: "exact", query: "xihu", want: "xihu", found: true},
		{name: "case insensitive", query: "XiaSha", want: "xiasha", found: true},
		{name: "surrounding space", query: "  xihu ", want: "xihu", found: true},
		{name: "unknown", query: "binjiang"},
		{name: "empty", query: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := cfg.FindSite(tt.query)
			if ok != tt.found || s.Name != tt.want {
				t.Fatalf("FindSite(%q) = %+v, %v", tt.query, s, ok)
			}
			if cfg.HasSite(tt.query) != tt.found {
				t.Fatalf("HasSite(%q) disagrees with FindSite", tt.query)
			}
		})
	}

	if names := cfg.SiteNames(); len(names) != 2 || names[0] != "xihu" {
		t.Fatalf("SiteNames() = %v", names)
	}
}

func TestSite_LocationAndDisplayName(t *testing.T) {
	s := domain.Site{Name: "xihu", Longitude: 120.13, Latitude: 30.26, Label: "西湖区"}
	if got := s.Location(); got != "120.13,30.26" {
		t.Fatalf("Location() = %s", got)
	}
	if s.DisplayName() != "西湖区" {
		t.Fatalf("DisplayName() = %s", s.DisplayName())
	}
	s.Label = ""
	if s.DisplayName() != "xihu" {
		t.Fatalf("DisplayName() without label = %s", s.DisplayName())
	}
}

func TestConfig_ResourceTTL(t *testing.T) {
	cfg := domain.Config{Cache: domain.CacheSettings{NowTTLSeconds: 60}}
	tests := []struct {
		kind domain.ResourceKind
		want time.Duration
	}{
		{domain.ResourceNow, 60 * time.Second},
		{domain.ResourceMinutely, 180 * time.Second},
		{domain.ResourceAQI, 300 * time.Second},
		{domain.ResourceDaily, time.Hour},
	}
	for _, tt := range tests {
		got, err := cfg.ResourceTTL(tt.kind)
		if err != nil || got != tt.want {
			t.Errorf("ResourceTTL(%s) = %v, %v; want %v", tt.kind, got, err, tt.want)
		}
	}
	if _, err := cfg.ResourceTTL("radar"); err == nil {
		t.Fatal("unknown resource should fail")
	}
}

func TestConfig_Defaults(t *testing.T) {
	var cfg domain.Config
	if cfg.WeatherEnabled() {
		t.Fatal("weather should be disabled without a host")
	}
	if cfg.RequestTimeout() != domain.DefaultRequestTimeout {
		t.Fatalf("RequestTimeout() = %v", cfg.RequestTimeout())
	}
	if cfg.FetchConcurrency() != domain.DefaultFetchConcurrency {
		t.Fatalf("FetchConcurrency() = %d", cfg.FetchConcurrency())
	}
	if cfg.TokenTTL() != 900*time.Second {
		t.Fatalf("TokenTTL() = %v", cfg.TokenTTL())
	}
	if cfg.CostThreshold() != 0.50 {
		t.Fatalf("CostThreshold() = %v", cfg.CostThreshold())
	}
	cfg.Display.CostThreshold = 2
	if cfg.CostThreshold() != 2 {
		t.Fatalf("CostThreshold() = %v", cfg.CostThreshold())
	}
}

func TestBoundingBox_ContainsEdges(t *testing.T) {
	box := domain.BoundingBox{MinLon: 100, MaxLon: 125, MinLat: 25, MaxLat: 45}
	tests := []struct {
		lon, lat float64
		want     bool
	}{
		{120.13, 30.26, true},
		{100, 25, true},
		{125, 45, true},
		{125.01, 30, false},
		{-0.12, 51.5, false},
	}
	for _, tt := range tests {
		if got := box.Contains(tt.lon, tt.lat); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v", tt.lon, tt.lat, got)
		}
	}
}

func TestSessionCounters_TimeRoundTrip(t *testing.T) {
	at := time.Unix(1700000000, 500000000)
	c := domain.NewSessionCounters(3, 4, at)
	if c.Total() != 7 {
		t.Fatalf("Total() = %d", c.Total())
	}
	if d := c.Time().Sub(at); d > time.Microsecond || d < -time.Microsecond {
		t.Fatalf("Time() drifted by %v", d)
	}
}
