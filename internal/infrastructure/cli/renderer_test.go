package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/doeshing/statusline-go/internal/domain"
)

func plainRenderer() *Renderer {
	return &Renderer{Color: false, CostThreshold: 0.5}
}

func fullStatus() domain.Status {
	cost := 0.126
	duration := int64(300000)
	api := int64(5000)
	return domain.Status{
		Session: domain.SessionInput{
			Model: "Sonnet 4.5", WorkingDir: "/home/dev/project",
			CostUSD: &cost, DurationMS: &duration, APIDurationMS: &api,
			LinesAdded: 100, LinesRemoved: 50,
		},
		Git:   &domain.GitStatus{Branch: "main", Dirty: true},
		Trend: domain.TrendUp,
		Weather: &domain.WeatherStatus{
			Site: domain.SiteDecision{Site: domain.Site{Name: "xihu", Label: "西湖区"}},
			Report: domain.WeatherReport{
				Now:        &domain.CurrentWeather{Temp: "21", FeelsLike: "20", Text: "多云", WindDir: "东风", WindSpeed: "12"},
				Minutely:   domain.PrecipOutlook{Known: true, ChangeInMinutes: 15},
				Tomorrow:   &domain.DailyForecast{TempMin: "15", TempMax: "25", TextDay: "晴", TextNight: "多云", WindDir: "北风", WindSpeed: "8", Precip: 1.5},
				AirQuality: &domain.AirQuality{AQI: "42", Category: "优"},
			},
			Authenticated: true,
		},
	}
}

func TestRenderFullLine(t *testing.T) {
	got := plainRenderer().Render(fullStatus())
	want := "Sonnet 4.5 project | main* | +100/-50 ↗ $0.13 5m | 西湖区 | 21°C（体感20°） 多云 | 东风 12km/h | 15分钟后下雨 | AQI 42 优 | 明日 15~25°C 晴转多云 | 北风 8km/h | 降水1.5mm"
	if got != want {
		t.Fatalf("Render()\n got: %s\nwant: %s", got, want)
	}
}

func TestRenderPlaceholdersAndAuthTag(t *testing.T) {
	status := domain.Status{
		Session: domain.SessionInput{Model: "Claude", WorkingDir: "."},
		Trend:   domain.TrendNew,
		Weather: &domain.WeatherStatus{
			Site:   domain.SiteDecision{Site: domain.Site{Name: "xiasha"}},
			Report: domain.WeatherReport{Minutely: domain.PrecipOutlook{ChangeInMinutes: -1}},
		},
	}
	got := plainRenderer().Render(status)
	want := "Claude . | xiasha | --°C（体感--°） -- | -- --km/h | -- | -- | Auth?"
	if got != want {
		t.Fatalf("Render()\n got: %s\nwant: %s", got, want)
	}
}

func TestRenderWithoutWeather(t *testing.T) {
	status := domain.Status{Session: domain.SessionInput{Model: "Opus", WorkingDir: "/tmp/x", LinesAdded: 3}, Trend: domain.TrendNew}
	if got := plainRenderer().Render(status); got != "Opus x | +3/-0 (new)" {
		t.Fatalf("Render() = %q", got)
	}
}

func TestTrendMarkers(t *testing.T) {
	tests := map[domain.Trend]string{
		domain.TrendNew:  " (new)",
		domain.TrendUp:   " ↗",
		domain.TrendDown: " ↘",
		domain.TrendFlat: " →",
	}
	for trend, want := range tests {
		if got := trendMarker(trend); got != want {
			t.Errorf("trendMarker(%s) = %q, want %q", trend, got, want)
		}
	}
}

func TestCostColors(t *testing.T) {
	r := &Renderer{Color: true, CostThreshold: 0.5}
	tests := []struct {
		usd   float64
		color string
	}{
		{0.10, ansiGreen},
		{0.25, ansiYellow},
		{0.49, ansiYellow},
		{0.50, ansiRed},
		{3.00, ansiRed},
	}
	for _, tt := range tests {
		if got := r.cost(tt.usd); !strings.HasPrefix(got, tt.color) || !strings.HasSuffix(got, ansiReset) {
			t.Errorf("cost(%v) = %q", tt.usd, got)
		}
	}
}

func TestColorDisabledEmitsNoEscapes(t *testing.T) {
	if got := plainRenderer().Render(fullStatus()); strings.Contains(got, "\033[") {
		t.Fatalf("unexpected escape codes in %q", got)
	}
	colored := (&Renderer{Color: true, CostThreshold: 0.5}).Render(fullStatus())
	if !strings.HasPrefix(colored, ansiOrange+"Sonnet 4.5"+ansiReset) {
		t.Fatalf("model should be orange: %q", colored)
	}
}

func TestPrecipText(t *testing.T) {
	tests := []struct {
		name string
		in   domain.PrecipOutlook
		want string
	}{
		{"unknown", domain.PrecipOutlook{ChangeInMinutes: -1}, "--"},
		{"summary wins", domain.PrecipOutlook{Summary: "未来两小时无降水", Known: true, ChangeInMinutes: 10}, "未来两小时无降水"},
		{"rain stops", domain.PrecipOutlook{Known: true, Raining: true, ChangeInMinutes: 25}, "25分钟后雨停"},
		{"rain continues", domain.PrecipOutlook{Known: true, Raining: true, ChangeInMinutes: -1}, "未来2小时持续降水"},
		{"rain starts", domain.PrecipOutlook{Known: true, ChangeInMinutes: 0}, "0分钟后下雨"},
		{"dry", domain.PrecipOutlook{Known: true, ChangeInMinutes: -1}, "2小时内无降水"},
	}
	for _, tt := range tests {
		if got := precipText(tt.in); got != tt.want {
			t.Errorf("%s: precipText() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDailyTextSameSky(t *testing.T) {
	d := &domain.DailyForecast{TempMin: "1", TempMax: "9", TextDay: "晴", TextNight: "晴", WindDir: "西风", WindSpeed: "3"}
	if got := dailyText(d); got != "明日 1~9°C 晴 | 西风 3km/h" {
		t.Fatalf("dailyText() = %q", got)
	}
}

func TestMinimalLine(t *testing.T) {
	at := time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC)
	if got := MinimalLine(domain.SessionInput{Model: "Opus", WorkingDir: "/a/b"}, at); got != "Opus b | 09:05" {
		t.Fatalf("MinimalLine() = %q", got)
	}
	if got := MinimalLine(domain.SessionInput{}, at); got != "Claude . | 09:05" {
		t.Fatalf("MinimalLine() = %q", got)
	}
}

func TestControlCharactersStayOnOneLine(t *testing.T) {
	status := domain.Status{
		Session: domain.SessionInput{Model: "Opus\nX", WorkingDir: "/a/b\rc"},
		Git:     &domain.GitStatus{Branch: "feat\nfix"},
		Trend:   domain.TrendNew,
	}
	got := plainRenderer().Render(status)
	if strings.ContainsAny(got, "\r\n") {
		t.Fatalf("line break leaked into %q", got)
	}
	if !strings.HasPrefix(got, "Opus X b c | feat fix") {
		t.Fatalf("unexpected header %q", got)
	}

	at := time.Date(2024, 5, 1, 9, 5, 0, 0, time.UTC)
	minimal := MinimalLine(domain.SessionInput{Model: "Opus\nX", WorkingDir: "/a/b"}, at)
	if minimal != "Opus X b | 09:05" {
		t.Fatalf("MinimalLine() = %q", minimal)
	}
}
