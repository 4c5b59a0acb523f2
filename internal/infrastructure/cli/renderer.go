package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/doeshing/statusline-go/internal/domain"
	"github.com/doeshing/statusline-go/internal/infrastructure/session"
)

const placeholder = "--"

// ANSI escapes used by the status line.
const (
	ansiOrange = "\033[38;5;208m"
	ansiDim    = "\033[2m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
	ansiReset  = "\033[0m"
)

// Renderer turns a status into the single line printed on stdout.
type Renderer struct {
	Color         bool
	CostThreshold float64
}

// NewRenderer builds a renderer from display settings.
func NewRenderer(cfg domain.Config) *Renderer {
	return &Renderer{Color: !cfg.Display.NoColor, CostThreshold: cfg.CostThreshold()}
}

func (r *Renderer) paint(color, text string) string {
	if !r.Color || text == "" {
		return text
	}
	return color + text + ansiReset
}

// Render builds the full line: session header, then the weather segment when
// one was produced.
func (r *Renderer) Render(status domain.Status) string {
	parts := []string{r.header(status)}
	if stats := r.activity(status); stats != "" {
		parts = append(parts, stats)
	}
	if status.Weather != nil {
		parts = append(parts, r.weather(status.Weather))
	}
	return strings.Join(parts, " | ")
}

func (r *Renderer) header(status domain.Status) string {
	in := status.Session
	line := r.paint(ansiOrange, singleLine(in.Model)) + " " + r.paint(ansiDim, displayDir(in.WorkingDir))
	if g := status.Git; g != nil && g.Branch != "" {
		branch := singleLine(g.Branch)
		if g.Dirty {
			branch += "*"
		}
		line += " | " + branch
	}
	return line
}

func (r *Renderer) activity(status domain.Status) string {
	in := status.Session
	var parts []string
	if in.LinesAdded > 0 || in.LinesRemoved > 0 || status.Trend != domain.TrendNew {
		parts = append(parts, fmt.Sprintf("+%d/-%d%s", in.LinesAdded, in.LinesRemoved, trendMarker(status.Trend)))
	}
	if in.CostUSD != nil {
		parts = append(parts, r.cost(*in.CostUSD))
	}
	if in.DurationMS != nil {
		parts = append(parts, r.duration(in))
	}
	return strings.Join(parts, " ")
}

func trendMarker(t domain.Trend) string {
	switch t {
	case domain.TrendUp:
		return " ↗"
	case domain.TrendDown:
		return " ↘"
	case domain.TrendFlat:
		return " →"
	default:
		return " (new)"
	}
}

// cost is green under half the threshold, yellow below it, red at or above.
func (r *Renderer) cost(usd float64) string {
	text := fmt.Sprintf("$%.2f", usd)
	switch {
	case usd >= r.CostThreshold:
		return r.paint(ansiRed, text)
	case usd >= r.CostThreshold/2:
		return r.paint(ansiYellow, text)
	default:
		return r.paint(ansiGreen, text)
	}
}

func (r *Renderer) duration(in domain.SessionInput) string {
	text := session.FormatDuration(*in.DurationMS)
	switch in.Performance() {
	case domain.PerformanceFast:
		return r.paint(ansiGreen, text)
	case domain.PerformanceModerate:
		return r.paint(ansiYellow, text)
	case domain.PerformanceSlow:
		return r.paint(ansiRed, text)
	default:
		return text
	}
}

func (r *Renderer) weather(w *domain.WeatherStatus) string {
	report := w.Report
	now := report.Now
	if now == nil {
		now = &domain.CurrentWeather{}
	}
	line := fmt.Sprintf("%s | %s°C（体感%s°） %s | %s %skm/h | %s%s | %s",
		w.Site.Site.DisplayName(),
		orPlaceholder(now.Temp),
		orPlaceholder(now.FeelsLike),
		orPlaceholder(now.Text),
		orPlaceholder(now.WindDir),
		orPlaceholder(now.WindSpeed),
		precipText(report.Minutely),
		aqiText(report.AirQuality),
		dailyText(report.Tomorrow),
	)
	if !w.Authenticated {
		line += " | Auth?"
	}
	return line
}

func precipText(p domain.PrecipOutlook) string {
	switch {
	case p.Summary != "":
		return p.Summary
	case !p.Known:
		return placeholder
	case p.Raining && p.ChangeInMinutes >= 0:
		return fmt.Sprintf("%d分钟后雨停", p.ChangeInMinutes)
	case p.Raining:
		return "未来2小时持续降水"
	case p.ChangeInMinutes >= 0:
		return fmt.Sprintf("%d分钟后下雨", p.ChangeInMinutes)
	default:
		return "2小时内无降水"
	}
}

func aqiText(a *domain.AirQuality) string {
	if a == nil {
		return ""
	}
	return strings.TrimRight(fmt.Sprintf(" | AQI %s %s", orPlaceholder(a.AQI), a.Category), " ")
}

func dailyText(d *domain.DailyForecast) string {
	if d == nil {
		return placeholder
	}
	sky := orPlaceholder(d.TextDay)
	if d.TextNight != "" && d.TextNight != d.TextDay {
		sky += "转" + d.TextNight
	}
	text := fmt.Sprintf("明日 %s~%s°C %s | %s %skm/h",
		orPlaceholder(d.TempMin), orPlaceholder(d.TempMax), sky,
		orPlaceholder(d.WindDir), orPlaceholder(d.WindSpeed))
	if d.Precip > 0 {
		text += " | 降水" + strconv.FormatFloat(d.Precip, 'f', -1, 64) + "mm"
	}
	return text
}

func orPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}

func displayDir(dir string) string {
	if dir == "" || dir == "." {
		return "."
	}
	return singleLine(filepath.Base(filepath.Clean(dir)))
}

// singleLine replaces control characters so input text cannot break the line.
func singleLine(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

// MinimalLine is printed when the status cannot be assembled.
func MinimalLine(in domain.SessionInput, now time.Time) string {
	model := in.Model
	if model == "" {
		model = domain.DefaultModelName
	}
	return fmt.Sprintf("%s %s | %s", singleLine(model), displayDir(in.WorkingDir), now.Format("15:04"))
}
