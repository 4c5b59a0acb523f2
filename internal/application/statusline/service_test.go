package statusline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/doeshing/statusline-go/internal/domain"
	"github.com/doeshing/statusline-go/internal/pkg/logger"
	"github.com/doeshing/statusline-go/internal/ports"
)

type stubGit struct{ status *domain.GitStatus }

func (s stubGit) Inspect(context.Context, string) *domain.GitStatus { return s.status }

type stubTracker struct {
	trend          domain.Trend
	added, removed int
}

func (s *stubTracker) ComputeAndRecord(added, removed int) domain.Trend {
	s.added, s.removed = added, removed
	return s.trend
}

type stubResolver struct{ last domain.SiteInput }

func (s *stubResolver) Resolve(in domain.SiteInput) domain.SiteDecision {
	s.last = in
	return domain.SiteDecision{Site: domain.Site{Name: "xihu"}, Reason: domain.SiteReasonToggle}
}

type stubTokens struct{ token string }

func (s stubTokens) Token(context.Context) string { return s.token }
func (s stubTokens) State() domain.CredentialState {
	if s.token == "" {
		return domain.CredentialNone
	}
	return domain.CredentialStatic
}

type stubWeather struct {
	credential string
	err        error
	calls      int
}

func (s *stubWeather) Report(_ context.Context, _ domain.Site, credential string) (domain.WeatherReport, error) {
	s.calls++
	s.credential = credential
	if s.err != nil {
		return domain.WeatherReport{}, s.err
	}
	return domain.WeatherReport{Now: &domain.CurrentWeather{Temp: "21", Text: "晴"}}, nil
}

type stubHistory struct{ saved []domain.SessionRecord }

func (s *stubHistory) Save(r domain.SessionRecord) error { s.saved = append(s.saved, r); return nil }
func (s *stubHistory) Records(int) ([]domain.SessionRecord, error) {
	return s.saved, nil
}
func (s *stubHistory) Clear() error { s.saved = nil; return nil }
func (s *stubHistory) Path() string { return "memory" }

func newService(tracker *stubTracker, resolver *stubResolver, weather *stubWeather) *Service {
	cfg := domain.Config{API: domain.APISettings{Host: "https://api.example.com"}}
	cfg.Schedule.Override = "xiasha"
	return &Service{
		Config:  cfg,
		Git:     stubGit{status: &domain.GitStatus{Branch: "main", Dirty: true}},
		Trends:  func(string) ports.TrendTracker { return tracker },
		Sites:   resolver,
		Toggle:  func() string { return "xihu" },
		Tokens:  stubTokens{token: "tok"},
		Weather: weather,
		Logger:  logger.Nop(),
		Now:     func() time.Time { return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) },
	}
}

func TestRunAssemblesStatus(t *testing.T) {
	tracker := &stubTracker{trend: domain.TrendUp}
	resolver := &stubResolver{}
	weather := &stubWeather{}
	history := &stubHistory{}
	svc := newService(tracker, resolver, weather)
	svc.History = history

	cost := 0.42
	in := domain.SessionInput{Model: "Opus", WorkingDir: "/work", CostUSD: &cost, LinesAdded: 12, LinesRemoved: 3}
	status, err := svc.Run(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if status.Git == nil || status.Git.Branch != "main" || !status.Git.Dirty {
		t.Fatalf("git = %+v", status.Git)
	}
	if status.Trend != domain.TrendUp || tracker.added != 12 || tracker.removed != 3 {
		t.Fatalf("trend = %s, tracker = %+v", status.Trend, tracker)
	}
	if resolver.last.Override != "xiasha" || resolver.last.Toggle != "xihu" || resolver.last.Now.IsZero() {
		t.Fatalf("resolver input = %+v", resolver.last)
	}
	if status.Weather == nil || !status.Weather.Authenticated || weather.credential != "tok" {
		t.Fatalf("weather = %+v", status.Weather)
	}
	if status.Weather.Report.Now == nil || status.Weather.Report.Now.Temp != "21" {
		t.Fatalf("report = %+v", status.Weather.Report)
	}
	if len(history.saved) != 1 {
		t.Fatalf("history saved %d records", len(history.saved))
	}
	rec := history.saved[0]
	if rec.CostUSD != 0.42 || rec.Site != "xihu" || rec.Trend != domain.TrendUp || rec.Model != "Opus" {
		t.Fatalf("record = %+v", rec)
	}
}

func TestRunWithoutHostSkipsWeather(t *testing.T) {
	weather := &stubWeather{}
	svc := newService(&stubTracker{trend: domain.TrendFlat}, &stubResolver{}, weather)
	svc.Config.API.Host = ""

	status, err := svc.Run(context.Background(), domain.SessionInput{Model: "Claude", WorkingDir: "."})
	if err != nil {
		t.Fatal(err)
	}
	if status.Weather != nil || weather.calls != 0 {
		t.Fatalf("weather should be skipped, got %+v (calls=%d)", status.Weather, weather.calls)
	}
}

func TestRunWithoutCredentialStillReports(t *testing.T) {
	weather := &stubWeather{}
	svc := newService(&stubTracker{}, &stubResolver{}, weather)
	svc.Tokens = stubTokens{}

	status, _ := svc.Run(context.Background(), domain.SessionInput{})
	if status.Weather == nil || status.Weather.Authenticated {
		t.Fatalf("expected unauthenticated weather, got %+v", status.Weather)
	}
	if weather.credential != "" {
		t.Fatalf("credential = %q", weather.credential)
	}
}

func TestRunWeatherFailureDegrades(t *testing.T) {
	svc := newService(&stubTracker{trend: domain.TrendDown}, &stubResolver{}, &stubWeather{err: errors.New("no host")})
	status, err := svc.Run(context.Background(), domain.SessionInput{WorkingDir: "/w"})
	if err != nil {
		t.Fatal(err)
	}
	if status.Weather != nil {
		t.Fatalf("weather should be omitted, got %+v", status.Weather)
	}
	if status.Trend != domain.TrendDown || status.Git == nil {
		t.Fatalf("other parts should survive: %+v", status)
	}
}

func TestRunOptionalCollaborators(t *testing.T) {
	svc := &Service{Logger: logger.Nop()}
	status, err := svc.Run(context.Background(), domain.SessionInput{Model: "Claude"})
	if err != nil {
		t.Fatal(err)
	}
	if status.Trend != domain.TrendNew || status.Git != nil || status.Weather != nil {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestRunRequiresLogger(t *testing.T) {
	if _, err := (&Service{}).Run(context.Background(), domain.SessionInput{}); err == nil {
		t.Fatal("expected dependency error")
	}
}
