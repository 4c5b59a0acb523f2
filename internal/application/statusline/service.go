package statusline

import (
	"context"
	"errors"
	"time"

	"github.com/doeshing/statusline-go/internal/domain"
	"github.com/doeshing/statusline-go/internal/ports"
)

// Service assembles everything one status line shows. Each collaborator is
// optional except the logger; a missing or failing part is left out of the
// result rather than failing the whole line.
type Service struct {
	Config  domain.Config
	Git     ports.GitInspector
	Trends  ports.TrendTrackerFactory
	Sites   ports.SiteResolver
	Toggle  func() string
	Tokens  ports.TokenProvider
	Weather ports.WeatherSource
	History ports.HistoryRepository
	Logger  ports.Logger
	Now     func() time.Time
}

// Run builds the status for one invocation.
func (s *Service) Run(ctx context.Context, in domain.SessionInput) (domain.Status, error) {
	if s.Logger == nil {
		return domain.Status{}, errors.New("statusline.Service dependencies not satisfied")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	status := domain.Status{Session: in, Trend: domain.TrendNew}

	if s.Git != nil {
		status.Git = s.Git.Inspect(ctx, in.WorkingDir)
	}
	if s.Trends != nil {
		if tracker := s.Trends(in.WorkingDir); tracker != nil {
			status.Trend = tracker.ComputeAndRecord(in.LinesAdded, in.LinesRemoved)
		}
	}
	status.Weather = s.weather(ctx, now())

	s.record(status, now())
	return status, nil
}

func (s *Service) weather(ctx context.Context, now time.Time) *domain.WeatherStatus {
	if !s.Config.WeatherEnabled() || s.Sites == nil || s.Weather == nil {
		return nil
	}
	input := domain.SiteInput{Override: s.Config.Schedule.Override, Now: now}
	if s.Toggle != nil {
		input.Toggle = s.Toggle()
	}
	decision := s.Sites.Resolve(input)

	var credential string
	if s.Tokens != nil {
		credential = s.Tokens.Token(ctx)
	}
	report, err := s.Weather.Report(ctx, decision.Site, credential)
	if err != nil {
		s.Logger.Warn("weather unavailable", map[string]interface{}{
			"site":  decision.Site.Name,
			"error": err.Error(),
		})
		return nil
	}
	s.Logger.Debug("site resolved", map[string]interface{}{
		"site":   decision.Site.Name,
		"reason": string(decision.Reason),
	})
	return &domain.WeatherStatus{
		Site:          decision,
		Report:        report,
		Authenticated: credential != "",
	}
}

func (s *Service) record(status domain.Status, now time.Time) {
	if s.History == nil {
		return
	}
	rec := domain.SessionRecord{
		Timestamp:    now,
		WorkingDir:   status.Session.WorkingDir,
		Model:        status.Session.Model,
		LinesAdded:   status.Session.LinesAdded,
		LinesRemoved: status.Session.LinesRemoved,
		Trend:        status.Trend,
	}
	if status.Session.CostUSD != nil {
		rec.CostUSD = *status.Session.CostUSD
	}
	if status.Weather != nil {
		rec.Site = status.Weather.Site.Site.Name
	}
	if err := s.History.Save(rec); err != nil {
		s.Logger.Warn("history save failed", map[string]interface{}{"error": err.Error()})
	}
}
