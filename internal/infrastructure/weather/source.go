package weather

import (
	"context"
	"time"

	"github.com/doeshing/statusline-go/internal/domain"
	"github.com/doeshing/statusline-go/internal/pkg/logger"
	"github.com/doeshing/statusline-go/internal/ports"
)

// Source turns a site into a weather report: plan, fetch, parse.
type Source struct {
	cfg      domain.Config
	fetcher  ports.ResourceFetcher
	location *time.Location
	logger   ports.Logger
	now      func() time.Time
}

// NewSource builds a Source. The schedule timezone decides which daily entry
// counts as tomorrow.
func NewSource(cfg domain.Config, fetcher ports.ResourceFetcher, log ports.Logger) *Source {
	if log == nil {
		log = logger.Nop()
	}
	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		loc = time.Local
	}
	return &Source{cfg: cfg, fetcher: fetcher, location: loc, logger: log, now: time.Now}
}

// Report fetches every resource for s. Individual failures only blank their
// part of the report; an error means nothing could be planned.
func (w *Source) Report(ctx context.Context, s domain.Site, credential string) (domain.WeatherReport, error) {
	requests, err := Plan(w.cfg, s)
	if err != nil {
		return domain.WeatherReport{}, err
	}
	set := w.fetcher.FetchAll(ctx, credential, requests)
	tomorrow := w.now().In(w.location).AddDate(0, 0, 1)
	return BuildReport(set, tomorrow, w.logger), nil
}

var _ ports.WeatherSource = (*Source)(nil)
