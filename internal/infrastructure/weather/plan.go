package weather

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/doeshing/statusline-go/internal/domain"
)

// DefaultDomesticRegion is where the domestic air-quality endpoint applies.
var DefaultDomesticRegion = domain.BoundingBox{MinLon: 100, MaxLon: 125, MinLat: 25, MaxLat: 45}

const defaultLang = "zh"

// Plan lists the requests for one site. The air-quality source is chosen
// here, once, from the site's coordinates.
func Plan(cfg domain.Config, s domain.Site) ([]domain.ResourceRequest, error) {
	host := strings.TrimRight(strings.TrimSpace(cfg.API.Host), "/")
	if host == "" {
		return nil, errors.New("api host is not configured")
	}
	lang := cfg.API.Lang
	if lang == "" {
		lang = defaultLang
	}
	loc := s.Location()

	urls := map[domain.ResourceKind]string{
		domain.ResourceNow:      fmt.Sprintf("%s/v7/weather/now?location=%s&lang=%s&unit=m", host, loc, lang),
		domain.ResourceMinutely: fmt.Sprintf("%s/v7/minutely/5m?location=%s&lang=%s", host, loc, lang),
		domain.ResourceDaily:    fmt.Sprintf("%s/v7/weather/3d?location=%s&lang=%s&unit=m", host, loc, lang),
		domain.ResourceAQI:      aqiURL(host, lang, s, Region(cfg)),
	}

	order := []domain.ResourceKind{domain.ResourceNow, domain.ResourceMinutely, domain.ResourceDaily, domain.ResourceAQI}
	requests := make([]domain.ResourceRequest, 0, len(order))
	for _, kind := range order {
		ttl, err := cfg.ResourceTTL(kind)
		if err != nil {
			return nil, err
		}
		requests = append(requests, domain.ResourceRequest{
			Key:      kind,
			CacheKey: strings.ToLower(s.Name) + "/" + string(kind),
			URL:      urls[kind],
			TTL:      ttl,
		})
	}
	return requests, nil
}

// Region returns the configured domestic bounding box or the default.
func Region(cfg domain.Config) domain.BoundingBox {
	if cfg.API.DomesticRegion == (domain.BoundingBox{}) {
		return DefaultDomesticRegion
	}
	return cfg.API.DomesticRegion
}

// AQISourceFor reports which air-quality source serves a site.
func AQISourceFor(s domain.Site, region domain.BoundingBox) domain.AQISource {
	if region.Contains(s.Longitude, s.Latitude) {
		return domain.AQISourceDomestic
	}
	return domain.AQISourceGlobal
}

func aqiURL(host, lang string, s domain.Site, region domain.BoundingBox) string {
	if AQISourceFor(s, region) == domain.AQISourceDomestic {
		return fmt.Sprintf("%s/v7/air/now?location=%s&lang=%s", host, s.Location(), lang)
	}
	lat := strconv.FormatFloat(s.Latitude, 'f', 2, 64)
	lon := strconv.FormatFloat(s.Longitude, 'f', 2, 64)
	return fmt.Sprintf("%s/airquality/v1/current/%s/%s?lang=%s", host, lat, lon, lang)
}
