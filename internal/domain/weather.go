package domain

import "time"

// ResourceKind names one weather endpoint.
type ResourceKind string

const (
	ResourceNow      ResourceKind = "now"
	ResourceMinutely ResourceKind = "minutely"
	ResourceDaily    ResourceKind = "daily"
	ResourceAQI      ResourceKind = "aqi"
)

// ResourceRequest is one (key, request, ttl) tuple handed to the fetcher.
type ResourceRequest struct {
	Key      ResourceKind
	CacheKey string
	URL      string
	TTL      time.Duration
}

// ResourceResult is either a payload or an unavailable marker.
type ResourceResult struct {
	Payload []byte
	Err     error
}

// Available reports whether a payload was obtained (fresh, fetched or stale).
func (r ResourceResult) Available() bool {
	return r.Err == nil && len(r.Payload) > 0
}

// ResourceSet maps resource keys to results.
type ResourceSet map[ResourceKind]ResourceResult

// AQISource tells which air-quality endpoint produced a reading.
type AQISource string

const (
	AQISourceDomestic AQISource = "domestic"
	AQISourceGlobal   AQISource = "global"
)

// CurrentWeather holds observed conditions. Missing fields stay empty.
type CurrentWeather struct {
	Temp      string
	FeelsLike string
	Text      string
	WindDir   string
	WindSpeed string
}

// PrecipOutlook summarizes the minutely forecast.
type PrecipOutlook struct {
	Summary string
	Raining bool
	// ChangeInMinutes is when rain starts (or stops); -1 when no change in the window.
	ChangeInMinutes int
	Known           bool
}

// DailyForecast is one day of the multi-day forecast.
type DailyForecast struct {
	Date      string
	TempMin   string
	TempMax   string
	TextDay   string
	TextNight string
	WindDir   string
	WindSpeed string
	Precip    float64
}

// AirQuality is a normalized AQI reading from either source.
type AirQuality struct {
	AQI      string
	Category string
	Source   AQISource
}

// WeatherReport is everything the renderer needs for the weather segment.
type WeatherReport struct {
	Now        *CurrentWeather
	Minutely   PrecipOutlook
	Tomorrow   *DailyForecast
	AirQuality *AirQuality
}
