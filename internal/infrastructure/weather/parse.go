package weather

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/statusline-go/internal/domain"
	"github.com/doeshing/statusline-go/internal/ports"
)

// ErrNoData means the payload parsed but carried nothing usable.
var ErrNoData = errors.New("no data in payload")

// value accepts a JSON string or number; the API is not consistent.
type value string

func (v *value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = value(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = value(n.String())
	return nil
}

func (v value) float() float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
	if err != nil {
		return 0
	}
	return f
}

// ParseNow reads the observed-conditions payload.
func ParseNow(payload []byte) (*domain.CurrentWeather, error) {
	var doc struct {
		Now *struct {
			Temp      value  `json:"temp"`
			FeelsLike value  `json:"feelsLike"`
			Text      string `json:"text"`
			WindDir   string `json:"windDir"`
			WindSpeed value  `json:"windSpeed"`
		} `json:"now"`
	}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, err
	}
	if doc.Now == nil {
		return nil, ErrNoData
	}
	return &domain.CurrentWeather{
		Temp:      string(doc.Now.Temp),
		FeelsLike: string(doc.Now.FeelsLike),
		Text:      doc.Now.Text,
		WindDir:   doc.Now.WindDir,
		WindSpeed: string(doc.Now.WindSpeed),
	}, nil
}

// minutelyStep is the spacing of the minutely forecast.
const minutelyStep = 5

// ParseMinutely summarizes the precipitation outlook. The API summary is
// kept when present; the first transition is derived from the series.
func ParseMinutely(payload []byte) (domain.PrecipOutlook, error) {
	out := domain.PrecipOutlook{ChangeInMinutes: -1}
	var doc struct {
		Summary  string `json:"summary"`
		Minutely []struct {
			Precip value `json:"precip"`
		} `json:"minutely"`
	}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return out, err
	}
	out.Summary = strings.TrimSpace(doc.Summary)
	if len(doc.Minutely) == 0 {
		if out.Summary == "" {
			return out, ErrNoData
		}
		out.Known = true
		return out, nil
	}

	out.Known = true
	out.Raining = doc.Minutely[0].Precip.float() > 0
	for i, m := range doc.Minutely {
		if (m.Precip.float() > 0) != out.Raining {
			out.ChangeInMinutes = i * minutelyStep
			break
		}
	}
	return out, nil
}

// ParseDaily returns the forecast entry dated day (compared as YYYY-MM-DD).
func ParseDaily(payload []byte, day time.Time) (*domain.DailyForecast, error) {
	var doc struct {
		Daily []struct {
			FxDate       string `json:"fxDate"`
			TempMin      value  `json:"tempMin"`
			TempMax      value  `json:"tempMax"`
			TextDay      string `json:"textDay"`
			TextNight    string `json:"textNight"`
			WindDirDay   string `json:"windDirDay"`
			WindSpeedDay value  `json:"windSpeedDay"`
			Precip       value  `json:"precip"`
		} `json:"daily"`
	}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, err
	}
	want := day.Format("2006-01-02")
	for _, d := range doc.Daily {
		if d.FxDate != want {
			continue
		}
		return &domain.DailyForecast{
			Date:      d.FxDate,
			TempMin:   string(d.TempMin),
			TempMax:   string(d.TempMax),
			TextDay:   d.TextDay,
			TextNight: d.TextNight,
			WindDir:   d.WindDirDay,
			WindSpeed: string(d.WindSpeedDay),
			Precip:    d.Precip.float(),
		}, nil
	}
	return nil, ErrNoData
}

// domesticAQI is the /v7/air/now shape.
type domesticAQI struct {
	Now *struct {
		AQI      value  `json:"aqi"`
		Category string `json:"category"`
	} `json:"now"`
}

// globalAQI is the /airquality/v1 shape.
type globalAQI struct {
	Indexes []struct {
		Code       string `json:"code"`
		AQIDisplay value  `json:"aqiDisplay"`
		Category   string `json:"category"`
	} `json:"indexes"`
}

var preferredIndexes = []string{"cn-mee", "cn-mee-1h"}

// ParseAQI tries each accepted shape in a fixed order: the domestic "now"
// object, then the global "indexes" list (preferring the Chinese MEE scale,
// otherwise the first index).
func ParseAQI(payload []byte) (*domain.AirQuality, error) {
	var domestic domesticAQI
	if err := json.Unmarshal(payload, &domestic); err != nil {
		return nil, err
	}
	if domestic.Now != nil && domestic.Now.AQI != "" {
		return &domain.AirQuality{
			AQI:      string(domestic.Now.AQI),
			Category: domestic.Now.Category,
			Source:   domain.AQISourceDomestic,
		}, nil
	}

	var global globalAQI
	if err := json.Unmarshal(payload, &global); err != nil {
		return nil, err
	}
	if len(global.Indexes) == 0 {
		return nil, ErrNoData
	}
	chosen := global.Indexes[0]
	for _, code := range preferredIndexes {
		found := false
		for _, idx := range global.Indexes {
			if idx.Code == code {
				chosen, found = idx, true
				break
			}
		}
		if found {
			break
		}
	}
	return &domain.AirQuality{
		AQI:      string(chosen.AQIDisplay),
		Category: chosen.Category,
		Source:   domain.AQISourceGlobal,
	}, nil
}

// BuildReport parses every available resource; parse failures leave that
// part of the report empty. tomorrow selects the daily entry.
func BuildReport(set domain.ResourceSet, tomorrow time.Time, log ports.Logger) domain.WeatherReport {
	report := domain.WeatherReport{Minutely: domain.PrecipOutlook{ChangeInMinutes: -1}}
	warn := func(kind domain.ResourceKind, err error) {
		if log != nil && !errors.Is(err, ErrNoData) {
			log.Warn("weather payload rejected", map[string]interface{}{"resource": string(kind), "error": err.Error()})
		}
	}

	if r, ok := set[domain.ResourceNow]; ok && r.Available() {
		if now, err := ParseNow(r.Payload); err == nil {
			report.Now = now
		} else {
			warn(domain.ResourceNow, err)
		}
	}
	if r, ok := set[domain.ResourceMinutely]; ok && r.Available() {
		if outlook, err := ParseMinutely(r.Payload); err == nil {
			report.Minutely = outlook
		} else {
			warn(domain.ResourceMinutely, err)
		}
	}
	if r, ok := set[domain.ResourceDaily]; ok && r.Available() {
		if daily, err := ParseDaily(r.Payload, tomorrow); err == nil {
			report.Tomorrow = daily
		} else {
			warn(domain.ResourceDaily, err)
		}
	}
	if r, ok := set[domain.ResourceAQI]; ok && r.Available() {
		if aqi, err := ParseAQI(r.Payload); err == nil {
			report.AirQuality = aqi
		} else {
			warn(domain.ResourceAQI, err)
		}
	}
	return report
}
