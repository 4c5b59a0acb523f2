package domain

// SessionInput is the assistant's JSON context after defaults are applied.
type SessionInput struct {
	Model         string
	WorkingDir    string
	CostUSD       *float64
	DurationMS    *int64
	APIDurationMS *int64
	LinesAdded    int
	LinesRemoved  int
}

// DefaultModelName is shown when the input carries no model identity.
const DefaultModelName = "Claude"

// PerformanceClass grades the assistant's cumulative API time.
type PerformanceClass string

const (
	PerformanceUnknown  PerformanceClass = ""
	PerformanceFast     PerformanceClass = "fast"
	PerformanceModerate PerformanceClass = "moderate"
	PerformanceSlow     PerformanceClass = "slow"
)

// Performance grades APIDurationMS against the fast/moderate thresholds.
func (s SessionInput) Performance() PerformanceClass {
	if s.APIDurationMS == nil {
		return PerformanceUnknown
	}
	switch ms := *s.APIDurationMS; {
	case ms < PerfFastMS:
		return PerformanceFast
	case ms < PerfModerateMS:
		return PerformanceModerate
	default:
		return PerformanceSlow
	}
}

// GitStatus captures the branch and dirty bit of the working directory.
type GitStatus struct {
	Branch string
	Dirty  bool
}

// WeatherStatus is the resolved weather segment for one invocation.
type WeatherStatus struct {
	Site          SiteDecision
	Report        WeatherReport
	Authenticated bool
}

// Status is everything the renderer turns into one line.
type Status struct {
	Session SessionInput
	Git     *GitStatus
	Trend   Trend
	Weather *WeatherStatus
}
