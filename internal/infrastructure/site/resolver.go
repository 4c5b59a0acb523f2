package site

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/doeshing/statusline-go/internal/domain"
	"github.com/doeshing/statusline-go/internal/pkg/filesystem"
	"github.com/doeshing/statusline-go/internal/pkg/logger"
	"github.com/doeshing/statusline-go/internal/ports"
)

// Schedule decides whether an instant falls in working time.
type Schedule struct {
	Location *time.Location
	Start    int
	End      int
	Days     Weekdays
}

// IsWork reports whether t (converted to the schedule's zone) is a workday
// inside the [Start, End) hour window.
func (s Schedule) IsWork(t time.Time) bool {
	if s.Location != nil {
		t = t.In(s.Location)
	}
	return s.Days.Contains(isoWeekday(t)) && inHours(t.Hour(), s.Start, s.End)
}

// inHours treats start > end as a window spanning midnight and start == end
// as an empty window.
func inHours(hour, start, end int) bool {
	h, s, e := mod24(hour), mod24(start), mod24(end)
	switch {
	case s == e:
		return false
	case s < e:
		return h >= s && h < e
	default:
		return h >= s || h < e
	}
}

func mod24(v int) int {
	v %= 24
	if v < 0 {
		v += 24
	}
	return v
}

func isoWeekday(t time.Time) int {
	if wd := t.Weekday(); wd != time.Sunday {
		return int(wd)
	}
	return 7
}

// Weekdays is a set of ISO weekdays (1=Monday .. 7=Sunday).
type Weekdays [8]bool

// Contains reports membership of an ISO weekday.
func (w Weekdays) Contains(day int) bool {
	return day >= 1 && day <= 7 && w[day]
}

// ParseWorkdays accepts comma-separated days and ranges such as "1-5",
// "1,3,5" or the wrapping "6-1".
func ParseWorkdays(spec string) (Weekdays, error) {
	var days Weekdays
	spec = strings.ReplaceAll(spec, " ", "")
	if spec == "" {
		return days, errors.New("workdays is empty")
	}
	for _, part := range strings.Split(spec, ",") {
		if part == "" {
			continue
		}
		from, to, isRange := strings.Cut(part, "-")
		a, err := parseDay(from)
		if err != nil {
			return days, err
		}
		if !isRange {
			days[a] = true
			continue
		}
		b, err := parseDay(to)
		if err != nil {
			return days, err
		}
		for d := a; ; d = d%7 + 1 {
			days[d] = true
			if d == b {
				break
			}
		}
	}
	return days, nil
}

// lenientWorkdays keeps every token that parses. When none does the default
// Monday to Friday set is used.
func lenientWorkdays(spec string) Weekdays {
	var days Weekdays
	found := false
	for _, part := range strings.Split(strings.ReplaceAll(spec, " ", ""), ",") {
		d, err := ParseWorkdays(part)
		if err != nil {
			continue
		}
		for i := range d {
			if d[i] {
				days[i] = true
				found = true
			}
		}
	}
	if !found {
		days, _ = ParseWorkdays(domain.DefaultWorkDays)
	}
	return days
}

func parseDay(value string) (int, error) {
	d, err := strconv.Atoi(value)
	if err != nil || d < 1 || d > 7 {
		return 0, fmt.Errorf("invalid weekday %q (want 1-7)", value)
	}
	return d, nil
}

// Resolver picks a site from override, toggle and schedule. Resolve has no
// side effects; the caller supplies the toggle contents and the clock.
type Resolver struct {
	sites    []domain.Site
	work     domain.Site
	offWork  domain.Site
	schedule Schedule
}

// NewResolver builds a resolver from cfg. Only a missing site list is an
// error; a bad timezone falls back to local time and unparsable workday
// tokens are skipped, both logged at WARN.
func NewResolver(cfg domain.Config, log ports.Logger) (*Resolver, error) {
	if len(cfg.Sites) == 0 {
		return nil, errors.New("no sites configured")
	}
	if log == nil {
		log = logger.Nop()
	}
	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		log.Warn("invalid schedule timezone; using local time", map[string]interface{}{"timezone": cfg.Schedule.Timezone, "error": err.Error()})
		loc = time.Local
	}
	days, err := ParseWorkdays(cfg.Schedule.WorkDays)
	if err != nil {
		days = lenientWorkdays(cfg.Schedule.WorkDays)
		log.Warn("invalid workdays ignored", map[string]interface{}{"work_days": cfg.Schedule.WorkDays, "error": err.Error()})
	}

	work, ok := cfg.FindSite(cfg.Schedule.WorkSite)
	if !ok {
		work = cfg.Sites[0]
	}
	offWork, ok := cfg.FindSite(cfg.Schedule.OffWorkSite)
	if !ok {
		offWork = work
		if len(cfg.Sites) > 1 {
			offWork = cfg.Sites[1]
		}
	}

	return &Resolver{
		sites:   cfg.Sites,
		work:    work,
		offWork: offWork,
		schedule: Schedule{
			Location: loc,
			Start:    cfg.Schedule.WorkStart,
			End:      cfg.Schedule.WorkEnd,
			Days:     days,
		},
	}, nil
}

// Resolve applies override, then toggle, then schedule. An unknown override
// selects the default (work) site; an unknown toggle is ignored.
func (r *Resolver) Resolve(in domain.SiteInput) domain.SiteDecision {
	if override := strings.TrimSpace(in.Override); override != "" {
		if s, ok := r.find(override); ok {
			return domain.SiteDecision{Site: s, Reason: domain.SiteReasonOverride}
		}
		return domain.SiteDecision{Site: r.work, Reason: domain.SiteReasonDefault}
	}
	if s, ok := r.find(in.Toggle); ok {
		return domain.SiteDecision{Site: s, Reason: domain.SiteReasonToggle}
	}
	if r.schedule.IsWork(in.Now) {
		return domain.SiteDecision{Site: r.work, Reason: domain.SiteReasonWork}
	}
	return domain.SiteDecision{Site: r.offWork, Reason: domain.SiteReasonOffWork}
}

func (r *Resolver) find(name string) (domain.Site, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Site{}, false
	}
	for _, s := range r.sites {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return domain.Site{}, false
}

// ReadToggle returns the trimmed toggle file contents, or "" when absent.
func ReadToggle(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(filesystem.ExpandPath(path))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// WriteToggle persists name to the toggle file; an empty name removes it.
func WriteToggle(path, name string) error {
	path = filesystem.ExpandPath(path)
	if path == "" {
		return errors.New("toggle file path is empty")
	}
	if strings.TrimSpace(name) == "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return err
	}
	return filesystem.WriteFileAtomic(path, []byte(strings.ToLower(name)+"\n"), domain.CacheFilePermissions)
}

var _ ports.SiteResolver = (*Resolver)(nil)
