package config

import (
	"strconv"
	"strings"

	"github.com/doeshing/statusline-go/internal/domain"
)

// Environment variables understood by the overlay.
const (
	EnvAPIHost       = "QWEATHER_API_HOST"
	EnvKeyID         = "QWEATHER_KEY_ID"
	EnvProjectID     = "QWEATHER_PROJECT_ID"
	EnvPrivateKey    = "QWEATHER_PRIVATE_KEY"
	EnvStaticToken   = "QWEATHER_JWT"
	EnvTokenTTL      = "QWEATHER_JWT_TTL_SEC"
	EnvSigner        = "QWEATHER_SIGNER"
	EnvTTLNow        = "QWEATHER_TTL_NOW_SEC"
	EnvTTLMinutely   = "QWEATHER_TTL_MIN_SEC"
	EnvTTLAQI        = "QWEATHER_TTL_AQI_SEC"
	EnvTTLDaily      = "QWEATHER_TTL_DAILY_SEC"
	EnvTimezone      = "STATUSLINE_TZ"
	EnvWorkStart     = "WORK_START"
	EnvWorkEnd       = "WORK_END"
	EnvWorkDays      = "WORK_DAYS"
	EnvSite          = "STATUSLINE_SITE"
	EnvToggleFile    = "STATUSLINE_SITE_TOGGLE_FILE"
	EnvLogLevel      = "STATUSLINE_LOG_LEVEL"
	EnvDebug         = "STATUSLINE_DEBUG"
	EnvCostThreshold = "STATUSLINE_COST_THRESHOLD"
	EnvHistory       = "STATUSLINE_HISTORY"
	EnvNoColor       = "NO_COLOR"
)

// applyEnv overlays environment values on cfg. Values that fail to parse keep
// whatever the file or the defaults provided.
func applyEnv(cfg *domain.Config, lookup func(string) (string, bool)) {
	getenv := func(name string) string {
		v, _ := lookup(name)
		return v
	}
	str := func(name string, dst *string) {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v, err := strconv.Atoi(strings.TrimSpace(getenv(name))); err == nil {
			*dst = v
		}
	}

	str(EnvAPIHost, &cfg.API.Host)
	str(EnvKeyID, &cfg.Auth.KeyID)
	str(EnvProjectID, &cfg.Auth.ProjectID)
	str(EnvPrivateKey, &cfg.Auth.PrivateKeyPath)
	str(EnvStaticToken, &cfg.Auth.StaticToken)
	num(EnvTokenTTL, &cfg.Auth.TTLSeconds)
	str(EnvSigner, &cfg.Auth.Signer)

	num(EnvTTLNow, &cfg.Cache.NowTTLSeconds)
	num(EnvTTLMinutely, &cfg.Cache.MinutelyTTLSeconds)
	num(EnvTTLAQI, &cfg.Cache.AQITTLSeconds)
	num(EnvTTLDaily, &cfg.Cache.DailyTTLSeconds)

	str(EnvTimezone, &cfg.Schedule.Timezone)
	num(EnvWorkStart, &cfg.Schedule.WorkStart)
	num(EnvWorkEnd, &cfg.Schedule.WorkEnd)
	str(EnvWorkDays, &cfg.Schedule.WorkDays)
	str(EnvSite, &cfg.Schedule.Override)
	str(EnvToggleFile, &cfg.Schedule.ToggleFile)

	str(EnvLogLevel, &cfg.Logging.Level)
	if getenv(EnvDebug) == "1" {
		cfg.Logging.Debug = true
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(getenv(EnvCostThreshold)), 64); err == nil && v >= 0 {
		cfg.Display.CostThreshold = v
	}
	if v, err := strconv.ParseBool(strings.TrimSpace(getenv(EnvHistory))); err == nil {
		cfg.History.Enabled = v
	}
	// Presence alone disables color, whatever the value.
	if _, set := lookup(EnvNoColor); set {
		cfg.Display.NoColor = true
	}
}
