package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/doeshing/statusline-go/internal/domain"
)

// maxInputBytes bounds what is read from stdin.
const maxInputBytes = 1 << 20

type payload struct {
	Model *struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"model"`
	Workspace *struct {
		CurrentDir string `json:"current_dir"`
	} `json:"workspace"`
	Cwd  string `json:"cwd"`
	Cost *struct {
		TotalCostUSD       *float64 `json:"total_cost_usd"`
		TotalDurationMS    *float64 `json:"total_duration_ms"`
		TotalAPIDurationMS *float64 `json:"total_api_duration_ms"`
		TotalLinesAdded    float64  `json:"total_lines_added"`
		TotalLinesRemoved  float64  `json:"total_lines_removed"`
	} `json:"cost"`
}

// Defaults is the input used when nothing usable arrives on stdin.
func Defaults() domain.SessionInput {
	return domain.SessionInput{Model: domain.DefaultModelName, WorkingDir: "."}
}

// Parse reads the assistant's JSON context. Missing fields keep their
// defaults; on malformed input the defaults are returned with the error.
func Parse(r io.Reader) (domain.SessionInput, error) {
	in := Defaults()
	if r == nil {
		return in, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, maxInputBytes))
	if err != nil {
		return in, fmt.Errorf("read session input: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return in, nil
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return in, fmt.Errorf("decode session input: %w", err)
	}

	if p.Model != nil {
		switch {
		case strings.TrimSpace(p.Model.DisplayName) != "":
			in.Model = strings.TrimSpace(p.Model.DisplayName)
		case strings.TrimSpace(p.Model.ID) != "":
			in.Model = strings.TrimSpace(p.Model.ID)
		}
	}
	switch {
	case p.Workspace != nil && p.Workspace.CurrentDir != "":
		in.WorkingDir = p.Workspace.CurrentDir
	case p.Cwd != "":
		in.WorkingDir = p.Cwd
	}
	if c := p.Cost; c != nil {
		in.CostUSD = c.TotalCostUSD
		in.DurationMS = toMillis(c.TotalDurationMS)
		in.APIDurationMS = toMillis(c.TotalAPIDurationMS)
		in.LinesAdded = nonNegative(c.TotalLinesAdded)
		in.LinesRemoved = nonNegative(c.TotalLinesRemoved)
	}
	return in, nil
}

func toMillis(v *float64) *int64 {
	if v == nil {
		return nil
	}
	ms := int64(*v)
	if ms < 0 {
		ms = 0
	}
	return &ms
}

func nonNegative(v float64) int {
	if v < 0 {
		return 0
	}
	return int(v)
}

// FormatDuration renders a session length: "45s", "5m" or "1h05m".
func FormatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d/time.Second))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	default:
		return fmt.Sprintf("%dh%02dm", int(d/time.Hour), int(d%time.Hour/time.Minute))
	}
}
