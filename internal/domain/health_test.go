package domain_test

import (
	"testing"

	"github.com/doeshing/statusline-go/internal/domain"
)

func TestHealthReport_Count(t *testing.T) {
	report := domain.HealthReport{Checks: []domain.HealthCheck{
		{Name: "Config file", Status: domain.HealthOK},
		{Name: "Weather API", Status: domain.HealthWarn},
		{Name: "Credential", Status: domain.HealthWarn},
		{Name: "Timezone", Status: domain.HealthError},
	}}

	if got := report.Count(domain.HealthWarn); got != 2 {
		t.Errorf("warnings = %d, want 2", got)
	}
	if got := report.Count(domain.HealthError); got != 1 {
		t.Errorf("errors = %d, want 1", got)
	}
	if report.Healthy() {
		t.Error("report with a failed check should not be healthy")
	}
}

func TestHealthReport_HealthyIgnoresWarnings(t *testing.T) {
	report := domain.HealthReport{Checks: []domain.HealthCheck{
		{Name: "Config file", Status: domain.HealthOK},
		{Name: "Weather API", Status: domain.HealthWarn},
	}}
	if !report.Healthy() {
		t.Fatal("warnings alone should keep the report healthy")
	}
	if !(domain.HealthReport{}).Healthy() {
		t.Fatal("empty report should be healthy")
	}
}
