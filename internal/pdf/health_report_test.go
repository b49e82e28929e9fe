package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/dong279/mumu-express/internal/models"
)

func TestRenderHealthReport(t *testing.T) {
	report := &models.HealthReport{
		PetName:     "Mongshil",
		ReportType:  "weekly",
		PeriodStart: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC),
		Summary:     "Appetite and activity look normal.",
		CreatedAt:   time.Date(2026, 8, 8, 10, 0, 0, 0, time.UTC),
	}
	counts := map[string]int{"behavior": 3, "sound": 1}

	data, err := RenderHealthReport(report, counts)
	if err != nil {
		t.Fatalf("RenderHealthReport() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF, first bytes: %q", data[:8])
	}
	if len(data) < 500 {
		t.Errorf("PDF suspiciously small: %d bytes", len(data))
	}
}

func TestRenderHealthReportWithoutSummary(t *testing.T) {
	report := &models.HealthReport{
		PetName:     "Bori",
		ReportType:  "monthly",
		PeriodStart: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Now(),
	}

	data, err := RenderHealthReport(report, nil)
	if err != nil {
		t.Fatalf("RenderHealthReport() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output does not look like a PDF")
	}
}
