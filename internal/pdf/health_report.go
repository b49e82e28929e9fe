package pdf

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf"

	"github.com/dong279/mumu-express/internal/models"
)

// RenderHealthReport собирает одностраничный PDF со сводкой отчёта
// и количеством анализов за период.
func RenderHealthReport(report *models.HealthReport, analysisCounts map[string]int) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Arial", "B", 18)
	doc.Cell(0, 12, "Pet Health Report")
	doc.Ln(16)

	doc.SetFont("Arial", "", 12)
	doc.Cell(0, 8, fmt.Sprintf("Pet: %s", report.PetName))
	doc.Ln(8)
	doc.Cell(0, 8, fmt.Sprintf("Report type: %s", report.ReportType))
	doc.Ln(8)
	doc.Cell(0, 8, fmt.Sprintf("Period: %s - %s",
		report.PeriodStart.Format("2006-01-02"), report.PeriodEnd.Format("2006-01-02")))
	doc.Ln(12)

	doc.SetFont("Arial", "B", 14)
	doc.Cell(0, 10, "Completed analyses")
	doc.Ln(10)

	doc.SetFont("Arial", "", 12)
	kinds := make([]string, 0, len(analysisCounts))
	for kind := range analysisCounts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		doc.Cell(60, 8, kind)
		doc.Cell(0, 8, fmt.Sprintf("%d", analysisCounts[kind]))
		doc.Ln(8)
	}
	doc.Ln(6)

	if report.Summary != "" {
		doc.SetFont("Arial", "B", 14)
		doc.Cell(0, 10, "Summary")
		doc.Ln(10)
		doc.SetFont("Arial", "", 12)
		doc.MultiCell(0, 6, report.Summary, "", "L", false)
	}

	doc.SetY(-20)
	doc.SetFont("Arial", "I", 9)
	doc.Cell(0, 8, fmt.Sprintf("Generated %s by mumu", report.CreatedAt.Format("2006-01-02 15:04")))

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render health report pdf: %w", err)
	}
	return buf.Bytes(), nil
}
