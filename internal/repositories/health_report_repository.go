package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dong279/mumu-express/internal/models"
)

type HealthReportRepository interface {
	Create(hr *models.HealthReport) error
	GetByID(reportID int64, userID int) (*models.HealthReport, error)
	ListByPet(petID int64, userID, limit, offset int) ([]*models.HealthReport, error)
	CountAnalysesInPeriod(petID int64, from, to time.Time) (map[string]int, error)
}

type healthReportRepository struct {
	DB *sql.DB
}

func NewHealthReportRepository(db *sql.DB) HealthReportRepository {
	return &healthReportRepository{DB: db}
}

func (r *healthReportRepository) Create(hr *models.HealthReport) error {
	const q = `
		INSERT INTO health_reports (pet_id, user_id, report_type, period_start, period_end, summary)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING health_report_id, created_at
	`
	err := r.DB.QueryRow(q, hr.PetID, hr.UserID, hr.ReportType, hr.PeriodStart, hr.PeriodEnd, nullString(hr.Summary)).
		Scan(&hr.HealthReportID, &hr.CreatedAt)
	if err != nil {
		return fmt.Errorf("create health report: %w", err)
	}
	return nil
}

func (r *healthReportRepository) GetByID(reportID int64, userID int) (*models.HealthReport, error) {
	const q = `
		SELECT hr.health_report_id, hr.pet_id, p.name, hr.user_id, hr.report_type,
		       hr.period_start, hr.period_end, COALESCE(hr.summary, ''), hr.created_at
		FROM health_reports hr
		JOIN pets p ON p.pet_id = hr.pet_id
		WHERE hr.health_report_id = $1 AND hr.user_id = $2
	`
	hr := &models.HealthReport{}
	err := r.DB.QueryRow(q, reportID, userID).Scan(&hr.HealthReportID, &hr.PetID, &hr.PetName, &hr.UserID,
		&hr.ReportType, &hr.PeriodStart, &hr.PeriodEnd, &hr.Summary, &hr.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get health report: %w", err)
	}
	return hr, nil
}

func (r *healthReportRepository) ListByPet(petID int64, userID, limit, offset int) ([]*models.HealthReport, error) {
	const q = `
		SELECT hr.health_report_id, hr.pet_id, p.name, hr.user_id, hr.report_type,
		       hr.period_start, hr.period_end, COALESCE(hr.summary, ''), hr.created_at
		FROM health_reports hr
		JOIN pets p ON p.pet_id = hr.pet_id
		WHERE hr.pet_id = $1 AND hr.user_id = $2
		ORDER BY hr.created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.DB.Query(q, petID, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list health reports: %w", err)
	}
	defer rows.Close()

	var res []*models.HealthReport
	for rows.Next() {
		hr := &models.HealthReport{}
		if err := rows.Scan(&hr.HealthReportID, &hr.PetID, &hr.PetName, &hr.UserID,
			&hr.ReportType, &hr.PeriodStart, &hr.PeriodEnd, &hr.Summary, &hr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan health report: %w", err)
		}
		res = append(res, hr)
	}
	return res, rows.Err()
}

// CountAnalysesInPeriod — сколько завершённых анализов каждого вида попало
// в период отчёта. Используется при сборке сводки и PDF.
func (r *healthReportRepository) CountAnalysesInPeriod(petID int64, from, to time.Time) (map[string]int, error) {
	counts := make(map[string]int, len(analysisTables))
	for kind, table := range analysisTables {
		var n int
		q := `SELECT COUNT(*) FROM ` + table + `
			WHERE pet_id = $1 AND analysis_status = 'completed'
			  AND analyzed_at >= $2 AND analyzed_at < $3`
		if err := r.DB.QueryRow(q, petID, from, to).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s analyses: %w", kind, err)
		}
		counts[kind] = n
	}
	return counts, nil
}
