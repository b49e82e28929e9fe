package repositories

import (
	"database/sql"
	"fmt"

	"github.com/dong279/mumu-express/internal/models"
)

type ReportRepository interface {
	Create(report *models.Report) error
	AlreadyReported(reporterID int, reportedType string, reportedID int64) (bool, error)
	ListByReporter(reporterID, limit, offset int) ([]*models.Report, error)
}

type reportRepository struct {
	DB *sql.DB
}

func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{DB: db}
}

func (r *reportRepository) Create(report *models.Report) error {
	const q = `
		INSERT INTO reports (reporter_id, reported_type, reported_id, reason, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING report_id, status, created_at
	`
	err := r.DB.QueryRow(q, report.ReporterID, report.ReportedType, report.ReportedID,
		report.Reason, nullString(report.Description)).
		Scan(&report.ReportID, &report.Status, &report.CreatedAt)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

func (r *reportRepository) AlreadyReported(reporterID int, reportedType string, reportedID int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM reports
		WHERE reporter_id = $1 AND reported_type = $2 AND reported_id = $3)
	`, reporterID, reportedType, reportedID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("report exists: %w", err)
	}
	return exists, nil
}

func (r *reportRepository) ListByReporter(reporterID, limit, offset int) ([]*models.Report, error) {
	const q = `
		SELECT report_id, reporter_id, reported_type, reported_id, reason,
		       COALESCE(description, ''), status, created_at
		FROM reports
		WHERE reporter_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.Query(q, reporterID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var res []*models.Report
	for rows.Next() {
		rep := &models.Report{}
		if err := rows.Scan(&rep.ReportID, &rep.ReporterID, &rep.ReportedType, &rep.ReportedID,
			&rep.Reason, &rep.Description, &rep.Status, &rep.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		res = append(res, rep)
	}
	return res, rows.Err()
}
