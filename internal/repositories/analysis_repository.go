package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dong279/mumu-express/internal/models"
)

type AnalysisRepository interface {
	Create(a *models.Analysis) error
	GetByID(kind string, analysisID int64, userID int) (*models.Analysis, error)
	GetAny(kind string, analysisID int64) (*models.Analysis, error)
	ListByPet(kind string, petID int64, userID, limit, offset int) ([]*models.Analysis, error)
	CompleteFromWebhook(kind string, analysisID int64, result json.RawMessage, modelVersion string, processingTime *float64) (bool, error)
	MarkFailed(kind string, analysisID int64) (bool, error)
}

type analysisRepository struct {
	DB *sql.DB
}

func NewAnalysisRepository(db *sql.DB) AnalysisRepository {
	return &analysisRepository{DB: db}
}

// У каждого вида анализа своя таблица с одинаковой формой колонок.
var analysisTables = map[string]string{
	"behavior":     "behavior_analysis",
	"sound":        "sound_analysis",
	"food_safety":  "food_safety_analysis",
	"health_check": "health_check_analysis",
}

func analysisTable(kind string) (string, error) {
	t, ok := analysisTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown analysis kind %q", kind)
	}
	return t, nil
}

func (r *analysisRepository) Create(a *models.Analysis) error {
	table, err := analysisTable(a.Kind)
	if err != nil {
		return err
	}
	q := `
		INSERT INTO ` + table + ` (pet_id, user_id, media_path, analysis_status)
		VALUES ($1, $2, $3, 'processing')
		RETURNING analysis_id, created_at
	`
	err = r.DB.QueryRow(q, a.PetID, a.UserID, nullString(a.MediaPath)).Scan(&a.AnalysisID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create %s analysis: %w", a.Kind, err)
	}
	a.Status = models.AnalysisStatusProcessing
	return nil
}

func (r *analysisRepository) scanAnalysis(kind string, scanner interface{ Scan(dest ...interface{}) error }) (*models.Analysis, error) {
	a := &models.Analysis{Kind: kind}
	var (
		mediaPath, modelVersion sql.NullString
		result                  []byte
		processingTime          sql.NullFloat64
		analyzedAt              sql.NullTime
	)
	err := scanner.Scan(&a.AnalysisID, &a.PetID, &a.UserID, &mediaPath, &a.Status,
		&result, &modelVersion, &processingTime, &analyzedAt, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.MediaPath = mediaPath.String
	a.ModelVersion = modelVersion.String
	if len(result) > 0 {
		a.Result = json.RawMessage(result)
	}
	if processingTime.Valid {
		v := processingTime.Float64
		a.ProcessingTime = &v
	}
	if analyzedAt.Valid {
		t := analyzedAt.Time
		a.AnalyzedAt = &t
	}
	return a, nil
}

const analysisColumns = `
	analysis_id, pet_id, user_id, media_path, analysis_status,
	result, model_version, processing_time, analyzed_at, created_at`

func (r *analysisRepository) GetByID(kind string, analysisID int64, userID int) (*models.Analysis, error) {
	table, err := analysisTable(kind)
	if err != nil {
		return nil, err
	}
	q := `SELECT` + analysisColumns + ` FROM ` + table + ` WHERE analysis_id = $1 AND user_id = $2`
	a, err := r.scanAnalysis(kind, r.DB.QueryRow(q, analysisID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s analysis: %w", kind, err)
	}
	return a, nil
}

// GetAny — без фильтра по владельцу, для вебхука.
func (r *analysisRepository) GetAny(kind string, analysisID int64) (*models.Analysis, error) {
	table, err := analysisTable(kind)
	if err != nil {
		return nil, err
	}
	q := `SELECT` + analysisColumns + ` FROM ` + table + ` WHERE analysis_id = $1`
	a, err := r.scanAnalysis(kind, r.DB.QueryRow(q, analysisID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s analysis: %w", kind, err)
	}
	return a, nil
}

func (r *analysisRepository) ListByPet(kind string, petID int64, userID, limit, offset int) ([]*models.Analysis, error) {
	table, err := analysisTable(kind)
	if err != nil {
		return nil, err
	}
	q := `SELECT` + analysisColumns + ` FROM ` + table + `
		WHERE pet_id = $1 AND user_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.DB.Query(q, petID, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list %s analyses: %w", kind, err)
	}
	defer rows.Close()

	var res []*models.Analysis
	for rows.Next() {
		a, err := r.scanAnalysis(kind, rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s analysis: %w", kind, err)
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// CompleteFromWebhook — запись результата от AI-сервиса. Переводит только
// из processing, повторный вебхук по той же заявке ничего не меняет.
func (r *analysisRepository) CompleteFromWebhook(kind string, analysisID int64, result json.RawMessage, modelVersion string, processingTime *float64) (bool, error) {
	table, err := analysisTable(kind)
	if err != nil {
		return false, err
	}
	var pt sql.NullFloat64
	if processingTime != nil {
		pt = sql.NullFloat64{Float64: *processingTime, Valid: true}
	}
	q := `
		UPDATE ` + table + ` SET
			analysis_status = 'completed',
			result = $1,
			model_version = $2,
			processing_time = $3,
			analyzed_at = $4
		WHERE analysis_id = $5 AND analysis_status = 'processing'
	`
	res, err := r.DB.Exec(q, []byte(result), nullString(modelVersion), pt, time.Now(), analysisID)
	if err != nil {
		return false, fmt.Errorf("complete %s analysis: %w", kind, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *analysisRepository) MarkFailed(kind string, analysisID int64) (bool, error) {
	table, err := analysisTable(kind)
	if err != nil {
		return false, err
	}
	res, err := r.DB.Exec(
		`UPDATE `+table+` SET analysis_status = 'failed' WHERE analysis_id = $1 AND analysis_status = 'processing'`,
		analysisID)
	if err != nil {
		return false, fmt.Errorf("fail %s analysis: %w", kind, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
