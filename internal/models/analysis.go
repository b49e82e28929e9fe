package models

import (
	"encoding/json"
	"time"
)

// Типы AI-анализа; каждому соответствует свой маршрут и своя форма result.
var AnalysisKinds = []string{"behavior", "sound", "food_safety", "health_check"}

const (
	AnalysisStatusProcessing = "processing"
	AnalysisStatusCompleted  = "completed"
	AnalysisStatusFailed     = "failed"
)

// Analysis — заявка на анализ. Сервер только хранит вход и результат,
// сам анализ делает внешний AI-сервис и отдаёт его вебхуком.
type Analysis struct {
	AnalysisID     int64           `json:"analysis_id"`
	Kind           string          `json:"kind"`
	PetID          int64           `json:"pet_id"`
	UserID         int             `json:"user_id"`
	MediaPath      string          `json:"media_path,omitempty"`
	Status         string          `json:"analysis_status"`
	Result         json.RawMessage `json:"result,omitempty"`
	ModelVersion   string          `json:"model_version,omitempty"`
	ProcessingTime *float64        `json:"processing_time,omitempty"`
	AnalyzedAt     *time.Time      `json:"analyzed_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type HealthReport struct {
	HealthReportID int64     `json:"health_report_id"`
	PetID          int64     `json:"pet_id"`
	PetName        string    `json:"pet_name,omitempty"`
	UserID         int       `json:"user_id"`
	ReportType     string    `json:"report_type"` // weekly | monthly
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	Summary        string    `json:"summary,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
