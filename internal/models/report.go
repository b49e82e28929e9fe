package models

import "time"

var (
	ReportReasons = []string{"spam", "abuse", "inappropriate", "copyright", "misinformation", "other"}
	ReportedTypes = []string{"user", "community", "comment"}
)

type Report struct {
	ReportID     int64     `json:"report_id"`
	ReporterID   int       `json:"-"`
	ReportedType string    `json:"reported_type"`
	ReportedID   int64     `json:"reported_id"`
	Reason       string    `json:"reason"`
	Description  string    `json:"description,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
