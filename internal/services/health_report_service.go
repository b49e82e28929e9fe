package services

import (
	"errors"
	"time"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/pdf"
	"github.com/dong279/mumu-express/internal/repositories"
)

var (
	ErrInvalidReportType   = errors.New("report_type must be weekly or monthly")
	ErrHealthReportMissing = errors.New("health report not found")
)

type HealthReportService interface {
	Create(hr *models.HealthReport) error
	Get(reportID int64, userID int) (*models.HealthReport, error)
	ListByPet(petID int64, userID, limit, offset int) ([]*models.HealthReport, error)
	RenderPDF(reportID int64, userID int) ([]byte, error)
}

type healthReportService struct {
	repo repositories.HealthReportRepository
	pets repositories.PetRepository
}

func NewHealthReportService(repo repositories.HealthReportRepository, pets repositories.PetRepository) HealthReportService {
	return &healthReportService{repo: repo, pets: pets}
}

func (s *healthReportService) Create(hr *models.HealthReport) error {
	if hr.ReportType != "weekly" && hr.ReportType != "monthly" {
		return ErrInvalidReportType
	}
	owned, err := s.pets.OwnedBy(hr.PetID, hr.UserID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrPetNotFound
	}

	// период по умолчанию — от сегодня назад
	if hr.PeriodEnd.IsZero() {
		hr.PeriodEnd = time.Now()
	}
	if hr.PeriodStart.IsZero() {
		if hr.ReportType == "weekly" {
			hr.PeriodStart = hr.PeriodEnd.AddDate(0, 0, -7)
		} else {
			hr.PeriodStart = hr.PeriodEnd.AddDate(0, -1, 0)
		}
	}
	return s.repo.Create(hr)
}

func (s *healthReportService) Get(reportID int64, userID int) (*models.HealthReport, error) {
	hr, err := s.repo.GetByID(reportID, userID)
	if err != nil {
		return nil, err
	}
	if hr == nil {
		return nil, ErrHealthReportMissing
	}
	return hr, nil
}

func (s *healthReportService) ListByPet(petID int64, userID, limit, offset int) ([]*models.HealthReport, error) {
	owned, err := s.pets.OwnedBy(petID, userID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrPetNotFound
	}
	return s.repo.ListByPet(petID, userID, clampPageSize(limit), offset)
}

func (s *healthReportService) RenderPDF(reportID int64, userID int) ([]byte, error) {
	hr, err := s.Get(reportID, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountAnalysesInPeriod(hr.PetID, hr.PeriodStart, hr.PeriodEnd)
	if err != nil {
		return nil, err
	}
	return pdf.RenderHealthReport(hr, counts)
}
