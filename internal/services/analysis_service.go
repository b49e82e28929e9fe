package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/repositories"
)

var (
	ErrInvalidAnalysisKind = errors.New("unknown analysis kind")
	ErrAnalysisNotFound    = errors.New("analysis not found")
)

type AnalysisService interface {
	Create(a *models.Analysis) error
	Get(kind string, analysisID int64, userID int) (*models.Analysis, error)
	ListByPet(kind string, petID int64, userID, limit, offset int) ([]*models.Analysis, error)
	// IngestResult принимает результат от AI-сервиса (вебхук).
	IngestResult(kind string, analysisID int64, result json.RawMessage, modelVersion string, processingTime *float64, failed bool) error
}

type analysisService struct {
	repo          repositories.AnalysisRepository
	pets          repositories.PetRepository
	notifications NotificationService
}

func NewAnalysisService(repo repositories.AnalysisRepository, pets repositories.PetRepository, notifications NotificationService) AnalysisService {
	return &analysisService{repo: repo, pets: pets, notifications: notifications}
}

func validKind(kind string) bool {
	for _, k := range models.AnalysisKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (s *analysisService) Create(a *models.Analysis) error {
	if !validKind(a.Kind) {
		return ErrInvalidAnalysisKind
	}
	owned, err := s.pets.OwnedBy(a.PetID, a.UserID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrPetNotFound
	}
	if err := s.repo.Create(a); err != nil {
		return err
	}
	log.Printf("[analysis][create] %s analysis %d queued for pet %d", a.Kind, a.AnalysisID, a.PetID)
	return nil
}

func (s *analysisService) Get(kind string, analysisID int64, userID int) (*models.Analysis, error) {
	if !validKind(kind) {
		return nil, ErrInvalidAnalysisKind
	}
	a, err := s.repo.GetByID(kind, analysisID, userID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAnalysisNotFound
	}
	return a, nil
}

func (s *analysisService) ListByPet(kind string, petID int64, userID, limit, offset int) ([]*models.Analysis, error) {
	if !validKind(kind) {
		return nil, ErrInvalidAnalysisKind
	}
	owned, err := s.pets.OwnedBy(petID, userID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrPetNotFound
	}
	return s.repo.ListByPet(kind, petID, userID, clampPageSize(limit), offset)
}

func (s *analysisService) IngestResult(kind string, analysisID int64, result json.RawMessage, modelVersion string, processingTime *float64, failed bool) error {
	if !validKind(kind) {
		return ErrInvalidAnalysisKind
	}

	if failed {
		ok, err := s.repo.MarkFailed(kind, analysisID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAnalysisNotFound
		}
		return nil
	}

	ok, err := s.repo.CompleteFromWebhook(kind, analysisID, result, modelVersion, processingTime)
	if err != nil {
		return err
	}
	if !ok {
		// повторный вебхук или заявка не в processing
		return ErrAnalysisNotFound
	}

	// пуш владельцу о готовности
	a, err := s.repo.GetAny(kind, analysisID)
	if err != nil || a == nil {
		log.Printf("[analysis][ingest] owner lookup failed for %s %d: %v", kind, analysisID, err)
		return nil
	}
	s.notifications.Notify(a.UserID, "analysis", "Analysis completed",
		fmt.Sprintf("Your %s analysis is ready", kind), kind, &analysisID)
	return nil
}
