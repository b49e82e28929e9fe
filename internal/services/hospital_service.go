package services

import (
	"errors"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/repositories"
)

var (
	ErrHospitalNotFound = errors.New("hospital not found")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
)

type HospitalDetail struct {
	*models.Hospital
	Prices  []*models.HospitalPrice  `json:"prices"`
	Reviews []*models.HospitalReview `json:"recent_reviews"`
}

type HospitalService interface {
	Search(f models.HospitalSearch) ([]*models.Hospital, error)
	GetDetail(hospitalID int64) (*HospitalDetail, error)
	SearchPrices(treatmentType, species string, limit, offset int) ([]*models.HospitalPrice, error)
	ListReviews(hospitalID int64, limit, offset int) ([]*models.HospitalReview, error)
	CreateReview(review *models.HospitalReview) error
	ToggleFavorite(userID int, hospitalID int64) (bool, error)
	ListFavorites(userID, limit, offset int) ([]*models.Hospital, error)
}

type hospitalService struct {
	repo repositories.HospitalRepository
	pets repositories.PetRepository
}

func NewHospitalService(repo repositories.HospitalRepository, pets repositories.PetRepository) HospitalService {
	return &hospitalService{repo: repo, pets: pets}
}

func (s *hospitalService) Search(f models.HospitalSearch) ([]*models.Hospital, error) {
	f.Limit = clampPageSize(f.Limit)
	return s.repo.Search(f)
}

func (s *hospitalService) GetDetail(hospitalID int64) (*HospitalDetail, error) {
	h, err := s.repo.GetByID(hospitalID)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, ErrHospitalNotFound
	}
	prices, err := s.repo.ListPrices(hospitalID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.repo.ListReviews(hospitalID, 5, 0)
	if err != nil {
		return nil, err
	}
	return &HospitalDetail{Hospital: h, Prices: prices, Reviews: reviews}, nil
}

func (s *hospitalService) SearchPrices(treatmentType, species string, limit, offset int) ([]*models.HospitalPrice, error) {
	return s.repo.SearchPrices(treatmentType, species, clampPageSize(limit), offset)
}

func (s *hospitalService) ListReviews(hospitalID int64, limit, offset int) ([]*models.HospitalReview, error) {
	exists, err := s.repo.Exists(hospitalID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrHospitalNotFound
	}
	return s.repo.ListReviews(hospitalID, clampPageSize(limit), offset)
}

func clampSubRating(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	if v < 1 {
		v = 1
	}
	if v > 5 {
		v = 5
	}
	return &v
}

func (s *hospitalService) CreateReview(review *models.HospitalReview) error {
	if review.Rating < 1 || review.Rating > 5 {
		return ErrInvalidRating
	}
	exists, err := s.repo.Exists(review.HospitalID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrHospitalNotFound
	}
	if review.PetID != nil {
		owned, err := s.pets.OwnedBy(*review.PetID, review.UserID)
		if err != nil {
			return err
		}
		if !owned {
			return ErrPetNotFound
		}
	}
	review.KindnessRating = clampSubRating(review.KindnessRating)
	review.FacilityRating = clampSubRating(review.FacilityRating)
	review.PriceRating = clampSubRating(review.PriceRating)
	return s.repo.CreateReview(review)
}

func (s *hospitalService) ToggleFavorite(userID int, hospitalID int64) (bool, error) {
	exists, err := s.repo.Exists(hospitalID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrHospitalNotFound
	}
	return s.repo.ToggleFavorite(userID, hospitalID)
}

func (s *hospitalService) ListFavorites(userID, limit, offset int) ([]*models.Hospital, error) {
	return s.repo.ListFavorites(userID, clampPageSize(limit), offset)
}
