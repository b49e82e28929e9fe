package services

import (
	"errors"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/repositories"
)

var (
	ErrInvalidSpecies = errors.New("species must be dog, cat or other")
	ErrPetNotFound    = errors.New("pet not found")
)

type PetService interface {
	Create(pet *models.Pet) error
	List(userID int) ([]*models.Pet, error)
	Get(petID int64, userID int) (*models.Pet, error)
	Update(petID int64, userID int, upd repositories.PetUpdate) (*models.Pet, error)
	Delete(petID int64, userID int) error
}

type petService struct {
	repo repositories.PetRepository
}

func NewPetService(repo repositories.PetRepository) PetService {
	return &petService{repo: repo}
}

func validSpecies(species string) bool {
	for _, s := range models.ValidSpecies {
		if s == species {
			return true
		}
	}
	return false
}

func (s *petService) Create(pet *models.Pet) error {
	if pet.Name == "" {
		return errors.New("name is required")
	}
	if !validSpecies(pet.Species) {
		return ErrInvalidSpecies
	}
	return s.repo.Create(pet)
}

func (s *petService) List(userID int) ([]*models.Pet, error) {
	return s.repo.ListByUser(userID)
}

func (s *petService) Get(petID int64, userID int) (*models.Pet, error) {
	pet, err := s.repo.GetByID(petID, userID)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, ErrPetNotFound
	}
	return pet, nil
}

func (s *petService) Update(petID int64, userID int, upd repositories.PetUpdate) (*models.Pet, error) {
	if upd.Species != nil && !validSpecies(*upd.Species) {
		return nil, ErrInvalidSpecies
	}
	if upd == (repositories.PetUpdate{}) {
		return s.Get(petID, userID)
	}
	ok, err := s.repo.Update(petID, userID, upd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPetNotFound
	}
	return s.Get(petID, userID)
}

func (s *petService) Delete(petID int64, userID int) error {
	ok, err := s.repo.Deactivate(petID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPetNotFound
	}
	return nil
}
