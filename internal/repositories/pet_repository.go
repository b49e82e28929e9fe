package repositories

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dong279/mumu-express/internal/models"
)

type PetUpdate struct {
	Name            *string
	Species         *string
	Breed           *string
	Gender          *string
	BirthDate       *time.Time
	Weight          *float64
	ProfileImage    *string
	Neutered        *bool
	Allergies       *string
	ChronicDiseases *string
	Medications     *string
}

type PetRepository interface {
	Create(pet *models.Pet) error
	ListByUser(userID int) ([]*models.Pet, error)
	GetByID(petID int64, userID int) (*models.Pet, error)
	Update(petID int64, userID int, upd PetUpdate) (bool, error)
	Deactivate(petID int64, userID int) (bool, error)
	OwnedBy(petID int64, userID int) (bool, error)
}

type petRepository struct {
	DB *sql.DB
}

func NewPetRepository(db *sql.DB) PetRepository {
	return &petRepository{DB: db}
}

const petColumns = `
	pet_id, user_id, name, species, breed, gender, birth_date, weight,
	profile_image, neutered, allergies, chronic_diseases, medications,
	is_active, created_at`

func (r *petRepository) Create(pet *models.Pet) error {
	const q = `
		INSERT INTO pets (user_id, name, species, breed, gender, birth_date, weight,
		                  profile_image, neutered, allergies, chronic_diseases, medications)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING pet_id, created_at
	`
	var birthDate sql.NullTime
	if pet.BirthDate != nil {
		birthDate = sql.NullTime{Time: *pet.BirthDate, Valid: true}
	}
	var weight sql.NullFloat64
	if pet.Weight != nil {
		weight = sql.NullFloat64{Float64: *pet.Weight, Valid: true}
	}
	err := r.DB.QueryRow(q,
		pet.UserID, pet.Name, pet.Species,
		nullString(pet.Breed), nullString(pet.Gender), birthDate, weight,
		nullString(pet.ProfileImage), pet.Neutered,
		nullString(pet.Allergies), nullString(pet.ChronicDiseases), nullString(pet.Medications),
	).Scan(&pet.PetID, &pet.CreatedAt)
	if err != nil {
		return fmt.Errorf("create pet: %w", err)
	}
	pet.IsActive = true
	return nil
}

func (r *petRepository) scanPet(scanner interface{ Scan(dest ...interface{}) error }) (*models.Pet, error) {
	p := &models.Pet{}
	var (
		breed, gender, profileImage, allergies, chronic, meds sql.NullString
		birthDate                                             sql.NullTime
		weight                                                sql.NullFloat64
	)
	err := scanner.Scan(
		&p.PetID, &p.UserID, &p.Name, &p.Species, &breed, &gender, &birthDate, &weight,
		&profileImage, &p.Neutered, &allergies, &chronic, &meds,
		&p.IsActive, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Breed = breed.String
	p.Gender = gender.String
	p.ProfileImage = profileImage.String
	p.Allergies = allergies.String
	p.ChronicDiseases = chronic.String
	p.Medications = meds.String
	if birthDate.Valid {
		t := birthDate.Time
		p.BirthDate = &t
	}
	if weight.Valid {
		v := weight.Float64
		p.Weight = &v
	}
	return p, nil
}

func (r *petRepository) ListByUser(userID int) ([]*models.Pet, error) {
	q := `SELECT` + petColumns + ` FROM pets WHERE user_id = $1 AND is_active = TRUE ORDER BY created_at DESC`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	defer rows.Close()

	var res []*models.Pet
	for rows.Next() {
		p, err := r.scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pet: %w", err)
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *petRepository) GetByID(petID int64, userID int) (*models.Pet, error) {
	q := `SELECT` + petColumns + ` FROM pets WHERE pet_id = $1 AND user_id = $2 AND is_active = TRUE`
	p, err := r.scanPet(r.DB.QueryRow(q, petID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get pet: %w", err)
	}
	return p, nil
}

func (r *petRepository) Update(petID int64, userID int, upd PetUpdate) (bool, error) {
	sets := []string{}
	args := []interface{}{}
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Species != nil {
		add("species", *upd.Species)
	}
	if upd.Breed != nil {
		add("breed", nullString(*upd.Breed))
	}
	if upd.Gender != nil {
		add("gender", nullString(*upd.Gender))
	}
	if upd.BirthDate != nil {
		add("birth_date", *upd.BirthDate)
	}
	if upd.Weight != nil {
		add("weight", *upd.Weight)
	}
	if upd.ProfileImage != nil {
		add("profile_image", nullString(*upd.ProfileImage))
	}
	if upd.Neutered != nil {
		add("neutered", *upd.Neutered)
	}
	if upd.Allergies != nil {
		add("allergies", nullString(*upd.Allergies))
	}
	if upd.ChronicDiseases != nil {
		add("chronic_diseases", nullString(*upd.ChronicDiseases))
	}
	if upd.Medications != nil {
		add("medications", nullString(*upd.Medications))
	}
	if len(sets) == 0 {
		return false, nil
	}
	args = append(args, petID)
	idPos := strconv.Itoa(len(args))
	args = append(args, userID)
	userPos := strconv.Itoa(len(args))

	q := `UPDATE pets SET ` + strings.Join(sets, ", ") + ` WHERE pet_id = $` + idPos + ` AND user_id = $` + userPos
	res, err := r.DB.Exec(q, args...)
	if err != nil {
		return false, fmt.Errorf("update pet: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *petRepository) Deactivate(petID int64, userID int) (bool, error) {
	res, err := r.DB.Exec(`UPDATE pets SET is_active = FALSE WHERE pet_id = $1 AND user_id = $2 AND is_active = TRUE`, petID, userID)
	if err != nil {
		return false, fmt.Errorf("deactivate pet: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *petRepository) OwnedBy(petID int64, userID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM pets WHERE pet_id = $1 AND user_id = $2 AND is_active = TRUE)`, petID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pet owned by: %w", err)
	}
	return exists, nil
}
