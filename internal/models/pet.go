package models

import "time"

var ValidSpecies = []string{"dog", "cat", "other"}

type Pet struct {
	PetID           int64      `json:"pet_id"`
	UserID          int        `json:"user_id"`
	Name            string     `json:"name"`
	Species         string     `json:"species"`
	Breed           string     `json:"breed,omitempty"`
	Gender          string     `json:"gender,omitempty"`
	BirthDate       *time.Time `json:"birth_date,omitempty"`
	Weight          *float64   `json:"weight,omitempty"`
	ProfileImage    string     `json:"profile_image,omitempty"`
	Neutered        bool       `json:"neutered"`
	Allergies       string     `json:"allergies,omitempty"`
	ChronicDiseases string     `json:"chronic_diseases,omitempty"`
	Medications     string     `json:"medications,omitempty"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
}
