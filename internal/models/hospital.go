package models

import "time"

type Hospital struct {
	HospitalID    int64     `json:"hospital_id"`
	Name          string    `json:"name"`
	Address       string    `json:"address,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	AverageRating float64   `json:"average_rating"`
	TotalReviews  int       `json:"total_reviews"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

type HospitalPrice struct {
	HospitalPriceID int64   `json:"hospital_price_id"`
	HospitalID      int64   `json:"hospital_id"`
	HospitalName    string  `json:"hospital_name,omitempty"`
	Address         string  `json:"address,omitempty"`
	AverageRating   float64 `json:"average_rating,omitempty"`
	TreatmentType   string  `json:"treatment_type"`
	Species         string  `json:"species,omitempty"`
	AveragePrice    int64   `json:"average_price"`
}

type HospitalReview struct {
	HospitalReviewID int64     `json:"hospital_review_id"`
	HospitalID       int64     `json:"hospital_id"`
	UserID           int       `json:"user_id"`
	UserName         string    `json:"user_name,omitempty"`
	PetID            *int64    `json:"pet_id,omitempty"`
	Rating           int       `json:"rating"`
	TreatmentType    string    `json:"treatment_type,omitempty"`
	Cost             *int64    `json:"cost,omitempty"`
	Title            string    `json:"title,omitempty"`
	Content          string    `json:"content,omitempty"`
	KindnessRating   *int      `json:"kindness_rating,omitempty"`
	FacilityRating   *int      `json:"facility_rating,omitempty"`
	PriceRating      *int      `json:"price_rating,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type HospitalSearch struct {
	Lat      *float64
	Lng      *float64
	RadiusKm float64
	Name     string
	Limit    int
	Offset   int
}
