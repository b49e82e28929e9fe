package repositories

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/dong279/mumu-express/internal/models"
)

type HospitalRepository interface {
	Search(f models.HospitalSearch) ([]*models.Hospital, error)
	GetByID(hospitalID int64) (*models.Hospital, error)
	ListPrices(hospitalID int64) ([]*models.HospitalPrice, error)
	SearchPrices(treatmentType, species string, limit, offset int) ([]*models.HospitalPrice, error)
	ListReviews(hospitalID int64, limit, offset int) ([]*models.HospitalReview, error)
	CreateReview(review *models.HospitalReview) error
	ToggleFavorite(userID int, hospitalID int64) (favorited bool, err error)
	ListFavorites(userID, limit, offset int) ([]*models.Hospital, error)
	Exists(hospitalID int64) (bool, error)
}

type hospitalRepository struct {
	DB *sql.DB
}

func NewHospitalRepository(db *sql.DB) HospitalRepository {
	return &hospitalRepository{DB: db}
}

const hospitalColumns = `
	h.hospital_id, h.name, COALESCE(h.address, ''), COALESCE(h.phone, ''),
	h.latitude, h.longitude, h.average_rating, h.total_reviews, h.is_active, h.created_at`

// Search — поиск по имени и/или радиусу. Дистанция считается формулой
// гаверсинуса прямо в SQL, радиус в километрах.
func (r *hospitalRepository) Search(f models.HospitalSearch) ([]*models.Hospital, error) {
	where := []string{"h.is_active = TRUE"}
	args := []interface{}{}

	if f.Name != "" {
		args = append(args, "%"+f.Name+"%")
		where = append(where, "h.name ILIKE $"+strconv.Itoa(len(args)))
	}

	orderBy := "h.average_rating DESC, h.total_reviews DESC"
	selectExtra := ""
	if f.Lat != nil && f.Lng != nil {
		args = append(args, *f.Lat)
		latPos := strconv.Itoa(len(args))
		args = append(args, *f.Lng)
		lngPos := strconv.Itoa(len(args))
		dist := `(6371 * acos(
			cos(radians($` + latPos + `)) * cos(radians(h.latitude)) *
			cos(radians(h.longitude) - radians($` + lngPos + `)) +
			sin(radians($` + latPos + `)) * sin(radians(h.latitude))))`
		radius := f.RadiusKm
		if radius <= 0 {
			radius = 5
		}
		args = append(args, radius)
		where = append(where, dist+" <= $"+strconv.Itoa(len(args)))
		selectExtra = ", " + dist + " AS distance"
		orderBy = "distance ASC"
	}

	args = append(args, f.Limit)
	limitPos := strconv.Itoa(len(args))
	args = append(args, f.Offset)
	offsetPos := strconv.Itoa(len(args))

	q := `SELECT` + hospitalColumns + selectExtra + `
		FROM hospitals h
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY ` + orderBy + `
		LIMIT $` + limitPos + ` OFFSET $` + offsetPos

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("search hospitals: %w", err)
	}
	defer rows.Close()

	withDistance := selectExtra != ""
	var res []*models.Hospital
	for rows.Next() {
		h := &models.Hospital{}
		dest := []interface{}{
			&h.HospitalID, &h.Name, &h.Address, &h.Phone,
			&h.Latitude, &h.Longitude, &h.AverageRating, &h.TotalReviews, &h.IsActive, &h.CreatedAt,
		}
		if withDistance {
			var distance float64
			dest = append(dest, &distance)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan hospital: %w", err)
		}
		res = append(res, h)
	}
	return res, rows.Err()
}

func (r *hospitalRepository) GetByID(hospitalID int64) (*models.Hospital, error) {
	q := `SELECT` + hospitalColumns + ` FROM hospitals h WHERE h.hospital_id = $1 AND h.is_active = TRUE`
	h := &models.Hospital{}
	err := r.DB.QueryRow(q, hospitalID).Scan(
		&h.HospitalID, &h.Name, &h.Address, &h.Phone,
		&h.Latitude, &h.Longitude, &h.AverageRating, &h.TotalReviews, &h.IsActive, &h.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get hospital: %w", err)
	}
	return h, nil
}

func (r *hospitalRepository) Exists(hospitalID int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM hospitals WHERE hospital_id = $1 AND is_active = TRUE)`, hospitalID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("hospital exists: %w", err)
	}
	return exists, nil
}

func (r *hospitalRepository) ListPrices(hospitalID int64) ([]*models.HospitalPrice, error) {
	const q = `
		SELECT hospital_price_id, hospital_id, treatment_type, COALESCE(species, ''), average_price
		FROM hospital_prices
		WHERE hospital_id = $1
		ORDER BY treatment_type ASC
	`
	rows, err := r.DB.Query(q, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("list hospital prices: %w", err)
	}
	defer rows.Close()

	var res []*models.HospitalPrice
	for rows.Next() {
		p := &models.HospitalPrice{}
		if err := rows.Scan(&p.HospitalPriceID, &p.HospitalID, &p.TreatmentType, &p.Species, &p.AveragePrice); err != nil {
			return nil, fmt.Errorf("scan hospital price: %w", err)
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// SearchPrices — сравнение цен по типу лечения между больницами.
func (r *hospitalRepository) SearchPrices(treatmentType, species string, limit, offset int) ([]*models.HospitalPrice, error) {
	where := []string{"h.is_active = TRUE"}
	args := []interface{}{}
	if treatmentType != "" {
		args = append(args, "%"+treatmentType+"%")
		where = append(where, "hp.treatment_type ILIKE $"+strconv.Itoa(len(args)))
	}
	if species != "" {
		args = append(args, species)
		where = append(where, "hp.species = $"+strconv.Itoa(len(args)))
	}
	args = append(args, limit)
	limitPos := strconv.Itoa(len(args))
	args = append(args, offset)
	offsetPos := strconv.Itoa(len(args))

	q := `
		SELECT hp.hospital_price_id, hp.hospital_id, h.name, COALESCE(h.address, ''), h.average_rating,
		       hp.treatment_type, COALESCE(hp.species, ''), hp.average_price
		FROM hospital_prices hp
		JOIN hospitals h ON h.hospital_id = hp.hospital_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY hp.average_price ASC
		LIMIT $` + limitPos + ` OFFSET $` + offsetPos

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("search hospital prices: %w", err)
	}
	defer rows.Close()

	var res []*models.HospitalPrice
	for rows.Next() {
		p := &models.HospitalPrice{}
		if err := rows.Scan(&p.HospitalPriceID, &p.HospitalID, &p.HospitalName, &p.Address, &p.AverageRating,
			&p.TreatmentType, &p.Species, &p.AveragePrice); err != nil {
			return nil, fmt.Errorf("scan price row: %w", err)
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *hospitalRepository) ListReviews(hospitalID int64, limit, offset int) ([]*models.HospitalReview, error) {
	const q = `
		SELECT hr.hospital_review_id, hr.hospital_id, hr.user_id, u.name, hr.pet_id,
		       hr.rating, COALESCE(hr.treatment_type, ''), hr.cost,
		       COALESCE(hr.title, ''), COALESCE(hr.content, ''),
		       hr.kindness_rating, hr.facility_rating, hr.price_rating, hr.created_at
		FROM hospital_reviews hr
		JOIN users u ON u.user_id = hr.user_id
		WHERE hr.hospital_id = $1 AND u.deleted_at IS NULL
		ORDER BY hr.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.Query(q, hospitalID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list hospital reviews: %w", err)
	}
	defer rows.Close()

	var res []*models.HospitalReview
	for rows.Next() {
		rv := &models.HospitalReview{}
		var (
			petID, cost                  sql.NullInt64
			kindness, facility, priceRat sql.NullInt64
		)
		if err := rows.Scan(&rv.HospitalReviewID, &rv.HospitalID, &rv.UserID, &rv.UserName, &petID,
			&rv.Rating, &rv.TreatmentType, &cost, &rv.Title, &rv.Content,
			&kindness, &facility, &priceRat, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan hospital review: %w", err)
		}
		if petID.Valid {
			v := petID.Int64
			rv.PetID = &v
		}
		if cost.Valid {
			v := cost.Int64
			rv.Cost = &v
		}
		if kindness.Valid {
			v := int(kindness.Int64)
			rv.KindnessRating = &v
		}
		if facility.Valid {
			v := int(facility.Int64)
			rv.FacilityRating = &v
		}
		if priceRat.Valid {
			v := int(priceRat.Int64)
			rv.PriceRating = &v
		}
		res = append(res, rv)
	}
	return res, rows.Err()
}

// CreateReview — вставка отзыва и пересчёт average_rating/total_reviews
// больницы в одной транзакции. Агрегаты считаются заново по таблице
// отзывов, а не инкрементально, чтобы рейтинг не расходился.
func (r *hospitalRepository) CreateReview(review *models.HospitalReview) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("create review begin: %w", err)
	}
	defer tx.Rollback()

	var petID sql.NullInt64
	if review.PetID != nil {
		petID = sql.NullInt64{Int64: *review.PetID, Valid: true}
	}
	var cost sql.NullInt64
	if review.Cost != nil {
		cost = sql.NullInt64{Int64: *review.Cost, Valid: true}
	}
	nullInt := func(p *int) sql.NullInt64 {
		if p == nil {
			return sql.NullInt64{}
		}
		return sql.NullInt64{Int64: int64(*p), Valid: true}
	}

	err = tx.QueryRow(`
		INSERT INTO hospital_reviews (hospital_id, user_id, pet_id, rating, treatment_type, cost,
		                              title, content, kindness_rating, facility_rating, price_rating)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING hospital_review_id, created_at
	`, review.HospitalID, review.UserID, petID, review.Rating,
		nullString(review.TreatmentType), cost, nullString(review.Title), nullString(review.Content),
		nullInt(review.KindnessRating), nullInt(review.FacilityRating), nullInt(review.PriceRating),
	).Scan(&review.HospitalReviewID, &review.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert hospital review: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE hospitals SET
			average_rating = (SELECT ROUND(AVG(rating)::numeric, 2) FROM hospital_reviews WHERE hospital_id = $1),
			total_reviews  = (SELECT COUNT(*) FROM hospital_reviews WHERE hospital_id = $1)
		WHERE hospital_id = $1
	`, review.HospitalID)
	if err != nil {
		return fmt.Errorf("update hospital rating: %w", err)
	}
	return tx.Commit()
}

// ToggleFavorite — та же toggle-семантика, что у лайков, но без
// денормализованного счётчика на стороне больницы.
func (r *hospitalRepository) ToggleFavorite(userID int, hospitalID int64) (bool, error) {
	res, err := r.DB.Exec(`
		INSERT INTO hospital_favorites (user_id, hospital_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, hospital_id) DO NOTHING
	`, userID, hospitalID)
	if err != nil {
		return false, fmt.Errorf("favorite insert: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		return true, nil
	}
	if _, err := r.DB.Exec(`DELETE FROM hospital_favorites WHERE user_id = $1 AND hospital_id = $2`, userID, hospitalID); err != nil {
		return false, fmt.Errorf("favorite delete: %w", err)
	}
	return false, nil
}

func (r *hospitalRepository) ListFavorites(userID, limit, offset int) ([]*models.Hospital, error) {
	q := `SELECT` + hospitalColumns + `
		FROM hospital_favorites hf
		JOIN hospitals h ON h.hospital_id = hf.hospital_id
		WHERE hf.user_id = $1 AND h.is_active = TRUE
		ORDER BY hf.created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(q, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var res []*models.Hospital
	for rows.Next() {
		h := &models.Hospital{}
		if err := rows.Scan(&h.HospitalID, &h.Name, &h.Address, &h.Phone,
			&h.Latitude, &h.Longitude, &h.AverageRating, &h.TotalReviews, &h.IsActive, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favorite hospital: %w", err)
		}
		res = append(res, h)
	}
	return res, rows.Err()
}
