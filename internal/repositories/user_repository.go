package repositories

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dong279/mumu-express/internal/models"
)

const userColumns = `
	user_id, id, password, name, phone, phone_verified, email, profile_image,
	address, detail_address, postal_code, role, status,
	terms_agreed, privacy_agreed, marketing_agreed,
	follower_count, following_count, community_count,
	created_at, last_login_at, deleted_at`

type ProfileUpdate struct {
	Name          *string
	Phone         *string
	Email         *string
	Address       *string
	DetailAddress *string
	PostalCode    *string
	ProfileImage  *string
}

type UserRepository interface {
	Create(user *models.User, passwordHash string) error
	GetByID(userID int) (*models.User, error)
	GetByLoginID(loginID string) (*models.User, error)
	GetByPhone(phone string) (*models.User, error)
	LoginIDExists(loginID string) (bool, error)
	PhoneExists(phone string) (bool, error)
	UpdateProfile(userID int, upd ProfileUpdate) error
	UpdatePassword(userID int, passwordHash string) error
	TouchLastLogin(userID int) error
	SetPhoneVerified(userID int, phone string) error
	SoftDelete(userID int, reason string) error

	Block(blockerID, blockedID int) error
	Unblock(blockerID, blockedID int) (bool, error)
	ListBlocked(blockerID, limit, offset int) ([]*models.PublicUser, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(user *models.User, passwordHash string) error {
	const q = `
		INSERT INTO users (
			id, password, name, phone, email, address, detail_address, postal_code,
			terms_agreed, terms_agreed_at, privacy_agreed, privacy_agreed_at,
			marketing_agreed, marketing_agreed_at, role, status
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,'user','active')
		RETURNING user_id, created_at
	`
	now := time.Now()
	var termsAt, privacyAt, marketingAt sql.NullTime
	if user.TermsAgreed {
		termsAt = sql.NullTime{Time: now, Valid: true}
	}
	if user.PrivacyAgreed {
		privacyAt = sql.NullTime{Time: now, Valid: true}
	}
	if user.MarketingAgreed {
		marketingAt = sql.NullTime{Time: now, Valid: true}
	}
	err := r.DB.QueryRow(q,
		user.LoginID, passwordHash, user.Name,
		nullString(user.Phone), nullString(user.Email),
		nullString(user.Address), nullString(user.DetailAddress), nullString(user.PostalCode),
		user.TermsAgreed, termsAt, user.PrivacyAgreed, privacyAt, user.MarketingAgreed, marketingAt,
	).Scan(&user.UserID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	user.Role = "user"
	user.Status = models.UserStatusActive
	return nil
}

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var (
		phone, email, profileImage, address, detailAddress, postalCode sql.NullString
		lastLoginAt, deletedAt                                         sql.NullTime
	)
	err := row.Scan(
		&u.UserID, &u.LoginID, &u.PasswordHash, &u.Name, &phone, &u.PhoneVerified, &email, &profileImage,
		&address, &detailAddress, &postalCode, &u.Role, &u.Status,
		&u.TermsAgreed, &u.PrivacyAgreed, &u.MarketingAgreed,
		&u.FollowerCount, &u.FollowingCount, &u.CommunityCount,
		&u.CreatedAt, &lastLoginAt, &deletedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Phone = phone.String
	u.Email = email.String
	u.ProfileImage = profileImage.String
	u.Address = address.String
	u.DetailAddress = detailAddress.String
	u.PostalCode = postalCode.String
	if lastLoginAt.Valid {
		t := lastLoginAt.Time
		u.LastLoginAt = &t
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		u.DeletedAt = &t
	}
	return u, nil
}

func (r *userRepository) GetByID(userID int) (*models.User, error) {
	q := `SELECT` + userColumns + ` FROM users WHERE user_id = $1 AND deleted_at IS NULL`
	return r.scanUser(r.DB.QueryRow(q, userID))
}

func (r *userRepository) GetByLoginID(loginID string) (*models.User, error) {
	q := `SELECT` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	return r.scanUser(r.DB.QueryRow(q, loginID))
}

func (r *userRepository) GetByPhone(phone string) (*models.User, error) {
	q := `SELECT` + userColumns + ` FROM users WHERE phone = $1 AND deleted_at IS NULL`
	return r.scanUser(r.DB.QueryRow(q, phone))
}

func (r *userRepository) LoginIDExists(loginID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, loginID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("login id exists: %w", err)
	}
	return exists, nil
}

func (r *userRepository) PhoneExists(phone string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE phone = $1)`, phone).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("phone exists: %w", err)
	}
	return exists, nil
}

// UpdateProfile обновляет только переданные поля (как PATCH).
func (r *userRepository) UpdateProfile(userID int, upd ProfileUpdate) error {
	sets := []string{}
	args := []interface{}{}
	add := func(col string, v *string) {
		if v != nil {
			args = append(args, *v)
			sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
		}
	}
	add("name", upd.Name)
	add("phone", upd.Phone)
	add("email", upd.Email)
	add("address", upd.Address)
	add("detail_address", upd.DetailAddress)
	add("postal_code", upd.PostalCode)
	add("profile_image", upd.ProfileImage)
	if len(sets) == 0 {
		return nil
	}
	args = append(args, userID)
	q := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE user_id = $` + strconv.Itoa(len(args))
	if _, err := r.DB.Exec(q, args...); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	if _, err := r.DB.Exec(`UPDATE users SET password = $1 WHERE user_id = $2`, passwordHash, userID); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (r *userRepository) TouchLastLogin(userID int) error {
	_, err := r.DB.Exec(`UPDATE users SET last_login_at = NOW() WHERE user_id = $1`, userID)
	return err
}

func (r *userRepository) SetPhoneVerified(userID int, phone string) error {
	if _, err := r.DB.Exec(`UPDATE users SET phone = $1, phone_verified = TRUE WHERE user_id = $2`, phone, userID); err != nil {
		return fmt.Errorf("set phone verified: %w", err)
	}
	return nil
}

func (r *userRepository) SoftDelete(userID int, reason string) error {
	const q = `
		UPDATE users
		SET deleted_at = NOW(), delete_reason = $1, status = 'inactive'
		WHERE user_id = $2
	`
	if _, err := r.DB.Exec(q, nullString(reason), userID); err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	return nil
}

func (r *userRepository) Block(blockerID, blockedID int) error {
	const q = `
		INSERT INTO user_blocks (blocker_id, blocked_id)
		VALUES ($1, $2)
		ON CONFLICT (blocker_id, blocked_id) DO NOTHING
	`
	if _, err := r.DB.Exec(q, blockerID, blockedID); err != nil {
		return fmt.Errorf("block user: %w", err)
	}
	return nil
}

func (r *userRepository) Unblock(blockerID, blockedID int) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM user_blocks WHERE blocker_id = $1 AND blocked_id = $2`, blockerID, blockedID)
	if err != nil {
		return false, fmt.Errorf("unblock user: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *userRepository) ListBlocked(blockerID, limit, offset int) ([]*models.PublicUser, error) {
	const q = `
		SELECT u.user_id, u.id, u.name, COALESCE(u.profile_image, ''), ub.created_at
		FROM user_blocks ub
		JOIN users u ON u.user_id = ub.blocked_id
		WHERE ub.blocker_id = $1
		ORDER BY ub.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.Query(q, blockerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list blocked: %w", err)
	}
	defer rows.Close()

	var res []*models.PublicUser
	for rows.Next() {
		u := &models.PublicUser{}
		if err := rows.Scan(&u.UserID, &u.LoginID, &u.Name, &u.ProfileImage, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan blocked: %w", err)
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
