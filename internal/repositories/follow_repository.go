package repositories

import (
	"database/sql"
	"fmt"

	"github.com/dong279/mumu-express/internal/models"
)

type FollowRepository interface {
	TargetExists(userID int) (bool, error)
	Follow(followerID, targetID int) (created bool, err error)
	Unfollow(followerID, targetID int) (removed bool, err error)
	ListFollowers(userID, limit, offset int) ([]*models.PublicUser, error)
	ListFollowing(userID, limit, offset int) ([]*models.PublicUser, error)
}

type followRepository struct {
	DB *sql.DB
}

func NewFollowRepository(db *sql.DB) FollowRepository {
	return &followRepository{DB: db}
}

func (r *followRepository) TargetExists(userID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1 AND deleted_at IS NULL)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("follow target exists: %w", err)
	}
	return exists, nil
}

// Follow — вставка ребра и инкремент счётчиков в одной транзакции.
// Счётчики двигаются только если строка реально создана: повторный
// запрос не накручивает follower_count.
func (r *followRepository) Follow(followerID, targetID int) (bool, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return false, fmt.Errorf("follow begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO follows (follower_id, following_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`, followerID, targetID)
	if err != nil {
		return false, fmt.Errorf("follow insert: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		// ребро уже было — счётчики не трогаем
		return false, tx.Commit()
	}

	if _, err := tx.Exec(`UPDATE users SET follower_count = follower_count + 1 WHERE user_id = $1`, targetID); err != nil {
		return false, fmt.Errorf("follow inc follower_count: %w", err)
	}
	if _, err := tx.Exec(`UPDATE users SET following_count = following_count + 1 WHERE user_id = $1`, followerID); err != nil {
		return false, fmt.Errorf("follow inc following_count: %w", err)
	}
	return true, tx.Commit()
}

func (r *followRepository) Unfollow(followerID, targetID int) (bool, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return false, fmt.Errorf("unfollow begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`, followerID, targetID)
	if err != nil {
		return false, fmt.Errorf("unfollow delete: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return false, tx.Commit()
	}

	if _, err := tx.Exec(`UPDATE users SET follower_count = GREATEST(follower_count - 1, 0) WHERE user_id = $1`, targetID); err != nil {
		return false, fmt.Errorf("unfollow dec follower_count: %w", err)
	}
	if _, err := tx.Exec(`UPDATE users SET following_count = GREATEST(following_count - 1, 0) WHERE user_id = $1`, followerID); err != nil {
		return false, fmt.Errorf("unfollow dec following_count: %w", err)
	}
	return true, tx.Commit()
}

func (r *followRepository) ListFollowers(userID, limit, offset int) ([]*models.PublicUser, error) {
	const q = `
		SELECT u.user_id, u.id, u.name, COALESCE(u.profile_image, ''), f.created_at
		FROM follows f
		JOIN users u ON u.user_id = f.follower_id
		WHERE f.following_id = $1 AND u.deleted_at IS NULL
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.listUsers(q, userID, limit, offset)
}

func (r *followRepository) ListFollowing(userID, limit, offset int) ([]*models.PublicUser, error) {
	const q = `
		SELECT u.user_id, u.id, u.name, COALESCE(u.profile_image, ''), f.created_at
		FROM follows f
		JOIN users u ON u.user_id = f.following_id
		WHERE f.follower_id = $1 AND u.deleted_at IS NULL
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.listUsers(q, userID, limit, offset)
}

func (r *followRepository) listUsers(q string, args ...interface{}) ([]*models.PublicUser, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list follow users: %w", err)
	}
	defer rows.Close()

	var res []*models.PublicUser
	for rows.Next() {
		u := &models.PublicUser{}
		if err := rows.Scan(&u.UserID, &u.LoginID, &u.Name, &u.ProfileImage, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan follow user: %w", err)
		}
		res = append(res, u)
	}
	return res, rows.Err()
}
