package repositories

import (
	"database/sql"
	"fmt"

	"github.com/dong279/mumu-express/internal/models"
)

// EngagementRepository — лайки и закладки с toggle-семантикой.
// Каждый toggle выполняется в одной транзакции: дельта счётчика берётся
// только из реально вставленной/удалённой строки ребра, поэтому повторные
// и конкурирующие запросы не приводят к дрейфу счётчика.
type EngagementRepository interface {
	ToggleCommunityLike(userID int, communityID int64) (liked bool, likeCount int, err error)
	ToggleCommentLike(userID int, commentID int64) (liked bool, likeCount int, err error)
	ToggleBookmark(userID int, communityID int64) (bookmarked bool, bookmarkCount int, err error)
	ListBookmarks(userID, limit, offset int) ([]*models.CommunityPost, error)
}

type engagementRepository struct {
	DB *sql.DB
}

func NewEngagementRepository(db *sql.DB) EngagementRepository {
	return &engagementRepository{DB: db}
}

type toggleSpec struct {
	insert     string // INSERT ... ON CONFLICT DO NOTHING
	delete     string
	increment  string // UPDATE ... RETURNING свежий счётчик
	decrement  string
	edgeUserID interface{}
	targetID   interface{}
}

func (r *engagementRepository) toggle(s toggleSpec) (bool, int, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return false, 0, fmt.Errorf("toggle begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(s.insert, s.edgeUserID, s.targetID)
	if err != nil {
		return false, 0, fmt.Errorf("toggle insert: %w", err)
	}
	n, _ := res.RowsAffected()

	var count int
	if n > 0 {
		// ребро создано — инкремент
		if err := tx.QueryRow(s.increment, s.targetID).Scan(&count); err != nil {
			return false, 0, fmt.Errorf("toggle increment: %w", err)
		}
		return true, count, tx.Commit()
	}

	// ребро уже было — снимаем его и декрементируем с полом в ноль
	if _, err := tx.Exec(s.delete, s.edgeUserID, s.targetID); err != nil {
		return false, 0, fmt.Errorf("toggle delete: %w", err)
	}
	if err := tx.QueryRow(s.decrement, s.targetID).Scan(&count); err != nil {
		return false, 0, fmt.Errorf("toggle decrement: %w", err)
	}
	return false, count, tx.Commit()
}

func (r *engagementRepository) ToggleCommunityLike(userID int, communityID int64) (bool, int, error) {
	return r.toggle(toggleSpec{
		insert: `INSERT INTO community_likes (user_id, community_id) VALUES ($1, $2)
		         ON CONFLICT (user_id, community_id) DO NOTHING`,
		delete: `DELETE FROM community_likes WHERE user_id = $1 AND community_id = $2`,
		increment: `UPDATE community SET like_count = like_count + 1
		            WHERE community_id = $1 RETURNING like_count`,
		decrement: `UPDATE community SET like_count = GREATEST(like_count - 1, 0)
		            WHERE community_id = $1 RETURNING like_count`,
		edgeUserID: userID,
		targetID:   communityID,
	})
}

func (r *engagementRepository) ToggleCommentLike(userID int, commentID int64) (bool, int, error) {
	return r.toggle(toggleSpec{
		insert: `INSERT INTO comment_likes (user_id, comment_id) VALUES ($1, $2)
		         ON CONFLICT (user_id, comment_id) DO NOTHING`,
		delete: `DELETE FROM comment_likes WHERE user_id = $1 AND comment_id = $2`,
		increment: `UPDATE comments SET like_count = like_count + 1
		            WHERE comment_id = $1 RETURNING like_count`,
		decrement: `UPDATE comments SET like_count = GREATEST(like_count - 1, 0)
		            WHERE comment_id = $1 RETURNING like_count`,
		edgeUserID: userID,
		targetID:   commentID,
	})
}

func (r *engagementRepository) ToggleBookmark(userID int, communityID int64) (bool, int, error) {
	return r.toggle(toggleSpec{
		insert: `INSERT INTO community_bookmarks (user_id, community_id) VALUES ($1, $2)
		         ON CONFLICT (user_id, community_id) DO NOTHING`,
		delete: `DELETE FROM community_bookmarks WHERE user_id = $1 AND community_id = $2`,
		increment: `UPDATE community SET bookmark_count = bookmark_count + 1
		            WHERE community_id = $1 RETURNING bookmark_count`,
		decrement: `UPDATE community SET bookmark_count = GREATEST(bookmark_count - 1, 0)
		            WHERE community_id = $1 RETURNING bookmark_count`,
		edgeUserID: userID,
		targetID:   communityID,
	})
}

func (r *engagementRepository) ListBookmarks(userID, limit, offset int) ([]*models.CommunityPost, error) {
	q := `SELECT` + postColumns + `
		FROM community c
		JOIN users u ON u.user_id = c.user_id
		JOIN community_bookmarks cb ON cb.community_id = c.community_id
		WHERE cb.user_id = $1 AND c.is_deleted = FALSE AND c.is_blocked = FALSE
		  AND u.deleted_at IS NULL
		ORDER BY cb.created_at DESC
		LIMIT $2 OFFSET $3`
	cr := &communityRepository{DB: r.DB}
	return cr.queryPosts(q, userID, limit, offset)
}
