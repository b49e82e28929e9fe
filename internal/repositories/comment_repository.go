package repositories

import (
	"database/sql"
	"fmt"

	"github.com/dong279/mumu-express/internal/models"
)

type CommentRepository interface {
	Create(comment *models.Comment) error
	List(communityID int64, limit, offset int) ([]*models.Comment, error)
	Update(commentID int64, userID int, content string) (*models.Comment, error)
	SoftDelete(commentID int64, userID int) (bool, error)
}

type commentRepository struct {
	DB *sql.DB
}

func NewCommentRepository(db *sql.DB) CommentRepository {
	return &commentRepository{DB: db}
}

// Create — вставка комментария и comment_count поста в одной транзакции.
func (r *commentRepository) Create(comment *models.Comment) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("create comment begin: %w", err)
	}
	defer tx.Rollback()

	var parentID sql.NullInt64
	if comment.ParentCommentID != nil {
		parentID = sql.NullInt64{Int64: *comment.ParentCommentID, Valid: true}
	}
	err = tx.QueryRow(`
		INSERT INTO comments (community_id, user_id, parent_comment_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING comment_id, created_at
	`, comment.CommunityID, comment.UserID, parentID, comment.Content).
		Scan(&comment.CommentID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	if _, err := tx.Exec(`UPDATE community SET comment_count = comment_count + 1 WHERE community_id = $1`, comment.CommunityID); err != nil {
		return fmt.Errorf("inc comment_count: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create comment commit: %w", err)
	}

	// имя автора для ответа
	err = r.DB.QueryRow(`SELECT name FROM users WHERE user_id = $1`, comment.UserID).Scan(&comment.UserName)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("comment author name: %w", err)
	}
	return nil
}

func (r *commentRepository) List(communityID int64, limit, offset int) ([]*models.Comment, error) {
	const q = `
		SELECT co.comment_id, co.community_id, co.user_id, u.name, co.parent_comment_id,
		       co.content, co.like_count, co.created_at
		FROM comments co
		JOIN users u ON u.user_id = co.user_id
		WHERE co.community_id = $1 AND co.is_deleted = FALSE AND co.is_blocked = FALSE
		  AND u.deleted_at IS NULL
		ORDER BY co.parent_comment_id ASC NULLS FIRST, co.created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.Query(q, communityID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var res []*models.Comment
	for rows.Next() {
		c := &models.Comment{}
		var parentID sql.NullInt64
		if err := rows.Scan(&c.CommentID, &c.CommunityID, &c.UserID, &c.UserName, &parentID, &c.Content, &c.LikeCount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		if parentID.Valid {
			v := parentID.Int64
			c.ParentCommentID = &v
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *commentRepository) Update(commentID int64, userID int, content string) (*models.Comment, error) {
	const q = `
		UPDATE comments SET content = $1
		WHERE comment_id = $2 AND user_id = $3 AND is_deleted = FALSE
		RETURNING comment_id, community_id, user_id, parent_comment_id, content, like_count, created_at
	`
	c := &models.Comment{}
	var parentID sql.NullInt64
	err := r.DB.QueryRow(q, content, commentID, userID).
		Scan(&c.CommentID, &c.CommunityID, &c.UserID, &parentID, &c.Content, &c.LikeCount, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}
	if parentID.Valid {
		v := parentID.Int64
		c.ParentCommentID = &v
	}
	return c, nil
}

// SoftDelete — пометка is_deleted и декремент comment_count в одной транзакции.
func (r *commentRepository) SoftDelete(commentID int64, userID int) (bool, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return false, fmt.Errorf("delete comment begin: %w", err)
	}
	defer tx.Rollback()

	var communityID int64
	err = tx.QueryRow(`
		UPDATE comments SET is_deleted = TRUE
		WHERE comment_id = $1 AND user_id = $2 AND is_deleted = FALSE
		RETURNING community_id
	`, commentID, userID).Scan(&communityID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, tx.Commit()
		}
		return false, fmt.Errorf("delete comment: %w", err)
	}

	if _, err := tx.Exec(`UPDATE community SET comment_count = GREATEST(comment_count - 1, 0) WHERE community_id = $1`, communityID); err != nil {
		return false, fmt.Errorf("dec comment_count: %w", err)
	}
	return true, tx.Commit()
}
