package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dong279/mumu-express/internal/models"
)

type PostUpdate struct {
	Category *string
	Title    *string
	Content  *string
	Hashtags []string
}

type CommunityRepository interface {
	CreatePost(post *models.CommunityPost, media []models.CommunityMedia) error
	GetPost(communityID int64) (*models.CommunityPost, error)
	ListPosts(f models.PostFilter) ([]*models.CommunityPost, error)
	ListBest(limit int) ([]*models.CommunityPost, error)
	UpdatePost(communityID int64, userID int, upd PostUpdate) (bool, error)
	SoftDeletePost(communityID int64, userID int) (bool, error)
	PostExists(communityID int64) (bool, error)
	PostOwner(communityID int64) (int, error)
	OwnedBy(communityID int64, userID int) (bool, error)
	AddMedia(communityID int64, media []models.CommunityMedia) error
	RemoveMedia(communityID, mediaID int64) (bool, error)
	ListMedia(communityID int64) ([]models.CommunityMedia, error)
}

type communityRepository struct {
	DB *sql.DB
}

func NewCommunityRepository(db *sql.DB) CommunityRepository {
	return &communityRepository{DB: db}
}

const postColumns = `
	c.community_id, c.user_id, u.name, c.pet_id, c.category, c.title, c.content,
	c.hashtags, c.view_count, c.like_count, c.comment_count, c.bookmark_count,
	c.is_best, c.created_at`

// CreatePost — пост, его медиа и community_count автора в одной транзакции.
func (r *communityRepository) CreatePost(post *models.CommunityPost, media []models.CommunityMedia) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("create post begin: %w", err)
	}
	defer tx.Rollback()

	hashtags := post.Hashtags
	if hashtags == nil {
		hashtags = []string{}
	}
	tagsJSON, err := json.Marshal(hashtags)
	if err != nil {
		return fmt.Errorf("marshal hashtags: %w", err)
	}

	var petID sql.NullInt64
	if post.PetID != nil {
		petID = sql.NullInt64{Int64: *post.PetID, Valid: true}
	}
	err = tx.QueryRow(`
		INSERT INTO community (user_id, pet_id, category, title, content, hashtags)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING community_id, created_at
	`, post.UserID, petID, post.Category, post.Title, post.Content, tagsJSON).
		Scan(&post.CommunityID, &post.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	for i := range media {
		m := &media[i]
		m.CommunityID = post.CommunityID
		m.DisplayOrder = i
		err = tx.QueryRow(`
			INSERT INTO community_media (community_id, media_type, file_path, display_order, file_size)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING community_media_id
		`, m.CommunityID, m.MediaType, m.FilePath, m.DisplayOrder, m.FileSize).Scan(&m.CommunityMediaID)
		if err != nil {
			return fmt.Errorf("insert media: %w", err)
		}
	}

	if _, err := tx.Exec(`UPDATE users SET community_count = community_count + 1 WHERE user_id = $1`, post.UserID); err != nil {
		return fmt.Errorf("inc community_count: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create post commit: %w", err)
	}
	post.Media = media
	return nil
}

func (r *communityRepository) scanPost(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.CommunityPost, error) {
	p := &models.CommunityPost{}
	var petID sql.NullInt64
	var tagsJSON []byte
	err := scanner.Scan(
		&p.CommunityID, &p.UserID, &p.UserName, &petID, &p.Category, &p.Title, &p.Content,
		&tagsJSON, &p.ViewCount, &p.LikeCount, &p.CommentCount, &p.BookmarkCount,
		&p.IsBest, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if petID.Valid {
		v := petID.Int64
		p.PetID = &v
	}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &p.Hashtags); err != nil {
			return nil, fmt.Errorf("unmarshal hashtags: %w", err)
		}
	}
	return p, nil
}

// GetPost возвращает видимый пост и атомарно увеличивает view_count.
func (r *communityRepository) GetPost(communityID int64) (*models.CommunityPost, error) {
	const q = `
		UPDATE community c
		SET view_count = c.view_count + 1
		FROM users u
		WHERE c.community_id = $1 AND u.user_id = c.user_id
		  AND c.is_deleted = FALSE AND c.is_blocked = FALSE AND u.deleted_at IS NULL
		RETURNING` + postColumns

	p, err := r.scanPost(r.DB.QueryRow(q, communityID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	media, err := r.ListMedia(communityID)
	if err != nil {
		return nil, err
	}
	p.Media = media
	return p, nil
}

func (r *communityRepository) ListPosts(f models.PostFilter) ([]*models.CommunityPost, error) {
	q := `SELECT` + postColumns + `
		FROM community c
		JOIN users u ON u.user_id = c.user_id
		WHERE c.is_deleted = FALSE AND c.is_blocked = FALSE AND u.deleted_at IS NULL`
	args := []interface{}{}
	if f.Category != "" {
		args = append(args, f.Category)
		q += ` AND c.category = $` + strconv.Itoa(len(args))
	}
	if f.Hashtag != "" {
		args = append(args, f.Hashtag)
		q += ` AND c.hashtags ? $` + strconv.Itoa(len(args))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		n := strconv.Itoa(len(args))
		q += ` AND (c.title ILIKE $` + n + ` OR c.content ILIKE $` + n + `)`
	}
	if f.BestOnly {
		q += ` AND c.is_best = TRUE`
	}
	args = append(args, f.Limit)
	q += ` ORDER BY c.is_best DESC, c.created_at DESC LIMIT $` + strconv.Itoa(len(args))
	args = append(args, f.Offset)
	q += ` OFFSET $` + strconv.Itoa(len(args))

	return r.queryPosts(q, args...)
}

func (r *communityRepository) ListBest(limit int) ([]*models.CommunityPost, error) {
	q := `SELECT` + postColumns + `
		FROM community c
		JOIN users u ON u.user_id = c.user_id
		WHERE c.is_deleted = FALSE AND c.is_blocked = FALSE AND c.is_best = TRUE
		  AND u.deleted_at IS NULL
		ORDER BY c.like_count DESC, c.created_at DESC
		LIMIT $1`
	return r.queryPosts(q, limit)
}

func (r *communityRepository) queryPosts(q string, args ...interface{}) ([]*models.CommunityPost, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var res []*models.CommunityPost
	for rows.Next() {
		p, err := r.scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *communityRepository) UpdatePost(communityID int64, userID int, upd PostUpdate) (bool, error) {
	sets := []string{}
	args := []interface{}{}
	add := func(col string, v *string) {
		if v != nil {
			args = append(args, *v)
			sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
		}
	}
	add("category", upd.Category)
	add("title", upd.Title)
	add("content", upd.Content)
	if upd.Hashtags != nil {
		tagsJSON, err := json.Marshal(upd.Hashtags)
		if err != nil {
			return false, fmt.Errorf("marshal hashtags: %w", err)
		}
		args = append(args, tagsJSON)
		sets = append(sets, "hashtags = $"+strconv.Itoa(len(args)))
	}
	if len(sets) == 0 {
		return false, nil
	}
	args = append(args, communityID)
	idPos := strconv.Itoa(len(args))
	args = append(args, userID)
	userPos := strconv.Itoa(len(args))

	q := `UPDATE community SET ` + strings.Join(sets, ", ") +
		` WHERE community_id = $` + idPos + ` AND user_id = $` + userPos + ` AND is_deleted = FALSE`
	res, err := r.DB.Exec(q, args...)
	if err != nil {
		return false, fmt.Errorf("update post: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SoftDeletePost — пометка is_deleted и декремент community_count в одной
// транзакции; счётчик двигается только если строка реально помечена.
func (r *communityRepository) SoftDeletePost(communityID int64, userID int) (bool, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return false, fmt.Errorf("delete post begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE community SET is_deleted = TRUE
		WHERE community_id = $1 AND user_id = $2 AND is_deleted = FALSE
	`, communityID, userID)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return false, tx.Commit()
	}
	if _, err := tx.Exec(`UPDATE users SET community_count = GREATEST(community_count - 1, 0) WHERE user_id = $1`, userID); err != nil {
		return false, fmt.Errorf("dec community_count: %w", err)
	}
	return true, tx.Commit()
}

func (r *communityRepository) PostExists(communityID int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM community WHERE community_id = $1 AND is_deleted = FALSE)`, communityID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("post exists: %w", err)
	}
	return exists, nil
}

// PostOwner — user_id автора видимого поста; 0, если поста нет.
func (r *communityRepository) PostOwner(communityID int64) (int, error) {
	var ownerID int
	err := r.DB.QueryRow(
		`SELECT user_id FROM community WHERE community_id = $1 AND is_deleted = FALSE AND is_blocked = FALSE`,
		communityID,
	).Scan(&ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("post owner: %w", err)
	}
	return ownerID, nil
}

func (r *communityRepository) OwnedBy(communityID int64, userID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM community WHERE community_id = $1 AND user_id = $2 AND is_deleted = FALSE)`,
		communityID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("post owned by: %w", err)
	}
	return exists, nil
}

func (r *communityRepository) AddMedia(communityID int64, media []models.CommunityMedia) error {
	var next int
	err := r.DB.QueryRow(
		`SELECT COALESCE(MAX(display_order), -1) + 1 FROM community_media WHERE community_id = $1`, communityID,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("next display order: %w", err)
	}
	for i := range media {
		m := &media[i]
		m.CommunityID = communityID
		m.DisplayOrder = next + i
		err = r.DB.QueryRow(`
			INSERT INTO community_media (community_id, media_type, file_path, display_order, file_size)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING community_media_id
		`, communityID, m.MediaType, m.FilePath, m.DisplayOrder, m.FileSize).Scan(&m.CommunityMediaID)
		if err != nil {
			return fmt.Errorf("add media: %w", err)
		}
	}
	return nil
}

func (r *communityRepository) RemoveMedia(communityID, mediaID int64) (bool, error) {
	res, err := r.DB.Exec(
		`DELETE FROM community_media WHERE community_media_id = $1 AND community_id = $2`, mediaID, communityID,
	)
	if err != nil {
		return false, fmt.Errorf("remove media: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *communityRepository) ListMedia(communityID int64) ([]models.CommunityMedia, error) {
	const q = `
		SELECT community_media_id, community_id, media_type, file_path, display_order, file_size
		FROM community_media
		WHERE community_id = $1
		ORDER BY display_order
	`
	rows, err := r.DB.Query(q, communityID)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var res []models.CommunityMedia
	for rows.Next() {
		var m models.CommunityMedia
		var size sql.NullInt64
		if err := rows.Scan(&m.CommunityMediaID, &m.CommunityID, &m.MediaType, &m.FilePath, &m.DisplayOrder, &size); err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		if size.Valid {
			v := size.Int64
			m.FileSize = &v
		}
		res = append(res, m)
	}
	return res, rows.Err()
}
