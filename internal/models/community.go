package models

import "time"

var ValidCategories = []string{"question", "info", "brag", "review", "free"}

type CommunityPost struct {
	CommunityID   int64            `json:"community_id"`
	UserID        int              `json:"user_id"`
	UserName      string           `json:"user_name,omitempty"`
	PetID         *int64           `json:"pet_id,omitempty"`
	Category      string           `json:"category"`
	Title         string           `json:"title"`
	Content       string           `json:"content"`
	Hashtags      []string         `json:"hashtags"`
	ViewCount     int              `json:"view_count"`
	LikeCount     int              `json:"like_count"`
	CommentCount  int              `json:"comment_count"`
	BookmarkCount int              `json:"bookmark_count"`
	IsBest        bool             `json:"is_best"`
	Media         []CommunityMedia `json:"media,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

type CommunityMedia struct {
	CommunityMediaID int64  `json:"community_media_id"`
	CommunityID      int64  `json:"community_id"`
	MediaType        string `json:"media_type"` // image | video
	FilePath         string `json:"file_path"`
	DisplayOrder     int    `json:"display_order"`
	FileSize         *int64 `json:"file_size,omitempty"`
}

type Comment struct {
	CommentID       int64     `json:"comment_id"`
	CommunityID     int64     `json:"community_id"`
	UserID          int       `json:"user_id"`
	UserName        string    `json:"user_name,omitempty"`
	ParentCommentID *int64    `json:"parent_comment_id,omitempty"`
	Content         string    `json:"content"`
	LikeCount       int       `json:"like_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// PostFilter — параметры выборки ленты.
type PostFilter struct {
	Category string
	Hashtag  string
	Query    string
	BestOnly bool
	Limit    int
	Offset   int
}
