package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/repositories"
)

var (
	ErrInvalidCategory = errors.New("invalid post category")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotPostOwner    = errors.New("post does not belong to you")
)

const maxPageSize = 100

type ToggleResult struct {
	Active bool `json:"active"`
	Count  int  `json:"count"`
}

type CommunityService interface {
	CreatePost(post *models.CommunityPost, media []models.CommunityMedia) error
	GetPost(communityID int64) (*models.CommunityPost, error)
	ListPosts(f models.PostFilter) ([]*models.CommunityPost, error)
	ListBest(limit int) ([]*models.CommunityPost, error)
	UpdatePost(communityID int64, userID int, upd repositories.PostUpdate) error
	DeletePost(communityID int64, userID int) error

	CreateComment(comment *models.Comment) error
	ListComments(communityID int64, limit, offset int) ([]*models.Comment, error)
	UpdateComment(commentID int64, userID int, content string) (*models.Comment, error)
	DeleteComment(commentID int64, userID int) error

	ToggleLike(userID int, communityID int64) (*ToggleResult, error)
	ToggleCommentLike(userID int, commentID int64) (*ToggleResult, error)
	ToggleBookmark(userID int, communityID int64) (*ToggleResult, error)
	ListBookmarks(userID, limit, offset int) ([]*models.CommunityPost, error)
}

type communityService struct {
	posts         repositories.CommunityRepository
	comments      repositories.CommentRepository
	engagement    repositories.EngagementRepository
	notifications NotificationService
}

func NewCommunityService(posts repositories.CommunityRepository, comments repositories.CommentRepository, engagement repositories.EngagementRepository, notifications NotificationService) CommunityService {
	return &communityService{posts: posts, comments: comments, engagement: engagement, notifications: notifications}
}

func validCategory(category string) bool {
	for _, c := range models.ValidCategories {
		if c == category {
			return true
		}
	}
	return false
}

func clampPageSize(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func (s *communityService) CreatePost(post *models.CommunityPost, media []models.CommunityMedia) error {
	if !validCategory(post.Category) {
		return ErrInvalidCategory
	}
	if post.Title == "" || post.Content == "" {
		return fmt.Errorf("title and content are required")
	}
	return s.posts.CreatePost(post, media)
}

func (s *communityService) GetPost(communityID int64) (*models.CommunityPost, error) {
	post, err := s.posts.GetPost(communityID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *communityService) ListPosts(f models.PostFilter) ([]*models.CommunityPost, error) {
	if f.Category != "" && !validCategory(f.Category) {
		return nil, ErrInvalidCategory
	}
	f.Limit = clampPageSize(f.Limit)
	return s.posts.ListPosts(f)
}

func (s *communityService) ListBest(limit int) ([]*models.CommunityPost, error) {
	return s.posts.ListBest(clampPageSize(limit))
}

func (s *communityService) UpdatePost(communityID int64, userID int, upd repositories.PostUpdate) error {
	if upd.Category != nil && !validCategory(*upd.Category) {
		return ErrInvalidCategory
	}
	ok, err := s.posts.UpdatePost(communityID, userID, upd)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPostNotFound
	}
	return nil
}

func (s *communityService) DeletePost(communityID int64, userID int) error {
	ok, err := s.posts.SoftDeletePost(communityID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPostNotFound
	}
	return nil
}

func (s *communityService) CreateComment(comment *models.Comment) error {
	if comment.Content == "" {
		return fmt.Errorf("content is required")
	}
	ownerID, err := s.posts.PostOwner(comment.CommunityID)
	if err != nil {
		return err
	}
	if ownerID == 0 {
		return ErrPostNotFound
	}
	if err := s.comments.Create(comment); err != nil {
		return err
	}

	// уведомляем автора поста, кроме самокомментариев
	if ownerID != comment.UserID {
		id := comment.CommunityID
		s.notifications.Notify(ownerID, "comment", "New comment",
			fmt.Sprintf("%s commented on your post", comment.UserName), "community", &id)
	}
	return nil
}

func (s *communityService) ListComments(communityID int64, limit, offset int) ([]*models.Comment, error) {
	exists, err := s.posts.PostExists(communityID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPostNotFound
	}
	return s.comments.List(communityID, clampPageSize(limit), offset)
}

func (s *communityService) UpdateComment(commentID int64, userID int, content string) (*models.Comment, error) {
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}
	c, err := s.comments.Update(commentID, userID, content)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCommentNotFound
	}
	return c, nil
}

func (s *communityService) DeleteComment(commentID int64, userID int) error {
	ok, err := s.comments.SoftDelete(commentID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCommentNotFound
	}
	return nil
}

func (s *communityService) ToggleLike(userID int, communityID int64) (*ToggleResult, error) {
	exists, err := s.posts.PostExists(communityID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPostNotFound
	}
	liked, count, err := s.engagement.ToggleCommunityLike(userID, communityID)
	if err != nil {
		return nil, err
	}
	if liked {
		log.Printf("[community][like] user %d liked post %d", userID, communityID)
	}
	return &ToggleResult{Active: liked, Count: count}, nil
}

func (s *communityService) ToggleCommentLike(userID int, commentID int64) (*ToggleResult, error) {
	liked, count, err := s.engagement.ToggleCommentLike(userID, commentID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Active: liked, Count: count}, nil
}

func (s *communityService) ToggleBookmark(userID int, communityID int64) (*ToggleResult, error) {
	exists, err := s.posts.PostExists(communityID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPostNotFound
	}
	bookmarked, count, err := s.engagement.ToggleBookmark(userID, communityID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Active: bookmarked, Count: count}, nil
}

func (s *communityService) ListBookmarks(userID, limit, offset int) ([]*models.CommunityPost, error) {
	return s.engagement.ListBookmarks(userID, clampPageSize(limit), offset)
}
