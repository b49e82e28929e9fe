package services

import (
	"errors"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/repositories"
)

var ErrSelfFollow = errors.New("cannot follow yourself")

type FollowService interface {
	Follow(followerID, targetID int) (created bool, err error)
	Unfollow(followerID, targetID int) (removed bool, err error)
	ListFollowers(userID, limit, offset int) ([]*models.PublicUser, error)
	ListFollowing(userID, limit, offset int) ([]*models.PublicUser, error)
}

type followService struct {
	repo repositories.FollowRepository
}

func NewFollowService(repo repositories.FollowRepository) FollowService {
	return &followService{repo: repo}
}

func (s *followService) Follow(followerID, targetID int) (bool, error) {
	if followerID == targetID {
		return false, ErrSelfFollow
	}
	exists, err := s.repo.TargetExists(targetID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrUserNotFound
	}
	return s.repo.Follow(followerID, targetID)
}

func (s *followService) Unfollow(followerID, targetID int) (bool, error) {
	if followerID == targetID {
		return false, ErrSelfFollow
	}
	return s.repo.Unfollow(followerID, targetID)
}

func (s *followService) ListFollowers(userID, limit, offset int) ([]*models.PublicUser, error) {
	return s.repo.ListFollowers(userID, limit, offset)
}

func (s *followService) ListFollowing(userID, limit, offset int) ([]*models.PublicUser, error) {
	return s.repo.ListFollowing(userID, limit, offset)
}
