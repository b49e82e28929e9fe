package services

import (
	"errors"
	"log"
	"strings"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/repositories"
)

var (
	ErrInvalidCredentials = errors.New("invalid id or password")
	ErrLoginIDLength      = errors.New("id must be between 3 and 50 characters")
	ErrLoginIDTaken       = errors.New("id is already taken")
	ErrPhoneTaken         = errors.New("phone number is already registered")
	ErrAgreementRequired  = errors.New("terms and privacy agreement are required")
	ErrUserNotFound       = errors.New("user not found")
	ErrSelfBlock          = errors.New("cannot block yourself")
)

type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

type UserService interface {
	Register(req *models.RegisterRequest) (*models.User, string, error)
	Login(req *models.LoginRequest) (*LoginResult, error)
	GetProfile(userID int) (*models.User, error)
	UpdateProfile(userID int, upd repositories.ProfileUpdate) (*models.User, error)
	DeleteAccount(userID int, password, reason string) error

	Block(blockerID, blockedID int) error
	Unblock(blockerID, blockedID int) (bool, error)
	ListBlocked(blockerID, limit, offset int) ([]*models.PublicUser, error)
}

type userService struct {
	repo   repositories.UserRepository
	auth   AuthService
	tokens TokenService
}

func NewUserService(repo repositories.UserRepository, auth AuthService, tokens TokenService) UserService {
	return &userService{repo: repo, auth: auth, tokens: tokens}
}

func (s *userService) Register(req *models.RegisterRequest) (*models.User, string, error) {
	req.LoginID = strings.TrimSpace(req.LoginID)
	if len(req.LoginID) < 3 || len(req.LoginID) > 50 {
		return nil, "", ErrLoginIDLength
	}
	if len(req.Password) < 8 {
		return nil, "", ErrPasswordTooShort
	}
	if req.Phone != "" && !phonePattern.MatchString(req.Phone) {
		return nil, "", ErrInvalidPhone
	}
	if req.TermsAgreed == nil || !*req.TermsAgreed || req.PrivacyAgreed == nil || !*req.PrivacyAgreed {
		return nil, "", ErrAgreementRequired
	}

	if taken, err := s.repo.LoginIDExists(req.LoginID); err != nil {
		return nil, "", err
	} else if taken {
		return nil, "", ErrLoginIDTaken
	}
	if req.Phone != "" {
		if taken, err := s.repo.PhoneExists(req.Phone); err != nil {
			return nil, "", err
		} else if taken {
			return nil, "", ErrPhoneTaken
		}
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		LoginID:         req.LoginID,
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		Address:         req.Address,
		DetailAddress:   req.DetailAddress,
		PostalCode:      req.PostalCode,
		TermsAgreed:     true,
		PrivacyAgreed:   true,
		MarketingAgreed: req.MarketingAgreed != nil && *req.MarketingAgreed,
	}
	if err := s.repo.Create(user, hash); err != nil {
		// гонка на уникальном индексе
		if repositories.IsUniqueViolation(err) {
			return nil, "", ErrLoginIDTaken
		}
		return nil, "", err
	}

	access, err := s.tokens.IssueAccessToken(user.UserID)
	if err != nil {
		return nil, "", err
	}
	log.Printf("[user][register] user %d registered", user.UserID)
	return user, access, nil
}

// Login отвечает одной и той же ошибкой на несуществующий id и на
// неверный пароль, чтобы не раскрывать, какие id заняты.
func (s *userService) Login(req *models.LoginRequest) (*LoginResult, error) {
	user, err := s.repo.GetByLoginID(strings.TrimSpace(req.LoginID))
	if err != nil {
		return nil, err
	}
	if user == nil || !s.auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if user.Status != models.UserStatusActive {
		return nil, ErrAccountInactive
	}

	access, err := s.tokens.IssueAccessToken(user.UserID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(user.UserID, req.DeviceType, req.DeviceInfo)
	if err != nil {
		return nil, err
	}

	if err := s.repo.TouchLastLogin(user.UserID); err != nil {
		log.Printf("[user][login] touch last_login_at failed for user %d: %v", user.UserID, err)
	}
	return &LoginResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *userService) GetProfile(userID int) (*models.User, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) UpdateProfile(userID int, upd repositories.ProfileUpdate) (*models.User, error) {
	if upd.Phone != nil && *upd.Phone != "" && !phonePattern.MatchString(*upd.Phone) {
		return nil, ErrInvalidPhone
	}
	if err := s.repo.UpdateProfile(userID, upd); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, ErrPhoneTaken
		}
		return nil, err
	}
	return s.GetProfile(userID)
}

// DeleteAccount — мягкое удаление с проверкой пароля; все refresh-токены
// отзываются, активные сессии доживают только до истечения access-токена.
func (s *userService) DeleteAccount(userID int, password, reason string) error {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !s.auth.CheckPassword(user.PasswordHash, password) {
		return ErrInvalidCredentials
	}

	if err := s.repo.SoftDelete(userID, reason); err != nil {
		return err
	}
	if err := s.tokens.RevokeAll(userID); err != nil {
		log.Printf("[user][delete] revoke all failed for user %d: %v", userID, err)
	}
	log.Printf("[user][delete] user %d withdrew", userID)
	return nil
}

func (s *userService) Block(blockerID, blockedID int) error {
	if blockerID == blockedID {
		return ErrSelfBlock
	}
	target, err := s.repo.GetByID(blockedID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	return s.repo.Block(blockerID, blockedID)
}

func (s *userService) Unblock(blockerID, blockedID int) (bool, error) {
	return s.repo.Unblock(blockerID, blockedID)
}

func (s *userService) ListBlocked(blockerID, limit, offset int) ([]*models.PublicUser, error) {
	return s.repo.ListBlocked(blockerID, limit, offset)
}
