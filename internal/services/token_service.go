package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dong279/mumu-express/internal/config"
	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/repositories"
	"github.com/dong279/mumu-express/internal/utils"
)

var (
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrAccountInactive     = errors.New("account is not active")
	ErrInvalidAccessToken  = errors.New("invalid access token")
)

// TokenService выпускает access-JWT и управляет жизненным циклом
// refresh-токенов. Refresh-токен при обмене НЕ ротируется: одно
// устройство держит один токен до logout или истечения.
type TokenService interface {
	IssueAccessToken(userID int) (string, error)
	ParseAccessToken(token string) (int, error)
	IssueRefreshToken(userID int, deviceType, deviceInfo string) (string, error)
	Redeem(refreshToken string) (accessToken string, userID int, err error)
	Revoke(refreshToken string) error
	RevokeAll(userID int) error
}

type tokenService struct {
	repo       repositories.RefreshTokenRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(repo repositories.RefreshTokenRepository, cfg config.JWTConfig) TokenService {
	return &tokenService{
		repo:       repo,
		secret:     []byte(cfg.Secret),
		accessTTL:  time.Duration(cfg.AccessTTLHours) * time.Hour,
		refreshTTL: time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour,
	}
}

func (s *tokenService) IssueAccessToken(userID int) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": userID,
		"iat":    now.Unix(),
		"exp":    now.Add(s.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func (s *tokenService) ParseAccessToken(tokenStr string) (int, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidAccessToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidAccessToken
	}
	id, ok := claims["userId"].(float64)
	if !ok {
		return 0, ErrInvalidAccessToken
	}
	return int(id), nil
}

// IssueRefreshToken — 64 случайных байта в hex, по записи на устройство.
func (s *tokenService) IssueRefreshToken(userID int, deviceType, deviceInfo string) (string, error) {
	token, err := utils.NewOpaqueToken(64)
	if err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	expiresAt := time.Now().Add(s.refreshTTL)
	if _, err := s.repo.Create(userID, token, deviceType, deviceInfo, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

// Redeem обменивает живой refresh-токен на новый access-токен.
// Успех только двигает last_used_at; сам токен остаётся прежним.
func (s *tokenService) Redeem(refreshToken string) (string, int, error) {
	rt, err := s.repo.GetLive(refreshToken)
	if err != nil {
		return "", 0, err
	}
	if rt == nil {
		return "", 0, ErrInvalidRefreshToken
	}
	if rt.OwnerStatus != models.UserStatusActive {
		return "", 0, ErrAccountInactive
	}

	if err := s.repo.TouchLastUsed(rt.RefreshTokenID); err != nil {
		log.Printf("[token][redeem] touch last_used_at failed for token %d: %v", rt.RefreshTokenID, err)
	}

	access, err := s.IssueAccessToken(rt.UserID)
	if err != nil {
		return "", 0, err
	}
	return access, rt.UserID, nil
}

func (s *tokenService) Revoke(refreshToken string) error {
	return s.repo.Revoke(refreshToken)
}

func (s *tokenService) RevokeAll(userID int) error {
	return s.repo.RevokeAllForUser(userID)
}
