package services

import (
	"errors"
	"log"
	"time"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/repositories"
	"github.com/dong279/mumu-express/internal/utils"
)

var (
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters")
)

const resetTokenTTL = 30 * time.Minute

type PasswordResetService interface {
	// RequestReset всегда возвращает nil для валидного формата номера:
	// ответ не должен выдавать, зарегистрирован ли телефон.
	RequestReset(phone string) error
	ConfirmReset(token, newPassword string) error
}

type passwordResetService struct {
	users  repositories.UserRepository
	resets repositories.PasswordResetRepository
	tokens TokenService
	auth   AuthService
	sms    *utils.SMSClient
	emails EmailService
}

func NewPasswordResetService(users repositories.UserRepository, resets repositories.PasswordResetRepository, tokens TokenService, auth AuthService, sms *utils.SMSClient, emails EmailService) PasswordResetService {
	return &passwordResetService{users: users, resets: resets, tokens: tokens, auth: auth, sms: sms, emails: emails}
}

func (s *passwordResetService) RequestReset(phone string) error {
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}

	user, err := s.users.GetByPhone(phone)
	if err != nil {
		log.Printf("[password-reset][request] lookup failed: %v", err)
		return nil
	}
	if user == nil || user.Status != models.UserStatusActive {
		// номер не зарегистрирован — отвечаем так же, как при успехе
		return nil
	}

	// новый токен гасит все прежние неиспользованные
	if err := s.resets.InvalidateUnusedForUser(user.UserID); err != nil {
		log.Printf("[password-reset][request] invalidate failed for user %d: %v", user.UserID, err)
		return nil
	}

	token, err := utils.NewOpaqueToken(32)
	if err != nil {
		log.Printf("[password-reset][request] token generation failed: %v", err)
		return nil
	}
	if _, err := s.resets.Create(user.UserID, token, time.Now().Add(resetTokenTTL)); err != nil {
		log.Printf("[password-reset][request] create failed for user %d: %v", user.UserID, err)
		return nil
	}

	if err := s.sms.Send(phone, "[mumu] password reset token: "+token); err != nil {
		log.Printf("[password-reset][request] sms failed for user %d: %v", user.UserID, err)
	}
	if s.emails != nil && user.Email != "" {
		if err := s.emails.SendPasswordResetEmail(user.Email, token); err != nil {
			log.Printf("[password-reset][request] email failed for user %d: %v", user.UserID, err)
		}
	}
	return nil
}

func (s *passwordResetService) ConfirmReset(token, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	pr, err := s.resets.GetByToken(token)
	if err != nil {
		return err
	}
	if pr == nil || pr.UsedAt != nil || time.Now().After(pr.ExpiresAt) {
		return ErrResetTokenInvalid
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(pr.UserID, hash); err != nil {
		return err
	}
	if err := s.resets.MarkUsed(pr.PasswordResetID); err != nil {
		return err
	}

	// смена пароля разлогинивает все устройства
	if err := s.tokens.RevokeAll(pr.UserID); err != nil {
		log.Printf("[password-reset][confirm] revoke all failed for user %d: %v", pr.UserID, err)
	}
	log.Printf("[password-reset][confirm] password updated for user %d", pr.UserID)
	return nil
}
