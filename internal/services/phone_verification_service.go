package services

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/dong279/mumu-express/internal/repositories"
	"github.com/dong279/mumu-express/internal/utils"
)

var (
	ErrInvalidPhone      = errors.New("invalid phone number format")
	ErrRateLimited       = errors.New("verification code was sent recently, try again later")
	ErrCodeNotFound      = errors.New("no pending verification code")
	ErrTooManyAttempts   = errors.New("too many verification attempts, request a new code")
	ErrCodeMismatch      = errors.New("verification code does not match")
	ErrPhoneAlreadyInUse = errors.New("phone number is already in use")
)

const (
	codeTTL        = 5 * time.Minute
	resendCooldown = 1 * time.Minute
	maxAttempts    = 5
)

var phonePattern = regexp.MustCompile(`^[0-9+\-]{7,20}$`)

type VerifyResult struct {
	Verified          bool
	AttemptsRemaining int
}

type PhoneVerificationService interface {
	// RequestCode шлёт код и в dev-режиме возвращает его для отладки.
	RequestCode(phone string) (devCode string, err error)
	// VerifyCode проверяет код; при userID > 0 привязывает номер к аккаунту.
	VerifyCode(phone, code string, userID int) (*VerifyResult, error)
	HasPendingCode(phone string) (bool, error)
}

type phoneVerificationService struct {
	repo       repositories.PhoneVerificationRepository
	users      repositories.UserRepository
	sms        *utils.SMSClient
	production bool
}

func NewPhoneVerificationService(repo repositories.PhoneVerificationRepository, users repositories.UserRepository, sms *utils.SMSClient, production bool) PhoneVerificationService {
	return &phoneVerificationService{repo: repo, users: users, sms: sms, production: production}
}

func (s *phoneVerificationService) RequestCode(phone string) (string, error) {
	if !phonePattern.MatchString(phone) {
		return "", ErrInvalidPhone
	}

	// кулдаун 60 секунд на номер
	recent, err := s.repo.HasRecent(phone, time.Now().Add(-resendCooldown))
	if err != nil {
		return "", err
	}
	if recent {
		return "", ErrRateLimited
	}

	code, err := utils.NewVerificationCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	if _, err := s.repo.Create(phone, code, time.Now().Add(codeTTL)); err != nil {
		return "", err
	}

	if err := s.sms.Send(phone, "[mumu] verification code: "+code); err != nil {
		return "", err
	}
	log.Printf("[phone][send-code] code sent to %s", phone)

	if !s.production {
		return code, nil
	}
	return "", nil
}

func (s *phoneVerificationService) VerifyCode(phone, code string, userID int) (*VerifyResult, error) {
	if !phonePattern.MatchString(phone) {
		return nil, ErrInvalidPhone
	}

	v, err := s.repo.GetLatestUsable(phone)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrCodeNotFound
	}

	if v.Attempts >= maxAttempts {
		// исчерпано — запись гасится насовсем, нужен новый код
		if err := s.repo.Invalidate(v.PhoneVerificationID); err != nil {
			return nil, err
		}
		return nil, ErrTooManyAttempts
	}

	if v.Code != code {
		attemptsBefore := v.Attempts
		if _, err := s.repo.IncrementAttempts(v.PhoneVerificationID); err != nil {
			return nil, err
		}
		return &VerifyResult{Verified: false, AttemptsRemaining: maxAttempts - 1 - attemptsBefore}, ErrCodeMismatch
	}

	if err := s.repo.MarkVerified(v.PhoneVerificationID); err != nil {
		return nil, err
	}

	// привязка номера к аккаунту только для аутентифицированного вызова
	if userID > 0 {
		owner, err := s.users.GetByPhone(phone)
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.UserID != userID {
			return nil, ErrPhoneAlreadyInUse
		}
		if err := s.users.SetPhoneVerified(userID, phone); err != nil {
			return nil, err
		}
	}

	return &VerifyResult{Verified: true}, nil
}

func (s *phoneVerificationService) HasPendingCode(phone string) (bool, error) {
	if !phonePattern.MatchString(phone) {
		return false, ErrInvalidPhone
	}
	v, err := s.repo.GetLatestUsable(phone)
	if err != nil {
		return false, err
	}
	return v != nil && v.Attempts < maxAttempts, nil
}
