package services

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dong279/mumu-express/internal/utils"
)

const testPhone = "01012345678"

func newTestPhoneService(repo *fakePhoneVerificationRepo, users *fakeUserRepo) PhoneVerificationService {
	sms := utils.NewSMSClient("", "", true, false)
	return NewPhoneVerificationService(repo, users, sms, false)
}

func TestRequestCodeReturnsDevCode(t *testing.T) {
	svc := newTestPhoneService(newFakePhoneVerificationRepo(), newFakeUserRepo())

	code, err := svc.RequestCode(testPhone)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)
}

func TestRequestCodeRejectsBadPhone(t *testing.T) {
	svc := newTestPhoneService(newFakePhoneVerificationRepo(), newFakeUserRepo())

	_, err := svc.RequestCode("not a phone")
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestRequestCodeCooldown(t *testing.T) {
	svc := newTestPhoneService(newFakePhoneVerificationRepo(), newFakeUserRepo())

	_, err := svc.RequestCode(testPhone)
	require.NoError(t, err)

	_, err = svc.RequestCode(testPhone)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestVerifyCodeSuccess(t *testing.T) {
	repo := newFakePhoneVerificationRepo()
	svc := newTestPhoneService(repo, newFakeUserRepo())

	code, err := svc.RequestCode(testPhone)
	require.NoError(t, err)

	res, err := svc.VerifyCode(testPhone, code, 0)
	require.NoError(t, err)
	assert.True(t, res.Verified)

	// запись погашена, второй раз тем же кодом не пройти
	_, err = svc.VerifyCode(testPhone, code, 0)
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestVerifyCodeMismatchCountsDown(t *testing.T) {
	repo := newFakePhoneVerificationRepo()
	svc := newTestPhoneService(repo, newFakeUserRepo())

	code, err := svc.RequestCode(testPhone)
	require.NoError(t, err)
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for want := 4; want >= 0; want-- {
		res, err := svc.VerifyCode(testPhone, wrong, 0)
		assert.ErrorIs(t, err, ErrCodeMismatch)
		require.NotNil(t, res)
		assert.Equal(t, want, res.AttemptsRemaining)
	}

	// шестой заход: попытки исчерпаны, запись гасится насовсем
	_, err = svc.VerifyCode(testPhone, code, 0)
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	// даже верный код больше не принимается
	_, err = svc.VerifyCode(testPhone, code, 0)
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestVerifyCodeBindsPhoneToAccount(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestPhoneService(newFakePhoneVerificationRepo(), users)

	auth := NewAuthService()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	owner := newTestUser("petlover", "")
	require.NoError(t, users.Create(owner, hash))

	code, err := svc.RequestCode(testPhone)
	require.NoError(t, err)

	res, err := svc.VerifyCode(testPhone, code, owner.UserID)
	require.NoError(t, err)
	assert.True(t, res.Verified)

	stored, err := users.GetByID(owner.UserID)
	require.NoError(t, err)
	assert.Equal(t, testPhone, stored.Phone)
	assert.True(t, stored.PhoneVerified)
}

func TestVerifyCodeRejectsPhoneOwnedByOther(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestPhoneService(newFakePhoneVerificationRepo(), users)

	owner := newTestUser("first", testPhone)
	require.NoError(t, users.Create(owner, "hash"))
	claimer := newTestUser("second", "")
	require.NoError(t, users.Create(claimer, "hash"))

	code, err := svc.RequestCode(testPhone)
	require.NoError(t, err)

	_, err = svc.VerifyCode(testPhone, code, claimer.UserID)
	assert.ErrorIs(t, err, ErrPhoneAlreadyInUse)
}

func TestHasPendingCode(t *testing.T) {
	svc := newTestPhoneService(newFakePhoneVerificationRepo(), newFakeUserRepo())

	pending, err := svc.HasPendingCode(testPhone)
	require.NoError(t, err)
	assert.False(t, pending)

	code, err := svc.RequestCode(testPhone)
	require.NoError(t, err)

	pending, err = svc.HasPendingCode(testPhone)
	require.NoError(t, err)
	assert.True(t, pending)

	_, err = svc.VerifyCode(testPhone, code, 0)
	require.NoError(t, err)

	pending, err = svc.HasPendingCode(testPhone)
	require.NoError(t, err)
	assert.False(t, pending)
}
