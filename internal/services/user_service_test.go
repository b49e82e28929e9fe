package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dong279/mumu-express/internal/models"
)

func boolPtr(v bool) *bool { return &v }

func validRegisterRequest() *models.RegisterRequest {
	return &models.RegisterRequest{
		LoginID:       "petlover01",
		Password:      "password123",
		Name:          "Test User",
		Phone:         testPhone,
		TermsAgreed:   boolPtr(true),
		PrivacyAgreed: boolPtr(true),
	}
}

type userFixture struct {
	svc     UserService
	users   *fakeUserRepo
	refresh *fakeRefreshTokenRepo
	tokens  TokenService
}

func newUserFixture() *userFixture {
	users := newFakeUserRepo()
	refresh := newFakeRefreshTokenRepo()
	tokens := newTestTokenService(refresh)
	return &userFixture{
		svc:     NewUserService(users, NewAuthService(), tokens),
		users:   users,
		refresh: refresh,
		tokens:  tokens,
	}
}

func TestRegisterIssuesAccessToken(t *testing.T) {
	f := newUserFixture()

	user, access, err := f.svc.Register(validRegisterRequest())
	require.NoError(t, err)
	assert.NotZero(t, user.UserID)
	assert.Equal(t, models.UserStatusActive, user.Status)

	userID, err := f.tokens.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, userID)
}

func TestRegisterRequiresAgreements(t *testing.T) {
	f := newUserFixture()

	req := validRegisterRequest()
	req.PrivacyAgreed = boolPtr(false)
	_, _, err := f.svc.Register(req)
	assert.ErrorIs(t, err, ErrAgreementRequired)

	req = validRegisterRequest()
	req.TermsAgreed = nil
	_, _, err = f.svc.Register(req)
	assert.ErrorIs(t, err, ErrAgreementRequired)
}

func TestRegisterRejectsBadHandleLength(t *testing.T) {
	f := newUserFixture()

	req := validRegisterRequest()
	req.LoginID = "ab"
	_, _, err := f.svc.Register(req)
	assert.ErrorIs(t, err, ErrLoginIDLength)

	req = validRegisterRequest()
	req.LoginID = strings.Repeat("a", 51)
	_, _, err = f.svc.Register(req)
	assert.ErrorIs(t, err, ErrLoginIDLength)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	f := newUserFixture()

	req := validRegisterRequest()
	req.Password = "1234567"
	_, _, err := f.svc.Register(req)
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterRejectsDuplicateLoginID(t *testing.T) {
	f := newUserFixture()

	_, _, err := f.svc.Register(validRegisterRequest())
	require.NoError(t, err)

	req := validRegisterRequest()
	req.Phone = "01099998888"
	_, _, err = f.svc.Register(req)
	assert.ErrorIs(t, err, ErrLoginIDTaken)
}

func TestRegisterRejectsDuplicatePhone(t *testing.T) {
	f := newUserFixture()

	_, _, err := f.svc.Register(validRegisterRequest())
	require.NoError(t, err)

	req := validRegisterRequest()
	req.LoginID = "anotherone"
	_, _, err = f.svc.Register(req)
	assert.ErrorIs(t, err, ErrPhoneTaken)
}

func TestLoginHidesWhichPartWasWrong(t *testing.T) {
	f := newUserFixture()

	_, _, err := f.svc.Register(validRegisterRequest())
	require.NoError(t, err)

	// несуществующий id и неверный пароль дают одну и ту же ошибку
	_, err = f.svc.Login(&models.LoginRequest{LoginID: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(&models.LoginRequest{LoginID: "petlover01", Password: "wrongpass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginReturnsWorkingTokenPair(t *testing.T) {
	f := newUserFixture()

	user, _, err := f.svc.Register(validRegisterRequest())
	require.NoError(t, err)

	res, err := f.svc.Login(&models.LoginRequest{LoginID: "petlover01", Password: "password123", DeviceType: "ios"})
	require.NoError(t, err)
	assert.Equal(t, user.UserID, res.User.UserID)

	userID, err := f.tokens.ParseAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, userID)

	_, userID, err = f.tokens.Redeem(res.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, userID)
}

func TestDeleteAccountRevokesAllSessions(t *testing.T) {
	f := newUserFixture()

	user, _, err := f.svc.Register(validRegisterRequest())
	require.NoError(t, err)

	res, err := f.svc.Login(&models.LoginRequest{LoginID: "petlover01", Password: "password123"})
	require.NoError(t, err)

	// неверный пароль не даёт удалить аккаунт
	err = f.svc.DeleteAccount(user.UserID, "wrongpass", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, f.svc.DeleteAccount(user.UserID, "password123", "no longer needed"))

	_, _, err = f.tokens.Redeem(res.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// повторный логин по удалённому аккаунту невозможен
	_, err = f.svc.Login(&models.LoginRequest{LoginID: "petlover01", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestBlockValidation(t *testing.T) {
	f := newUserFixture()

	user, _, err := f.svc.Register(validRegisterRequest())
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Block(user.UserID, user.UserID), ErrSelfBlock)
	assert.ErrorIs(t, f.svc.Block(user.UserID, 9999), ErrUserNotFound)
}
