package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dong279/mumu-express/internal/utils"
)

type resetFixture struct {
	svc    PasswordResetService
	users  *fakeUserRepo
	resets *fakePasswordResetRepo
	tokens *fakeRefreshTokenRepo
	auth   AuthService
}

func newResetFixture(t *testing.T) *resetFixture {
	t.Helper()
	users := newFakeUserRepo()
	resets := newFakePasswordResetRepo()
	refreshRepo := newFakeRefreshTokenRepo()
	auth := NewAuthService()
	tokens := newTestTokenService(refreshRepo)
	sms := utils.NewSMSClient("", "", true, false)
	return &resetFixture{
		svc:    NewPasswordResetService(users, resets, tokens, auth, sms, nil),
		users:  users,
		resets: resets,
		tokens: refreshRepo,
		auth:   auth,
	}
}

func (f *resetFixture) registerUser(t *testing.T, phone, password string) int {
	t.Helper()
	hash, err := f.auth.HashPassword(password)
	require.NoError(t, err)
	u := newTestUser("resetuser", phone)
	require.NoError(t, f.users.Create(u, hash))
	return u.UserID
}

func TestRequestResetSilentForUnknownPhone(t *testing.T) {
	f := newResetFixture(t)

	// незарегистрированный номер отвечает так же, как зарегистрированный
	require.NoError(t, f.svc.RequestReset(testPhone))
	assert.Empty(t, f.resets.rows)
}

func TestRequestResetRejectsBadPhone(t *testing.T) {
	f := newResetFixture(t)
	assert.ErrorIs(t, f.svc.RequestReset("???"), ErrInvalidPhone)
}

func TestRequestResetInvalidatesPreviousTokens(t *testing.T) {
	f := newResetFixture(t)
	f.registerUser(t, testPhone, "password123")

	require.NoError(t, f.svc.RequestReset(testPhone))
	first := f.resets.latestToken()
	require.NoError(t, f.svc.RequestReset(testPhone))

	// старый токен погашен вторым запросом
	err := f.svc.ConfirmReset(first, "newpassword1")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestConfirmResetUpdatesPasswordAndRevokesSessions(t *testing.T) {
	f := newResetFixture(t)
	userID := f.registerUser(t, testPhone, "oldpassword")

	tokens := newTestTokenService(f.tokens)
	refresh, err := tokens.IssueRefreshToken(userID, "ios", "")
	require.NoError(t, err)

	require.NoError(t, f.svc.RequestReset(testPhone))
	token := f.resets.latestToken()
	require.NotEmpty(t, token)

	require.NoError(t, f.svc.ConfirmReset(token, "newpassword1"))

	u, err := f.users.GetByID(userID)
	require.NoError(t, err)
	assert.True(t, f.auth.CheckPassword(u.PasswordHash, "newpassword1"))
	assert.False(t, f.auth.CheckPassword(u.PasswordHash, "oldpassword"))

	// смена пароля разлогинила все устройства
	_, _, err = tokens.Redeem(refresh)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// токен одноразовый
	err = f.svc.ConfirmReset(token, "anotherpass1")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestConfirmResetRejectsShortPassword(t *testing.T) {
	f := newResetFixture(t)
	assert.ErrorIs(t, f.svc.ConfirmReset("whatever", "short"), ErrPasswordTooShort)
}

func TestConfirmResetRejectsExpiredToken(t *testing.T) {
	f := newResetFixture(t)
	userID := f.registerUser(t, testPhone, "password123")

	_, err := f.resets.Create(userID, "expired-token", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	err = f.svc.ConfirmReset("expired-token", "newpassword1")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestConfirmResetRejectsUnknownToken(t *testing.T) {
	f := newResetFixture(t)
	err := f.svc.ConfirmReset("no-such-token", "newpassword1")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}
