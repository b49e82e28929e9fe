package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubTokenService struct {
	valid  string
	userID int
}

func (s *stubTokenService) IssueAccessToken(userID int) (string, error) { return "", nil }

func (s *stubTokenService) ParseAccessToken(token string) (int, error) {
	if token == s.valid {
		return s.userID, nil
	}
	return 0, errors.New("invalid access token")
}

func (s *stubTokenService) IssueRefreshToken(userID int, deviceType, deviceInfo string) (string, error) {
	return "", nil
}

func (s *stubTokenService) Redeem(refreshToken string) (string, int, error) { return "", 0, nil }

func (s *stubTokenService) Revoke(refreshToken string) error { return nil }

func (s *stubTokenService) RevokeAll(userID int) error { return nil }

func newAuthTestRouter(required bool) (*gin.Engine, *stubTokenService) {
	gin.SetMode(gin.TestMode)
	tokens := &stubTokenService{valid: "good-token", userID: 42}

	r := gin.New()
	mw := AuthRequired(tokens)
	if !required {
		mw = AuthOptional(tokens)
	}
	r.GET("/ping", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c)})
	})
	return r, tokens
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	r, _ := newAuthTestRouter(true)

	w := doGet(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without header, got %d", w.Code)
	}

	w = doGet(r, "Basic dXNlcjpwYXNz")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for non-bearer scheme, got %d", w.Code)
	}
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	r, _ := newAuthTestRouter(true)

	w := doGet(r, "Bearer bad-token")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for invalid token, got %d", w.Code)
	}
}

func TestAuthRequiredValidToken(t *testing.T) {
	r, _ := newAuthTestRouter(true)

	w := doGet(r, "Bearer good-token")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"user_id":42}` {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestAuthRequiredCaseInsensitiveScheme(t *testing.T) {
	r, _ := newAuthTestRouter(true)

	w := doGet(r, "bearer good-token")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for lowercase scheme, got %d", w.Code)
	}
}

func TestAuthOptionalAnonymous(t *testing.T) {
	r, _ := newAuthTestRouter(false)

	w := doGet(r, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for anonymous, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"user_id":0}` {
		t.Errorf("unexpected body: %s", body)
	}

	// невалидный токен не роняет запрос, просто остаёмся анонимом
	w = doGet(r, "Bearer bad-token")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for bad token on optional route, got %d", w.Code)
	}
}

func TestAuthOptionalWithToken(t *testing.T) {
	r, _ := newAuthTestRouter(false)

	w := doGet(r, "Bearer good-token")
	if body := w.Body.String(); body != `{"user_id":42}` {
		t.Errorf("unexpected body: %s", body)
	}
}
