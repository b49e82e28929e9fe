package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dong279/mumu-express/internal/services"
)

func TestStatusForValidationErrors(t *testing.T) {
	for _, err := range []error{
		services.ErrLoginIDLength,
		services.ErrPasswordTooShort,
		services.ErrInvalidPhone,
		services.ErrAgreementRequired,
		services.ErrSelfFollow,
		services.ErrInvalidCategory,
		services.ErrInvalidAnalysisKind,
	} {
		if got := statusFor(err); got != http.StatusBadRequest {
			t.Errorf("statusFor(%v) = %d, want 400", err, got)
		}
	}
}

func TestStatusForTaxonomy(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{services.ErrAccountInactive, http.StatusForbidden},
		{services.ErrUserNotFound, http.StatusNotFound},
		{services.ErrPetNotFound, http.StatusNotFound},
		{services.ErrLoginIDTaken, http.StatusConflict},
		{services.ErrPhoneTaken, http.StatusConflict},
		{services.ErrAlreadyReported, http.StatusConflict},
		{services.ErrRateLimited, http.StatusTooManyRequests},
		{services.ErrTooManyAttempts, http.StatusTooManyRequests},
		{errors.New("pq: connection refused"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := statusFor(c.err); got != c.want {
			t.Errorf("statusFor(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestStatusForSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("register: %w", services.ErrLoginIDLength)
	if got := statusFor(wrapped); got != http.StatusBadRequest {
		t.Errorf("statusFor(wrapped) = %d, want 400", got)
	}
}
