package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dong279/mumu-express/internal/services"
)

var devMode bool

// SetDevMode включает подробные сообщения у 500-х ответов.
func SetDevMode(enabled bool) {
	devMode = enabled
}

func userIDFromCtx(c *gin.Context) int {
	v, ok := c.Get("user_id")
	if !ok {
		return 0
	}
	id, _ := v.(int)
	return id
}

func paramInt64(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

func paramInt(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidRefreshToken),
		errors.Is(err, services.ErrInvalidAccessToken):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrAccountInactive):
		return http.StatusForbidden
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPostNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrPetNotFound),
		errors.Is(err, services.ErrHospitalNotFound),
		errors.Is(err, services.ErrAnalysisNotFound),
		errors.Is(err, services.ErrHealthReportMissing),
		errors.Is(err, services.ErrReportTargetMissing),
		errors.Is(err, services.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrLoginIDTaken),
		errors.Is(err, services.ErrPhoneTaken),
		errors.Is(err, services.ErrPhoneAlreadyInUse),
		errors.Is(err, services.ErrAlreadyReported):
		return http.StatusConflict
	case errors.Is(err, services.ErrRateLimited),
		errors.Is(err, services.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, services.ErrInvalidPhone),
		errors.Is(err, services.ErrCodeMismatch),
		errors.Is(err, services.ErrLoginIDLength),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrResetTokenInvalid),
		errors.Is(err, services.ErrAgreementRequired),
		errors.Is(err, services.ErrSelfFollow),
		errors.Is(err, services.ErrSelfBlock),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidSpecies),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrInvalidDeviceType),
		errors.Is(err, services.ErrInvalidReportTarget),
		errors.Is(err, services.ErrInvalidReportReason),
		errors.Is(err, services.ErrInvalidReportType),
		errors.Is(err, services.ErrInvalidAnalysisKind):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError переводит сентинел-ошибки сервисов в коды ответа.
// Текст внутренних ошибок наружу уходит только в dev-режиме.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("[http][%s] internal error: %v", c.FullPath(), err)
		if !devMode {
			msg = "Internal server error"
		}
	}
	c.JSON(status, gin.H{"success": false, "error": msg})
}
