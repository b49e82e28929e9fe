package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dong279/mumu-express/internal/services"
)

type PhoneHandler struct {
	service services.PhoneVerificationService
}

func NewPhoneHandler(service services.PhoneVerificationService) *PhoneHandler {
	return &PhoneHandler{service: service}
}

type sendCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// @Summary      Отправка кода подтверждения
// @Description  Шлёт 6-значный код по SMS; повторная отправка не чаще раза в минуту
// @Tags         Phone
// @Accept       json
// @Produce      json
// @Param        body  body      sendCodeRequest  true  "Номер телефона"
// @Success      200   {object}  map[string]interface{}
// @Failure      429   {object}  map[string]interface{}
// @Router       /phone/send-code [post]
func (h *PhoneHandler) SendCode(c *gin.Context) {
	var req sendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	devCode, err := h.service.RequestCode(req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := gin.H{"success": true, "message": "Verification code sent"}
	if devCode != "" {
		// только вне production, для ручной отладки
		resp["dev_code"] = devCode
	}
	c.JSON(http.StatusOK, resp)
}

type verifyCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// @Summary      Проверка кода
// @Description  До 5 попыток на код; с токеном дополнительно привязывает номер к аккаунту
// @Tags         Phone
// @Accept       json
// @Produce      json
// @Param        body  body      verifyCodeRequest  true  "Номер и код"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      429   {object}  map[string]interface{}
// @Router       /phone/verify-code [post]
func (h *PhoneHandler) VerifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	res, err := h.service.VerifyCode(req.Phone, req.Code, userIDFromCtx(c))
	if err == services.ErrCodeMismatch {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":            false,
			"error":              err.Error(),
			"attempts_remaining": res.AttemptsRemaining,
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "verified": true})
}

// @Summary      Статус кода для номера
// @Tags         Phone
// @Produce      json
// @Param        phone  query     string  true  "Номер телефона"
// @Success      200    {object}  map[string]interface{}
// @Router       /phone/status [get]
func (h *PhoneHandler) Status(c *gin.Context) {
	phone := c.Query("phone")
	pending, err := h.service.HasPendingCode(phone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "pending": pending})
}
