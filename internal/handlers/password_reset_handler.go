package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dong279/mumu-express/internal/services"
)

type PasswordResetHandler struct {
	service services.PasswordResetService
}

func NewPasswordResetHandler(service services.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{service: service}
}

type resetRequestBody struct {
	Phone string `json:"phone" binding:"required"`
}

// @Summary      Запрос сброса пароля
// @Description  Ответ одинаков для зарегистрированных и незарегистрированных номеров
// @Tags         Password
// @Accept       json
// @Produce      json
// @Param        body  body      resetRequestBody  true  "Номер телефона"
// @Success      200   {object}  map[string]interface{}
// @Router       /password/reset-request [post]
func (h *PasswordResetHandler) RequestReset(c *gin.Context) {
	var req resetRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.service.RequestReset(req.Phone); err != nil {
		respondError(c, err)
		return
	}
	// текст ответа не зависит от того, найден ли номер
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "If the phone number is registered, a reset token has been sent",
	})
}

type resetConfirmBody struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// @Summary      Подтверждение сброса пароля
// @Description  Меняет пароль по токену и отзывает все refresh-токены
// @Tags         Password
// @Accept       json
// @Produce      json
// @Param        body  body      resetConfirmBody  true  "Токен и новый пароль"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Router       /password/reset-confirm [post]
func (h *PasswordResetHandler) ConfirmReset(c *gin.Context) {
	var req resetConfirmBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.service.ConfirmReset(req.Token, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated"})
}
