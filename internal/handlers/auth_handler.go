package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dong279/mumu-express/internal/services"
)

type AuthHandler struct {
	tokens services.TokenService
	users  services.UserService
}

func NewAuthHandler(tokens services.TokenService, users services.UserService) *AuthHandler {
	return &AuthHandler{tokens: tokens, users: users}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// @Summary      Обмен refresh-токена
// @Description  Выдаёт новый access-токен; refresh-токен остаётся прежним
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh-токен"
// @Success      200   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      403   {object}  map[string]interface{}
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	access, userID, err := h.tokens.Redeem(req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"access_token": access,
		"user_id":      userID,
	})
}

// @Summary      Выход
// @Description  Отзывает переданный refresh-токен
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh-токен"
// @Success      200   {object}  map[string]interface{}
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := h.tokens.Revoke(req.RefreshToken); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// @Summary      Выход со всех устройств
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	if err := h.tokens.RevokeAll(userIDFromCtx(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out on all devices"})
}
