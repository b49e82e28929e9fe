package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/repositories"
	"github.com/dong279/mumu-express/internal/services"
)

type UserHandler struct {
	service services.UserService
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// @Summary      Регистрация
// @Description  Создаёт аккаунт и сразу выдаёт access-токен
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      models.RegisterRequest  true  "Данные регистрации"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      409   {object}  map[string]interface{}
// @Router       /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	user, access, err := h.service.Register(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"user":         user,
		"access_token": access,
	})
}

// @Summary      Вход
// @Description  Проверяет пароль, выдаёт access- и refresh-токены
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      models.LoginRequest  true  "Данные входа"
// @Success      200   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      403   {object}  map[string]interface{}
// @Router       /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	res, err := h.service.Login(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"user":          res.User,
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
	})
}

// @Summary      Мой профиль
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /users/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.service.GetProfile(userIDFromCtx(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

type updateProfileRequest struct {
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	DetailAddress *string `json:"detail_address"`
	PostalCode    *string `json:"postal_code"`
	ProfileImage  *string `json:"profile_image"`
}

// @Summary      Обновление профиля
// @Description  Частичное обновление, передаются только изменяемые поля
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Изменяемые поля"
// @Success      200   {object}  map[string]interface{}
// @Router       /users/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	user, err := h.service.UpdateProfile(userIDFromCtx(c), repositories.ProfileUpdate{
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		DetailAddress: req.DetailAddress,
		PostalCode:    req.PostalCode,
		ProfileImage:  req.ProfileImage,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// @Summary      Заблокировать пользователя
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "ID пользователя"
// @Success      200     {object}  map[string]interface{}
// @Router       /users/{userId}/block [post]
func (h *UserHandler) Block(c *gin.Context) {
	targetID, ok := paramInt(c, "userId")
	if !ok {
		return
	}
	if err := h.service.Block(userIDFromCtx(c), targetID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User blocked"})
}

// @Summary      Разблокировать пользователя
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "ID пользователя"
// @Success      200     {object}  map[string]interface{}
// @Router       /users/{userId}/block [delete]
func (h *UserHandler) Unblock(c *gin.Context) {
	targetID, ok := paramInt(c, "userId")
	if !ok {
		return
	}
	removed, err := h.service.Unblock(userIDFromCtx(c), targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Block not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User unblocked"})
}

// @Summary      Список заблокированных
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /users/blocked [get]
func (h *UserHandler) ListBlocked(c *gin.Context) {
	limit, offset := pagination(c)
	users, err := h.service.ListBlocked(userIDFromCtx(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

type deleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
	Reason   string `json:"reason"`
}

// @Summary      Удаление аккаунта
// @Description  Мягкое удаление с проверкой пароля; отзывает все refresh-токены
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      deleteAccountRequest  true  "Пароль и причина"
// @Success      200   {object}  map[string]interface{}
// @Router       /users/account [delete]
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	var req deleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := h.service.DeleteAccount(userIDFromCtx(c), req.Password, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account deleted"})
}
