package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dong279/mumu-express/internal/services"
)

type FollowHandler struct {
	service services.FollowService
}

func NewFollowHandler(service services.FollowService) *FollowHandler {
	return &FollowHandler{service: service}
}

// @Summary      Подписаться
// @Description  Идемпотентно: повторная подписка не меняет счётчики
// @Tags         Follows
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "ID пользователя"
// @Success      200     {object}  map[string]interface{}
// @Failure      404     {object}  map[string]interface{}
// @Router       /follows/{userId} [post]
func (h *FollowHandler) Follow(c *gin.Context) {
	targetID, ok := paramInt(c, "userId")
	if !ok {
		return
	}
	created, err := h.service.Follow(userIDFromCtx(c), targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "followed": true, "created": created})
}

// @Summary      Отписаться
// @Tags         Follows
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "ID пользователя"
// @Success      200     {object}  map[string]interface{}
// @Router       /follows/{userId} [delete]
func (h *FollowHandler) Unfollow(c *gin.Context) {
	targetID, ok := paramInt(c, "userId")
	if !ok {
		return
	}
	removed, err := h.service.Unfollow(userIDFromCtx(c), targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "followed": false, "removed": removed})
}

// @Summary      Подписчики пользователя
// @Tags         Follows
// @Produce      json
// @Param        userId  path      int  true  "ID пользователя"
// @Success      200     {object}  map[string]interface{}
// @Router       /follows/followers/{userId} [get]
func (h *FollowHandler) Followers(c *gin.Context) {
	userID, ok := paramInt(c, "userId")
	if !ok {
		return
	}
	limit, offset := pagination(c)
	users, err := h.service.ListFollowers(userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

// @Summary      Подписки пользователя
// @Tags         Follows
// @Produce      json
// @Param        userId  path      int  true  "ID пользователя"
// @Success      200     {object}  map[string]interface{}
// @Router       /follows/following/{userId} [get]
func (h *FollowHandler) Following(c *gin.Context) {
	userID, ok := paramInt(c, "userId")
	if !ok {
		return
	}
	limit, offset := pagination(c)
	users, err := h.service.ListFollowing(userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

// @Summary      Мои подписчики
// @Tags         Follows
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /follows/me/followers [get]
func (h *FollowHandler) MyFollowers(c *gin.Context) {
	limit, offset := pagination(c)
	users, err := h.service.ListFollowers(userIDFromCtx(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

// @Summary      Мои подписки
// @Tags         Follows
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /follows/me/following [get]
func (h *FollowHandler) MyFollowing(c *gin.Context) {
	limit, offset := pagination(c)
	users, err := h.service.ListFollowing(userIDFromCtx(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}
