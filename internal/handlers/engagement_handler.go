package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dong279/mumu-express/internal/services"
)

type EngagementHandler struct {
	service services.CommunityService
}

func NewEngagementHandler(service services.CommunityService) *EngagementHandler {
	return &EngagementHandler{service: service}
}

// @Summary      Лайк поста (toggle)
// @Description  Повторный вызов снимает лайк; возвращает свежий счётчик
// @Tags         Likes
// @Produce      json
// @Security     BearerAuth
// @Param        communityId  path      int  true  "ID поста"
// @Success      200          {object}  map[string]interface{}
// @Router       /likes/community/{communityId} [post]
func (h *EngagementHandler) ToggleLike(c *gin.Context) {
	id, ok := paramInt64(c, "communityId")
	if !ok {
		return
	}
	res, err := h.service.ToggleLike(userIDFromCtx(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "liked": res.Active, "like_count": res.Count})
}

// @Summary      Лайк комментария (toggle)
// @Tags         Likes
// @Produce      json
// @Security     BearerAuth
// @Param        commentId  path      int  true  "ID комментария"
// @Success      200        {object}  map[string]interface{}
// @Router       /likes/comment/{commentId} [post]
func (h *EngagementHandler) ToggleCommentLike(c *gin.Context) {
	id, ok := paramInt64(c, "commentId")
	if !ok {
		return
	}
	res, err := h.service.ToggleCommentLike(userIDFromCtx(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "liked": res.Active, "like_count": res.Count})
}

// @Summary      Закладка (toggle)
// @Tags         Bookmarks
// @Produce      json
// @Security     BearerAuth
// @Param        communityId  path      int  true  "ID поста"
// @Success      200          {object}  map[string]interface{}
// @Router       /bookmarks/{communityId} [post]
func (h *EngagementHandler) ToggleBookmark(c *gin.Context) {
	id, ok := paramInt64(c, "communityId")
	if !ok {
		return
	}
	res, err := h.service.ToggleBookmark(userIDFromCtx(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookmarked": res.Active, "bookmark_count": res.Count})
}

// @Summary      Мои закладки
// @Tags         Bookmarks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /bookmarks [get]
func (h *EngagementHandler) ListBookmarks(c *gin.Context) {
	limit, offset := pagination(c)
	posts, err := h.service.ListBookmarks(userIDFromCtx(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "posts": posts})
}
