package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/repositories"
	"github.com/dong279/mumu-express/internal/services"
)

type CommunityHandler struct {
	service services.CommunityService
}

func NewCommunityHandler(service services.CommunityService) *CommunityHandler {
	return &CommunityHandler{service: service}
}

type createPostRequest struct {
	Category string                  `json:"category" binding:"required"`
	Title    string                  `json:"title" binding:"required"`
	Content  string                  `json:"content" binding:"required"`
	PetID    *int64                  `json:"pet_id"`
	Hashtags []string                `json:"hashtags"`
	Media    []models.CommunityMedia `json:"media"`
}

// @Summary      Создать пост
// @Tags         Community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Пост"
// @Success      201   {object}  map[string]interface{}
// @Router       /community [post]
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	post := &models.CommunityPost{
		UserID:   userIDFromCtx(c),
		PetID:    req.PetID,
		Category: req.Category,
		Title:    req.Title,
		Content:  req.Content,
		Hashtags: req.Hashtags,
	}
	if err := h.service.CreatePost(post, req.Media); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "post": post})
}

// @Summary      Лента постов
// @Description  Фильтры: category, hashtag, q, best; limit не больше 100
// @Tags         Community
// @Produce      json
// @Param        category  query     string  false  "Категория"
// @Param        hashtag   query     string  false  "Хэштег"
// @Param        q         query     string  false  "Поиск по тексту"
// @Param        best      query     bool    false  "Только лучшие"
// @Success      200       {object}  map[string]interface{}
// @Router       /community [get]
func (h *CommunityHandler) ListPosts(c *gin.Context) {
	limit, offset := pagination(c)
	best, _ := strconv.ParseBool(c.DefaultQuery("best", "false"))
	posts, err := h.service.ListPosts(models.PostFilter{
		Category: c.Query("category"),
		Hashtag:  c.Query("hashtag"),
		Query:    c.Query("q"),
		BestOnly: best,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "posts": posts})
}

// @Summary      Лучшие посты
// @Tags         Community
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /community/best [get]
func (h *CommunityHandler) ListBest(c *gin.Context) {
	limit, _ := pagination(c)
	posts, err := h.service.ListBest(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "posts": posts})
}

// @Summary      Пост
// @Description  Чтение увеличивает view_count
// @Tags         Community
// @Produce      json
// @Param        communityId  path      int  true  "ID поста"
// @Success      200          {object}  map[string]interface{}
// @Failure      404          {object}  map[string]interface{}
// @Router       /community/{communityId} [get]
func (h *CommunityHandler) GetPost(c *gin.Context) {
	id, ok := paramInt64(c, "communityId")
	if !ok {
		return
	}
	post, err := h.service.GetPost(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "post": post})
}

type updatePostRequest struct {
	Category *string  `json:"category"`
	Title    *string  `json:"title"`
	Content  *string  `json:"content"`
	Hashtags []string `json:"hashtags"`
}

// @Summary      Изменить пост
// @Tags         Community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        communityId  path      int                true  "ID поста"
// @Param        body         body      updatePostRequest  true  "Изменяемые поля"
// @Success      200          {object}  map[string]interface{}
// @Router       /community/{communityId} [put]
func (h *CommunityHandler) UpdatePost(c *gin.Context) {
	id, ok := paramInt64(c, "communityId")
	if !ok {
		return
	}
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	err := h.service.UpdatePost(id, userIDFromCtx(c), repositories.PostUpdate{
		Category: req.Category,
		Title:    req.Title,
		Content:  req.Content,
		Hashtags: req.Hashtags,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post updated"})
}

// @Summary      Удалить пост
// @Description  Мягкое удаление; community_count автора уменьшается
// @Tags         Community
// @Produce      json
// @Security     BearerAuth
// @Param        communityId  path      int  true  "ID поста"
// @Success      200          {object}  map[string]interface{}
// @Router       /community/{communityId} [delete]
func (h *CommunityHandler) DeletePost(c *gin.Context) {
	id, ok := paramInt64(c, "communityId")
	if !ok {
		return
	}
	if err := h.service.DeletePost(id, userIDFromCtx(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post deleted"})
}

type createCommentRequest struct {
	Content         string `json:"content" binding:"required"`
	ParentCommentID *int64 `json:"parent_comment_id"`
}

// @Summary      Комментарий к посту
// @Tags         Community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        communityId  path      int                   true  "ID поста"
// @Param        body         body      createCommentRequest  true  "Комментарий"
// @Success      201          {object}  map[string]interface{}
// @Router       /community/{communityId}/comments [post]
func (h *CommunityHandler) CreateComment(c *gin.Context) {
	id, ok := paramInt64(c, "communityId")
	if !ok {
		return
	}
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	comment := &models.Comment{
		CommunityID:     id,
		UserID:          userIDFromCtx(c),
		ParentCommentID: req.ParentCommentID,
		Content:         req.Content,
	}
	if err := h.service.CreateComment(comment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "comment": comment})
}

// @Summary      Комментарии поста
// @Tags         Community
// @Produce      json
// @Param        communityId  path      int  true  "ID поста"
// @Success      200          {object}  map[string]interface{}
// @Router       /community/{communityId}/comments [get]
func (h *CommunityHandler) ListComments(c *gin.Context) {
	id, ok := paramInt64(c, "communityId")
	if !ok {
		return
	}
	limit, offset := pagination(c)
	comments, err := h.service.ListComments(id, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "comments": comments})
}

type updateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// @Summary      Изменить комментарий
// @Tags         Community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        commentId  path      int                   true  "ID комментария"
// @Param        body       body      updateCommentRequest  true  "Новый текст"
// @Success      200        {object}  map[string]interface{}
// @Router       /community/comments/{commentId} [put]
func (h *CommunityHandler) UpdateComment(c *gin.Context) {
	id, ok := paramInt64(c, "commentId")
	if !ok {
		return
	}
	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	comment, err := h.service.UpdateComment(id, userIDFromCtx(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "comment": comment})
}

// @Summary      Удалить комментарий
// @Tags         Community
// @Produce      json
// @Security     BearerAuth
// @Param        commentId  path      int  true  "ID комментария"
// @Success      200        {object}  map[string]interface{}
// @Router       /community/comments/{commentId} [delete]
func (h *CommunityHandler) DeleteComment(c *gin.Context) {
	id, ok := paramInt64(c, "commentId")
	if !ok {
		return
	}
	if err := h.service.DeleteComment(id, userIDFromCtx(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Comment deleted"})
}
