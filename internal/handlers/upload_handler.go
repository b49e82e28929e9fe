package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dong279/mumu-express/internal/utils"
)

// Разрешённые подкаталоги хранилища.
var uploadKinds = map[string]bool{
	"community": true,
	"pets":      true,
	"analyses":  true,
	"profile":   true,
}

type UploadHandler struct {
	store *utils.FileStore
}

func NewUploadHandler(store *utils.FileStore) *UploadHandler {
	return &UploadHandler{store: store}
}

// @Summary      Загрузка медиафайла
// @Description  Принимает multipart-файл и возвращает путь для media_path
// @Tags         Uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        kind  query     string  false  "community | pets | analyses | profile"
// @Param        file  formData  file    true   "Файл"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Router       /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	kind := c.DefaultQuery("kind", "community")
	if !uploadKinds[kind] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid upload kind"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "file is required"})
		return
	}

	path, err := h.store.Save(c, file, kind)
	if err != nil {
		if err == utils.ErrUnsupportedFileType {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unsupported file type"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"path":    path,
		"url":     "/uploads/" + path,
	})
}
