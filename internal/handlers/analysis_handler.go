package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/services"
)

// AnalysisHandler обслуживает все виды анализа: kind приходит параметром
// маршрута (/analyses/:kind/...).
type AnalysisHandler struct {
	service       services.AnalysisService
	webhookSecret string
}

func NewAnalysisHandler(service services.AnalysisService, webhookSecret string) *AnalysisHandler {
	return &AnalysisHandler{service: service, webhookSecret: webhookSecret}
}

type createAnalysisRequest struct {
	PetID     int64  `json:"pet_id" binding:"required"`
	MediaPath string `json:"media_path"`
}

// @Summary      Запросить анализ
// @Description  Ставит заявку в processing; результат придёт вебхуком от AI-сервиса
// @Tags         Analyses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string                 true  "behavior | sound | food_safety | health_check"
// @Param        body  body      createAnalysisRequest  true  "Заявка"
// @Success      201   {object}  map[string]interface{}
// @Router       /analyses/{kind} [post]
func (h *AnalysisHandler) Create(c *gin.Context) {
	var req createAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	a := &models.Analysis{
		Kind:      c.Param("kind"),
		PetID:     req.PetID,
		UserID:    userIDFromCtx(c),
		MediaPath: req.MediaPath,
	}
	if err := h.service.Create(a); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "analysis": a})
}

// @Summary      Анализ
// @Tags         Analyses
// @Produce      json
// @Security     BearerAuth
// @Param        kind        path      string  true  "Вид анализа"
// @Param        analysisId  path      int     true  "ID анализа"
// @Success      200         {object}  map[string]interface{}
// @Failure      404         {object}  map[string]interface{}
// @Router       /analyses/{kind}/{analysisId} [get]
func (h *AnalysisHandler) Get(c *gin.Context) {
	id, ok := paramInt64(c, "analysisId")
	if !ok {
		return
	}
	a, err := h.service.Get(c.Param("kind"), id, userIDFromCtx(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "analysis": a})
}

// @Summary      Анализы питомца
// @Tags         Analyses
// @Produce      json
// @Security     BearerAuth
// @Param        kind   path      string  true  "Вид анализа"
// @Param        petId  path      int     true  "ID питомца"
// @Success      200    {object}  map[string]interface{}
// @Router       /analyses/{kind}/pet/{petId} [get]
func (h *AnalysisHandler) ListByPet(c *gin.Context) {
	petID, ok := paramInt64(c, "petId")
	if !ok {
		return
	}
	limit, offset := pagination(c)
	analyses, err := h.service.ListByPet(c.Param("kind"), petID, userIDFromCtx(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "analyses": analyses})
}

type webhookRequest struct {
	AnalysisID     int64           `json:"analysis_id" binding:"required"`
	Status         string          `json:"status" binding:"required"` // completed | failed
	Result         json.RawMessage `json:"result"`
	ModelVersion   string          `json:"model_version"`
	ProcessingTime *float64        `json:"processing_time"`
}

// @Summary      Вебхук AI-сервиса
// @Description  Принимает результат; защищён заголовком X-AI-Webhook-Secret
// @Tags         Analyses
// @Accept       json
// @Produce      json
// @Param        kind  path      string          true  "Вид анализа"
// @Param        body  body      webhookRequest  true  "Результат"
// @Success      200   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Router       /analyses/{kind}/webhook [post]
func (h *AnalysisHandler) Webhook(c *gin.Context) {
	if h.webhookSecret != "" {
		got := c.GetHeader("X-AI-Webhook-Secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.webhookSecret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid webhook secret"})
			return
		}
	}

	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	failed := req.Status == "failed"
	err := h.service.IngestResult(c.Param("kind"), req.AnalysisID, req.Result, req.ModelVersion, req.ProcessingTime, failed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Result accepted"})
}
