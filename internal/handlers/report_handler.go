package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/services"
)

type ReportHandler struct {
	service services.ReportService
}

func NewReportHandler(service services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

type createReportRequest struct {
	ReportedType string `json:"reported_type" binding:"required"`
	ReportedID   int64  `json:"reported_id" binding:"required"`
	Reason       string `json:"reason" binding:"required"`
	Description  string `json:"description"`
}

// @Summary      Пожаловаться
// @Description  Повторная жалоба на тот же объект даёт 409
// @Tags         Reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReportRequest  true  "Жалоба"
// @Success      201   {object}  map[string]interface{}
// @Failure      409   {object}  map[string]interface{}
// @Router       /reports [post]
func (h *ReportHandler) Create(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	report := &models.Report{
		ReporterID:   userIDFromCtx(c),
		ReportedType: req.ReportedType,
		ReportedID:   req.ReportedID,
		Reason:       req.Reason,
		Description:  req.Description,
	}
	if err := h.service.Create(report); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "report": report})
}

// @Summary      Мои жалобы
// @Tags         Reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /reports [get]
func (h *ReportHandler) ListMine(c *gin.Context) {
	limit, offset := pagination(c)
	reports, err := h.service.ListMine(userIDFromCtx(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reports": reports})
}
