package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/services"
)

type HealthReportHandler struct {
	service services.HealthReportService
}

func NewHealthReportHandler(service services.HealthReportService) *HealthReportHandler {
	return &HealthReportHandler{service: service}
}

type createHealthReportRequest struct {
	PetID       int64  `json:"pet_id" binding:"required"`
	ReportType  string `json:"report_type" binding:"required"` // weekly | monthly
	PeriodStart string `json:"period_start"`                   // YYYY-MM-DD
	PeriodEnd   string `json:"period_end"`
	Summary     string `json:"summary"`
}

// @Summary      Создать отчёт о здоровье
// @Tags         HealthReports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createHealthReportRequest  true  "Отчёт"
// @Success      201   {object}  map[string]interface{}
// @Router       /health-reports [post]
func (h *HealthReportHandler) Create(c *gin.Context) {
	var req createHealthReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	hr := &models.HealthReport{
		PetID:      req.PetID,
		UserID:     userIDFromCtx(c),
		ReportType: req.ReportType,
		Summary:    req.Summary,
	}
	parseDate := func(raw string, dst *time.Time) bool {
		if raw == "" {
			return true
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "period dates must be YYYY-MM-DD"})
			return false
		}
		*dst = t
		return true
	}
	if !parseDate(req.PeriodStart, &hr.PeriodStart) || !parseDate(req.PeriodEnd, &hr.PeriodEnd) {
		return
	}

	if err := h.service.Create(hr); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "report": hr})
}

// @Summary      Отчёт о здоровье
// @Tags         HealthReports
// @Produce      json
// @Security     BearerAuth
// @Param        reportId  path      int  true  "ID отчёта"
// @Success      200       {object}  map[string]interface{}
// @Failure      404       {object}  map[string]interface{}
// @Router       /health-reports/{reportId} [get]
func (h *HealthReportHandler) Get(c *gin.Context) {
	id, ok := paramInt64(c, "reportId")
	if !ok {
		return
	}
	hr, err := h.service.Get(id, userIDFromCtx(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": hr})
}

// @Summary      Отчёты питомца
// @Tags         HealthReports
// @Produce      json
// @Security     BearerAuth
// @Param        petId  path      int  true  "ID питомца"
// @Success      200    {object}  map[string]interface{}
// @Router       /health-reports/pet/{petId} [get]
func (h *HealthReportHandler) ListByPet(c *gin.Context) {
	petID, ok := paramInt64(c, "petId")
	if !ok {
		return
	}
	limit, offset := pagination(c)
	reports, err := h.service.ListByPet(petID, userIDFromCtx(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reports": reports})
}

// @Summary      PDF отчёта
// @Tags         HealthReports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        reportId  path  int  true  "ID отчёта"
// @Success      200       {file}  binary
// @Router       /health-reports/{reportId}/pdf [get]
func (h *HealthReportHandler) DownloadPDF(c *gin.Context) {
	id, ok := paramInt64(c, "reportId")
	if !ok {
		return
	}
	data, err := h.service.RenderPDF(id, userIDFromCtx(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="health-report-%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", data)
}
