package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/services"
)

type HospitalHandler struct {
	service services.HospitalService
}

func NewHospitalHandler(service services.HospitalService) *HospitalHandler {
	return &HospitalHandler{service: service}
}

// @Summary      Поиск больниц
// @Description  По имени и/или в радиусе от точки; сортировка по рейтингу или дистанции
// @Tags         Hospitals
// @Produce      json
// @Param        name    query     string  false  "Название"
// @Param        lat     query     number  false  "Широта"
// @Param        lng     query     number  false  "Долгота"
// @Param        radius  query     number  false  "Радиус в км (по умолчанию 5)"
// @Success      200     {object}  map[string]interface{}
// @Router       /hospitals [get]
func (h *HospitalHandler) Search(c *gin.Context) {
	limit, offset := pagination(c)
	f := models.HospitalSearch{
		Name:   c.Query("name"),
		Limit:  limit,
		Offset: offset,
	}
	if v := c.Query("lat"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid lat"})
			return
		}
		f.Lat = &lat
	}
	if v := c.Query("lng"); v != "" {
		lng, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid lng"})
			return
		}
		f.Lng = &lng
	}
	if v := c.Query("radius"); v != "" {
		f.RadiusKm, _ = strconv.ParseFloat(v, 64)
	}

	hospitals, err := h.service.Search(f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "hospitals": hospitals})
}

// @Summary      Больница
// @Description  Детали с ценами и последними отзывами
// @Tags         Hospitals
// @Produce      json
// @Param        hospitalId  path      int  true  "ID больницы"
// @Success      200         {object}  map[string]interface{}
// @Failure      404         {object}  map[string]interface{}
// @Router       /hospitals/{hospitalId} [get]
func (h *HospitalHandler) GetDetail(c *gin.Context) {
	id, ok := paramInt64(c, "hospitalId")
	if !ok {
		return
	}
	detail, err := h.service.GetDetail(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "hospital": detail})
}

// @Summary      Сравнение цен
// @Tags         Hospitals
// @Produce      json
// @Param        treatment_type  query     string  false  "Тип лечения"
// @Param        species         query     string  false  "Вид животного"
// @Success      200             {object}  map[string]interface{}
// @Router       /hospitals/prices [get]
func (h *HospitalHandler) SearchPrices(c *gin.Context) {
	limit, offset := pagination(c)
	prices, err := h.service.SearchPrices(c.Query("treatment_type"), c.Query("species"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "prices": prices})
}

// @Summary      Отзывы больницы
// @Tags         Hospitals
// @Produce      json
// @Param        hospitalId  path      int  true  "ID больницы"
// @Success      200         {object}  map[string]interface{}
// @Router       /hospitals/{hospitalId}/reviews [get]
func (h *HospitalHandler) ListReviews(c *gin.Context) {
	id, ok := paramInt64(c, "hospitalId")
	if !ok {
		return
	}
	limit, offset := pagination(c)
	reviews, err := h.service.ListReviews(id, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
}

type hospitalReviewRequest struct {
	Rating         int    `json:"rating" binding:"required"`
	PetID          *int64 `json:"pet_id"`
	TreatmentType  string `json:"treatment_type"`
	Cost           *int64 `json:"cost"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	KindnessRating *int   `json:"kindness_rating"`
	FacilityRating *int   `json:"facility_rating"`
	PriceRating    *int   `json:"price_rating"`
}

// @Summary      Оставить отзыв
// @Description  Рейтинг 1..5; средний рейтинг больницы пересчитывается сразу
// @Tags         Hospitals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        hospitalId  path      int                    true  "ID больницы"
// @Param        body        body      hospitalReviewRequest  true  "Отзыв"
// @Success      201         {object}  map[string]interface{}
// @Router       /hospitals/{hospitalId}/reviews [post]
func (h *HospitalHandler) CreateReview(c *gin.Context) {
	id, ok := paramInt64(c, "hospitalId")
	if !ok {
		return
	}
	var req hospitalReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	review := &models.HospitalReview{
		HospitalID:     id,
		UserID:         userIDFromCtx(c),
		PetID:          req.PetID,
		Rating:         req.Rating,
		TreatmentType:  req.TreatmentType,
		Cost:           req.Cost,
		Title:          req.Title,
		Content:        req.Content,
		KindnessRating: req.KindnessRating,
		FacilityRating: req.FacilityRating,
		PriceRating:    req.PriceRating,
	}
	if err := h.service.CreateReview(review); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "review": review})
}

// @Summary      Избранная больница (toggle)
// @Tags         Hospitals
// @Produce      json
// @Security     BearerAuth
// @Param        hospitalId  path      int  true  "ID больницы"
// @Success      200         {object}  map[string]interface{}
// @Router       /hospitals/{hospitalId}/favorite [post]
func (h *HospitalHandler) ToggleFavorite(c *gin.Context) {
	id, ok := paramInt64(c, "hospitalId")
	if !ok {
		return
	}
	favorited, err := h.service.ToggleFavorite(userIDFromCtx(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "favorited": favorited})
}

// @Summary      Избранные больницы
// @Tags         Hospitals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /hospitals/favorites [get]
func (h *HospitalHandler) ListFavorites(c *gin.Context) {
	limit, offset := pagination(c)
	hospitals, err := h.service.ListFavorites(userIDFromCtx(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "hospitals": hospitals})
}
