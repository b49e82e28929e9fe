package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/repositories"
	"github.com/dong279/mumu-express/internal/services"
)

type PetHandler struct {
	service services.PetService
}

func NewPetHandler(service services.PetService) *PetHandler {
	return &PetHandler{service: service}
}

type petRequest struct {
	Name            string   `json:"name"`
	Species         string   `json:"species"`
	Breed           string   `json:"breed"`
	Gender          string   `json:"gender"`
	BirthDate       string   `json:"birth_date"` // YYYY-MM-DD
	Weight          *float64 `json:"weight"`
	ProfileImage    string   `json:"profile_image"`
	Neutered        bool     `json:"neutered"`
	Allergies       string   `json:"allergies"`
	ChronicDiseases string   `json:"chronic_diseases"`
	Medications     string   `json:"medications"`
}

func parseBirthDate(c *gin.Context, raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "birth_date must be YYYY-MM-DD"})
		return nil, false
	}
	return &t, true
}

// @Summary      Добавить питомца
// @Tags         Pets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      petRequest  true  "Питомец"
// @Success      201   {object}  map[string]interface{}
// @Router       /pets [post]
func (h *PetHandler) Create(c *gin.Context) {
	var req petRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	birthDate, ok := parseBirthDate(c, req.BirthDate)
	if !ok {
		return
	}

	pet := &models.Pet{
		UserID:          userIDFromCtx(c),
		Name:            req.Name,
		Species:         req.Species,
		Breed:           req.Breed,
		Gender:          req.Gender,
		BirthDate:       birthDate,
		Weight:          req.Weight,
		ProfileImage:    req.ProfileImage,
		Neutered:        req.Neutered,
		Allergies:       req.Allergies,
		ChronicDiseases: req.ChronicDiseases,
		Medications:     req.Medications,
	}
	if err := h.service.Create(pet); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "pet": pet})
}

// @Summary      Мои питомцы
// @Tags         Pets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /pets [get]
func (h *PetHandler) List(c *gin.Context) {
	pets, err := h.service.List(userIDFromCtx(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "pets": pets})
}

// @Summary      Питомец
// @Tags         Pets
// @Produce      json
// @Security     BearerAuth
// @Param        petId  path      int  true  "ID питомца"
// @Success      200    {object}  map[string]interface{}
// @Failure      404    {object}  map[string]interface{}
// @Router       /pets/{petId} [get]
func (h *PetHandler) Get(c *gin.Context) {
	id, ok := paramInt64(c, "petId")
	if !ok {
		return
	}
	pet, err := h.service.Get(id, userIDFromCtx(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "pet": pet})
}

type petUpdateRequest struct {
	Name            *string  `json:"name"`
	Species         *string  `json:"species"`
	Breed           *string  `json:"breed"`
	Gender          *string  `json:"gender"`
	BirthDate       *string  `json:"birth_date"`
	Weight          *float64 `json:"weight"`
	ProfileImage    *string  `json:"profile_image"`
	Neutered        *bool    `json:"neutered"`
	Allergies       *string  `json:"allergies"`
	ChronicDiseases *string  `json:"chronic_diseases"`
	Medications     *string  `json:"medications"`
}

// @Summary      Изменить питомца
// @Tags         Pets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        petId  path      int               true  "ID питомца"
// @Param        body   body      petUpdateRequest  true  "Изменяемые поля"
// @Success      200    {object}  map[string]interface{}
// @Router       /pets/{petId} [put]
func (h *PetHandler) Update(c *gin.Context) {
	id, ok := paramInt64(c, "petId")
	if !ok {
		return
	}
	var req petUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	upd := repositories.PetUpdate{
		Name:            req.Name,
		Species:         req.Species,
		Breed:           req.Breed,
		Gender:          req.Gender,
		Weight:          req.Weight,
		ProfileImage:    req.ProfileImage,
		Neutered:        req.Neutered,
		Allergies:       req.Allergies,
		ChronicDiseases: req.ChronicDiseases,
		Medications:     req.Medications,
	}
	if req.BirthDate != nil {
		birthDate, ok := parseBirthDate(c, *req.BirthDate)
		if !ok {
			return
		}
		upd.BirthDate = birthDate
	}

	pet, err := h.service.Update(id, userIDFromCtx(c), upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "pet": pet})
}

// @Summary      Удалить питомца
// @Tags         Pets
// @Produce      json
// @Security     BearerAuth
// @Param        petId  path      int  true  "ID питомца"
// @Success      200    {object}  map[string]interface{}
// @Router       /pets/{petId} [delete]
func (h *PetHandler) Delete(c *gin.Context) {
	id, ok := paramInt64(c, "petId")
	if !ok {
		return
	}
	if err := h.service.Delete(id, userIDFromCtx(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Pet removed"})
}
