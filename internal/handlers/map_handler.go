package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dong279/mumu-express/internal/utils"
)

type MapHandler struct {
	kakao *utils.KakaoClient
}

func NewMapHandler(kakao *utils.KakaoClient) *MapHandler {
	return &MapHandler{kakao: kakao}
}

func (h *MapHandler) kakaoError(c *gin.Context, err error) {
	if err == utils.ErrKakaoNotConfigured {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Map service is not configured"})
		return
	}
	respondError(c, err)
}

// @Summary      Поиск мест
// @Description  Прокси к Kakao Local keyword search
// @Tags         Map
// @Produce      json
// @Param        query   query     string  true   "Поисковая строка"
// @Param        x       query     string  false  "Долгота центра"
// @Param        y       query     string  false  "Широта центра"
// @Param        radius  query     int     false  "Радиус в метрах"
// @Success      200     {object}  map[string]interface{}
// @Router       /map/search [get]
func (h *MapHandler) SearchKeyword(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "query is required"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "15"))
	radius, _ := strconv.Atoi(c.DefaultQuery("radius", "0"))

	res, err := h.kakao.SearchByKeyword(query, utils.KeywordSearchOptions{
		Page:   page,
		Size:   size,
		X:      c.Query("x"),
		Y:      c.Query("y"),
		Radius: radius,
	})
	if err != nil {
		h.kakaoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": res})
}

// @Summary      Поиск адреса
// @Tags         Map
// @Produce      json
// @Param        query  query     string  true  "Адрес"
// @Success      200    {object}  map[string]interface{}
// @Router       /map/address [get]
func (h *MapHandler) SearchAddress(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "query is required"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	res, err := h.kakao.SearchByAddress(query, page, size)
	if err != nil {
		h.kakaoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": res})
}

// @Summary      Координаты в адрес
// @Tags         Map
// @Produce      json
// @Param        x  query     string  true  "Долгота"
// @Param        y  query     string  true  "Широта"
// @Success      200  {object}  map[string]interface{}
// @Router       /map/coord2address [get]
func (h *MapHandler) Coord2Address(c *gin.Context) {
	x, y := c.Query("x"), c.Query("y")
	if x == "" || y == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "x and y are required"})
		return
	}
	res, err := h.kakao.Coord2Address(x, y)
	if err != nil {
		h.kakaoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": res})
}
