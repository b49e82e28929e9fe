package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dong279/mumu-express/internal/services"
)

type NotificationHandler struct {
	service services.NotificationService
}

func NewNotificationHandler(service services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// @Summary      Мои уведомления
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unread  query     bool  false  "Только непрочитанные"
// @Success      200     {object}  map[string]interface{}
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	if limit > 100 {
		limit = 100
	}
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))

	notifications, err := h.service.List(userIDFromCtx(c), limit, offset, unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	count, err := h.service.UnreadCount(userIDFromCtx(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"notifications": notifications,
		"unread_count":  count,
	})
}

// @Summary      Прочитать уведомление
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Param        notificationId  path      int  true  "ID уведомления"
// @Success      200             {object}  map[string]interface{}
// @Router       /notifications/{notificationId}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := paramInt64(c, "notificationId")
	if !ok {
		return
	}
	updated, err := h.service.MarkRead(id, userIDFromCtx(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification read"})
}

// @Summary      Прочитать все
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	n, err := h.service.MarkAllRead(userIDFromCtx(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": n})
}

// @Summary      Удалить уведомление
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Param        notificationId  path      int  true  "ID уведомления"
// @Success      200             {object}  map[string]interface{}
// @Router       /notifications/{notificationId} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := paramInt64(c, "notificationId")
	if !ok {
		return
	}
	removed, err := h.service.Delete(id, userIDFromCtx(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification deleted"})
}

type registerDeviceRequest struct {
	DeviceType string `json:"device_type" binding:"required"`
	FCMToken   string `json:"fcm_token" binding:"required"`
	DeviceName string `json:"device_name"`
}

// @Summary      Регистрация FCM-токена
// @Description  Upsert: токен переезжает к текущему пользователю и реактивируется
// @Tags         FCM
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerDeviceRequest  true  "Токен устройства"
// @Success      200   {object}  map[string]interface{}
// @Router       /fcm/register [post]
func (h *NotificationHandler) RegisterDevice(c *gin.Context) {
	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	token, err := h.service.RegisterDevice(userIDFromCtx(c), req.DeviceType, req.FCMToken, req.DeviceName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "device_token": token})
}

type removeDeviceRequest struct {
	FCMToken string `json:"fcm_token" binding:"required"`
}

// @Summary      Удаление FCM-токена
// @Tags         FCM
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      removeDeviceRequest  true  "Токен устройства"
// @Success      200   {object}  map[string]interface{}
// @Router       /fcm/unregister [post]
func (h *NotificationHandler) RemoveDevice(c *gin.Context) {
	var req removeDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	removed, err := h.service.RemoveDevice(userIDFromCtx(c), req.FCMToken)
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Device token not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Device token removed"})
}
