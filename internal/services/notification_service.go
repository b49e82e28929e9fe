package services

import (
	"errors"
	"log"
	"strconv"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/push"
	"github.com/dong279/mumu-express/internal/repositories"
)

var ErrInvalidDeviceType = errors.New("device_type must be ios or android")

type NotificationService interface {
	// Notify сохраняет уведомление и best-effort рассылает пуш на все
	// активные устройства получателя.
	Notify(userID int, ntype, title, content, relatedType string, relatedID *int64)
	List(userID, limit, offset int, unreadOnly bool) ([]*models.Notification, error)
	UnreadCount(userID int) (int, error)
	MarkRead(notificationID int64, userID int) (bool, error)
	MarkAllRead(userID int) (int64, error)
	Delete(notificationID int64, userID int) (bool, error)

	RegisterDevice(userID int, deviceType, fcmToken, deviceName string) (*models.DeviceToken, error)
	RemoveDevice(userID int, fcmToken string) (bool, error)
}

type notificationService struct {
	repo   repositories.NotificationRepository
	sender *push.Sender
}

func NewNotificationService(repo repositories.NotificationRepository, sender *push.Sender) NotificationService {
	return &notificationService{repo: repo, sender: sender}
}

func (s *notificationService) Notify(userID int, ntype, title, content, relatedType string, relatedID *int64) {
	n := &models.Notification{
		UserID:      userID,
		Type:        ntype,
		Title:       title,
		Content:     content,
		RelatedType: relatedType,
		RelatedID:   relatedID,
	}
	if err := s.repo.Create(n); err != nil {
		log.Printf("[notification][notify] store failed for user %d: %v", userID, err)
		return
	}

	tokens, err := s.repo.ListActiveTokens(userID)
	if err != nil {
		log.Printf("[notification][notify] token lookup failed for user %d: %v", userID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	values := make([]string, 0, len(tokens))
	for _, t := range tokens {
		values = append(values, t.FCMToken)
	}
	data := map[string]string{"type": ntype}
	if relatedID != nil {
		data["related_type"] = relatedType
		data["related_id"] = strconv.FormatInt(*relatedID, 10)
	}

	invalid, err := s.sender.Send(values, title, content, data)
	if err != nil {
		if err != push.ErrNotConfigured {
			log.Printf("[notification][notify] push failed for user %d: %v", userID, err)
		}
		return
	}
	// мёртвые токены гасим, чтобы не долбить FCM впустую
	for _, token := range invalid {
		if err := s.repo.DeactivateTokenValue(token); err != nil {
			log.Printf("[notification][notify] deactivate dead token failed: %v", err)
		}
	}
}

func (s *notificationService) List(userID, limit, offset int, unreadOnly bool) ([]*models.Notification, error) {
	return s.repo.List(userID, limit, offset, unreadOnly)
}

func (s *notificationService) UnreadCount(userID int) (int, error) {
	return s.repo.UnreadCount(userID)
}

func (s *notificationService) MarkRead(notificationID int64, userID int) (bool, error) {
	return s.repo.MarkRead(notificationID, userID)
}

func (s *notificationService) MarkAllRead(userID int) (int64, error) {
	return s.repo.MarkAllRead(userID)
}

func (s *notificationService) Delete(notificationID int64, userID int) (bool, error) {
	return s.repo.Delete(notificationID, userID)
}

func (s *notificationService) RegisterDevice(userID int, deviceType, fcmToken, deviceName string) (*models.DeviceToken, error) {
	if deviceType != "ios" && deviceType != "android" {
		return nil, ErrInvalidDeviceType
	}
	t := &models.DeviceToken{
		UserID:     userID,
		DeviceType: deviceType,
		FCMToken:   fcmToken,
		DeviceName: deviceName,
	}
	if err := s.repo.UpsertDeviceToken(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *notificationService) RemoveDevice(userID int, fcmToken string) (bool, error) {
	return s.repo.DeactivateDeviceToken(userID, fcmToken)
}
