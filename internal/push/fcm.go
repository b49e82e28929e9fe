package push

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// ErrNotConfigured — без серверного ключа пуши не отправляются.
var ErrNotConfigured = errors.New("fcm server key is not configured")

const legacyEndpoint = "https://fcm.googleapis.com/fcm/send"

// Sender — минимальный клиент legacy HTTP API FCM. Возвращает список
// токенов, которые шлюз признал мёртвыми, чтобы вызывающий их погасил.
type Sender struct {
	ServerKey string
	Endpoint  string
	Client    *http.Client
}

func NewSender(serverKey string) *Sender {
	return &Sender{
		ServerKey: serverKey,
		Endpoint:  legacyEndpoint,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type message struct {
	To           string            `json:"to"`
	Notification map[string]string `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmResult struct {
	Error string `json:"error"`
}

type fcmResponse struct {
	Success int         `json:"success"`
	Failure int         `json:"failure"`
	Results []fcmResult `json:"results"`
}

// Send шлёт уведомление на каждый токен по отдельности.
func (s *Sender) Send(tokens []string, title, body string, data map[string]string) (invalid []string, err error) {
	if s.ServerKey == "" {
		return nil, ErrNotConfigured
	}

	for _, token := range tokens {
		dead, err := s.sendOne(token, title, body, data)
		if err != nil {
			log.Printf("[push][send] token delivery failed: %v", err)
			continue
		}
		if dead {
			invalid = append(invalid, token)
		}
	}
	return invalid, nil
}

func (s *Sender) sendOne(token, title, body string, data map[string]string) (invalid bool, err error) {
	payload, err := json.Marshal(message{
		To:           token,
		Notification: map[string]string{"title": title, "body": body},
		Data:         data,
	})
	if err != nil {
		return false, fmt.Errorf("marshal fcm message: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.ServerKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("fcm request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("fcm returned status %d", resp.StatusCode)
	}

	var parsed fcmResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return false, fmt.Errorf("parse fcm response: %w", err)
	}
	for _, r := range parsed.Results {
		if r.Error == "NotRegistered" || r.Error == "InvalidRegistration" {
			return true, nil
		}
	}
	return false, nil
}
