package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
)

// ErrSMSNotConfigured — в production без настроенного провайдера отправка
// обязана падать, а не молча глотать код.
var ErrSMSNotConfigured = errors.New("sms provider is not configured")

type SMSClient struct {
	APIKey     string
	Sender     string
	DryRun     bool
	Production bool
}

type sendSMSResponse struct {
	Code int `json:"code"`
	Data struct {
		MessageID string `json:"messageId"`
	} `json:"data"`
}

func NewSMSClient(apiKey, sender string, dryRun, production bool) *SMSClient {
	return &SMSClient{APIKey: apiKey, Sender: sender, DryRun: dryRun, Production: production}
}

// Send отправляет SMS через провайдера. В dev-режиме код просто пишется в лог.
func (c *SMSClient) Send(to, text string) error {
	if c.DryRun || c.APIKey == "" {
		if c.Production {
			return ErrSMSNotConfigured
		}
		log.Printf("[sms][dry-run] to=%s text=%q", to, text)
		return nil
	}

	form := url.Values{
		"apiKey":    {c.APIKey},
		"recipient": {to},
		"text":      {text},
	}
	if c.Sender != "" {
		form.Set("from", c.Sender)
	}

	resp, err := http.PostForm("https://api.mobizon.kz/service/message/sendsmsmessage", form)
	if err != nil {
		return fmt.Errorf("send sms request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var result sendSMSResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("parse sms response: %w", err)
	}
	if result.Code != 0 {
		return fmt.Errorf("sms provider returned error code: %d", result.Code)
	}
	log.Printf("[sms][send] ok to=%s messageID=%s", to, result.Data.MessageID)
	return nil
}
