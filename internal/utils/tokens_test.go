package utils

import (
	"regexp"
	"testing"
)

func TestNewOpaqueTokenLength(t *testing.T) {
	token, err := NewOpaqueToken(64)
	if err != nil {
		t.Fatalf("NewOpaqueToken(64) error = %v", err)
	}
	if len(token) != 128 {
		t.Errorf("expected 128 hex chars, got %d", len(token))
	}
	if !regexp.MustCompile(`^[0-9a-f]+$`).MatchString(token) {
		t.Errorf("token is not lowercase hex: %s", token)
	}
}

func TestNewOpaqueTokenDefaultSize(t *testing.T) {
	token, err := NewOpaqueToken(0)
	if err != nil {
		t.Fatalf("NewOpaqueToken(0) error = %v", err)
	}
	if len(token) != 64 {
		t.Errorf("expected 64 hex chars for default size, got %d", len(token))
	}
}

func TestNewOpaqueTokenUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := NewOpaqueToken(32)
		if err != nil {
			t.Fatalf("NewOpaqueToken(32) error = %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = true
	}
}

func TestNewVerificationCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 50; i++ {
		code, err := NewVerificationCode()
		if err != nil {
			t.Fatalf("NewVerificationCode() error = %v", err)
		}
		if !pattern.MatchString(code) {
			t.Errorf("expected 6 digits, got %q", code)
		}
	}
}
