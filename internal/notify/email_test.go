package notify

import (
	"context"
	"testing"
)

func TestNewResendSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewResendSender(ResendConfig{
		APIKey:    "",
		FromEmail: "hola@parcefx.com",
	}, nil)

	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewResendSender_DefaultFromName(t *testing.T) {
	sender := NewResendSender(ResendConfig{
		APIKey:    "test-key",
		FromEmail: "hola@parcefx.com",
	}, nil)

	if sender == nil {
		t.Fatal("expected non-nil sender")
	}
	if sender.fromName != "ParceFX" {
		t.Errorf("expected default from name ParceFX, got %q", sender.fromName)
	}
}

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "",
		FromEmail: "hola@parcefx.com",
	}, nil)

	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewSESSender_NilWithoutClient(t *testing.T) {
	if sender := NewSESSender(nil, SESConfig{FromEmail: "hola@parcefx.com"}, nil); sender != nil {
		t.Error("expected nil sender without SES client")
	}
}

func TestStubEmailSender_Send(t *testing.T) {
	sender := NewStubEmailSender(nil)
	if err := sender.Send(context.Background(), EmailMessage{To: "a@b.com", Subject: "hola"}); err != nil {
		t.Errorf("stub send should never fail, got %v", err)
	}
}
