package mailer

import (
	"strings"
	"testing"
)

func TestRenderResetPassword(t *testing.T) {
	subject, html, err := RenderResetPassword(map[string]any{
		"ResetURL":         "https://app.example.com/reset-password/abc123",
		"ExpiresInMinutes": float64(15),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if subject == "" {
		t.Fatal("empty subject")
	}
	if !strings.Contains(html, "https://app.example.com/reset-password/abc123") {
		t.Fatal("reset link missing from body")
	}
	if !strings.Contains(html, "15 minutes") {
		t.Fatal("expiry notice missing from body")
	}
}

func TestRenderResetPasswordDefaults(t *testing.T) {
	_, html, err := RenderResetPassword(map[string]any{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "15 minutes") {
		t.Fatal("default expiry missing")
	}
}
