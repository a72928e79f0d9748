package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/parcefx/landing-api/pkg/logging"
)

func postLogin(handler *AdminLoginHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.Login(w, req)
	return w
}

func TestAdminLogin_Success(t *testing.T) {
	handler := NewAdminLoginHandler("admin", "s3cret", "signing-key", logging.Default())

	w := postLogin(handler, `{"username":"admin","password":"s3cret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp loginResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token in the response")
	}
	if time.Until(resp.ExpiresAt) <= 0 {
		t.Errorf("expected a future expiry, got %v", resp.ExpiresAt)
	}

	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(resp.Token, &claims, func(*jwt.Token) (any, error) {
		return []byte("signing-key"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != "admin" {
		t.Errorf("expected subject admin, got %q", claims.Subject)
	}
}

func TestAdminLogin_WrongCredentials(t *testing.T) {
	handler := NewAdminLoginHandler("admin", "s3cret", "signing-key", logging.Default())

	tests := []struct {
		name string
		body string
	}{
		{"wrong password", `{"username":"admin","password":"nope"}`},
		{"wrong username", `{"username":"root","password":"s3cret"}`},
		{"empty credentials", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postLogin(handler, tt.body); w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestAdminLogin_DisabledWithoutConfig(t *testing.T) {
	handler := NewAdminLoginHandler("", "", "", logging.Default())

	if w := postLogin(handler, `{"username":"admin","password":"s3cret"}`); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when unconfigured, got %d", w.Code)
	}
}

func TestAdminLogin_InvalidBody(t *testing.T) {
	handler := NewAdminLoginHandler("admin", "s3cret", "signing-key", logging.Default())

	if w := postLogin(handler, `{not json`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
