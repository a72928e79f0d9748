package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/parcefx/landing-api/pkg/logging"
)

const sessionTTL = 24 * time.Hour

// AdminLoginHandler exchanges the configured admin credentials for a signed
// session token. There is no user store: a single operator account comes
// from the environment.
type AdminLoginHandler struct {
	username string
	password string
	secret   string
	logger   *logging.Logger
	now      func() time.Time
}

// NewAdminLoginHandler creates the login handler.
func NewAdminLoginHandler(username, password, secret string, logger *logging.Logger) *AdminLoginHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminLoginHandler{
		username: username,
		password: password,
		secret:   secret,
		logger:   logger,
		now:      time.Now,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /admin/login.
func (h *AdminLoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.username == "" || h.password == "" || h.secret == "" {
		http.Error(w, "admin login disabled", http.StatusServiceUnavailable)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) == 1
	if !userOK || !passOK {
		h.logger.Warn("admin login rejected", "username", req.Username)
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	now := h.now()
	expiresAt := now.Add(sessionTTL)
	claims := jwt.RegisteredClaims{
		Subject:   req.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.secret))
	if err != nil {
		h.logger.Error("failed to sign admin token", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("admin login succeeded", "username", req.Username)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{Token: token, ExpiresAt: expiresAt})
}
