package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/parcefx/landing-api/internal/observability/metrics"
	"github.com/parcefx/landing-api/internal/ratelimit"
	"github.com/parcefx/landing-api/pkg/logging"
)

// Notifier dispatches post-signup emails without blocking the response.
type Notifier interface {
	DispatchLeadCreated(lead *Lead)
}

// Handler runs the subscription pipeline for the landing page form.
type Handler struct {
	repo       Repository
	limiter    ratelimit.Limiter
	notifier   Notifier
	metrics    *metrics.LeadMetrics
	logger     *logging.Logger
	minElapsed time.Duration
	now        func() time.Time
}

// HandlerConfig wires the pipeline collaborators.
type HandlerConfig struct {
	Repo             Repository
	Limiter          ratelimit.Limiter
	Notifier         Notifier
	Metrics          *metrics.LeadMetrics
	Logger           *logging.Logger
	MinSubmitElapsed time.Duration
	Now              func() time.Time
}

// NewHandler creates the subscription handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MinSubmitElapsed <= 0 {
		cfg.MinSubmitElapsed = 2 * time.Second
	}
	return &Handler{
		repo:       cfg.Repo,
		limiter:    cfg.Limiter,
		notifier:   cfg.Notifier,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		minElapsed: cfg.MinSubmitElapsed,
		now:        cfg.Now,
	}
}

// subscribeResponse is the success payload for POST /api/subscribe.
type subscribeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Lead    *Lead  `json:"lead"`
}

// Subscribe handles POST /api/subscribe. Checks run in a fixed order and the
// first failure short-circuits: honeypot, timing, rate limit, validation,
// duplicate, persist. Notification is dispatched after the response is
// committed and can never undo it.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("failed to decode subscribe request", "error", err)
		h.metrics.ObserveSubmission(metrics.OutcomeInvalid)
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if honeypotTripped(&req) {
		h.logger.Warn("honeypot triggered", "ip", clientIP(r))
		h.metrics.ObserveSubmission(metrics.OutcomeHoneypot)
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if tooFast(h.now(), req.SubmitTimestamp, h.minElapsed) {
		h.logger.Warn("submission too fast, likely bot", "ip", clientIP(r))
		h.metrics.ObserveSubmission(metrics.OutcomeTooFast)
		writeError(w, http.StatusTooManyRequests, "Por favor espera un momento antes de enviar nuevamente")
		return
	}

	if h.limiter != nil {
		res, err := h.limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			// Fail open: an unreachable limiter backend must not block
			// signups.
			h.logger.Error("rate limiter check failed", "error", err)
		} else if !res.Allowed {
			h.metrics.ObserveSubmission(metrics.OutcomeRateLimited)
			retryAfter := int(res.ResetAt.Sub(h.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeError(w, http.StatusTooManyRequests, "Demasiadas solicitudes. Por favor intenta en un minuto.")
			return
		}
	}

	if err := req.Validate(); err != nil {
		h.metrics.ObserveSubmission(metrics.OutcomeInvalid)
		switch {
		case errors.Is(err, ErrMissingFields):
			writeError(w, http.StatusBadRequest, "Nombre y email son requeridos")
		default:
			writeError(w, http.StatusBadRequest, "Email inválido")
		}
		return
	}

	newLead := NewLeadFromRequest(&req)

	existing, err := h.repo.GetByEmail(r.Context(), newLead.Email)
	if err != nil && !errors.Is(err, ErrLeadNotFound) {
		// Lookup failure is not fatal: the unique index catches the
		// duplicate on insert.
		h.logger.Warn("duplicate pre-check failed", "error", err)
	}
	if existing != nil {
		h.metrics.ObserveSubmission(metrics.OutcomeDuplicate)
		writeError(w, http.StatusConflict, "Este email ya está registrado. Revisa tu bandeja de entrada.")
		return
	}

	lead, err := h.repo.Create(r.Context(), newLead)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			// Two requests with the same email raced past the pre-check.
			h.metrics.ObserveSubmission(metrics.OutcomeDuplicate)
			writeError(w, http.StatusConflict, "Este email ya está registrado. Revisa tu bandeja de entrada.")
			return
		}
		h.logger.Error("failed to persist lead", "error", err)
		h.metrics.ObserveSubmission(metrics.OutcomeError)
		writeError(w, http.StatusInternalServerError, "Error guardando el lead. Por favor intenta nuevamente.")
		return
	}

	h.logger.Info("lead created", "id", lead.ID, "email", lead.Email, "utm_source", deref(lead.UTMSource))
	h.metrics.ObserveSubmission(metrics.OutcomeAccepted)

	writeJSON(w, http.StatusCreated, subscribeResponse{
		Success: true,
		Message: "Lead guardado exitosamente",
		Lead:    lead,
	})

	if h.notifier != nil {
		h.notifier.DispatchLeadCreated(lead)
	}
}

// clientIP derives the rate-limit key from proxy headers: first hop of
// X-Forwarded-For, then X-Real-Ip. Un-proxied clients share the "unknown"
// bucket, an accepted imprecision.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := r.Header.Get("X-Real-Ip"); realIP != "" {
		return realIP
	}
	return "unknown"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
