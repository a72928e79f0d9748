package leads

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/parcefx/landing-api/pkg/logging"
)

// AdminHandler serves the dashboard read, export and delete endpoints.
// The full lead set is fetched and filtered in one pass; lead volume is
// assumed small enough that pagination is not worth its complexity yet.
type AdminHandler struct {
	repo   Repository
	logger *logging.Logger
	now    func() time.Time
}

// NewAdminHandler creates the admin leads handler.
func NewAdminHandler(repo Repository, logger *logging.Logger) *AdminHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminHandler{repo: repo, logger: logger, now: time.Now}
}

// ListLeadsResponse is the response for listing leads
type ListLeadsResponse struct {
	Leads []*Lead `json:"leads"`
}

// ListLeads handles GET /admin/leads, returning the full set newest first.
func (h *AdminHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}
	if all == nil {
		all = []*Lead{}
	}
	writeJSON(w, http.StatusOK, ListLeadsResponse{Leads: all})
}

// GetStats handles GET /admin/leads/stats.
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list leads for stats", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, ComputeStats(all, h.now()))
}

// ExportCSV handles GET /admin/leads/export?search=&range=. The response is
// a CSV download named with the current date, rows in fetch order after
// filtering.
func (h *AdminHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list leads for export", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export leads")
		return
	}

	now := h.now()
	filtered := Filter(all, r.URL.Query().Get("search"), r.URL.Query().Get("range"), now)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="leads_`+now.Format("2006-01-02")+`.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(BuildCSV(filtered)))
}

// DeleteLead handles DELETE /admin/leads/{id}. Deleting an id that is
// already gone still returns 204.
func (h *AdminHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing lead id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete lead", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete lead")
		return
	}

	h.logger.Info("lead deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
