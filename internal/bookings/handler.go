package bookings

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avivshm/glowbook/internal/fault"
	"github.com/avivshm/glowbook/internal/tenancy"
	"github.com/avivshm/glowbook/pkg/logging"
)

type Handler struct {
	committer *Committer
	store     *Store
	logger    *logging.Logger
}

func NewHandler(committer *Committer, store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{committer: committer, store: store, logger: logger.Component("bookings")}
}

// Commit books a slot for the tenant in context.
// POST /booking/commit
func (h *Handler) Commit(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "missing tenant"}`, http.StatusBadRequest)
		return
	}

	var req CommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	booking, err := h.committer.Commit(r.Context(), tenantID, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// List returns the tenant's booking log, newest first.
// GET /admin/tenants/{tenantID}/bookings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	bookings, err := h.store.List(r.Context(), tenantID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := fault.HTTPStatus(err)
	if status >= 500 {
		h.logger.Error("booking request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": fault.KindOf(err).String()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
