package availability

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avivshm/glowbook/internal/fault"
	"github.com/avivshm/glowbook/internal/tenancy"
	"github.com/avivshm/glowbook/pkg/logging"
)

// Handler provides HTTP endpoints for working hours administration and the
// customer-facing slot query.
type Handler struct {
	windows  *WindowStore
	resolver *Resolver
	logger   *logging.Logger
}

// NewHandler creates an availability HTTP handler.
func NewHandler(windows *WindowStore, resolver *Resolver, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{windows: windows, resolver: resolver, logger: logger.Component("availability")}
}

// AdminRoutes returns the working-hours CRUD routes, mounted under a
// tenant-scoped admin path.
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListWindows)
	r.Post("/", h.AddWindow)
	r.Delete("/{windowID}", h.DeleteWindow)
	return r
}

// ListWindows returns the tenant's configured windows.
// GET /admin/tenants/{tenantID}/hours
func (h *Handler) ListWindows(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	windows, err := h.windows.List(r.Context(), tenantID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if windows == nil {
		windows = []Window{}
	}
	writeJSON(w, http.StatusOK, windows)
}

// AddWindow validates and stores a new window.
// POST /admin/tenants/{tenantID}/hours
func (h *Handler) AddWindow(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	var win Window
	if err := json.NewDecoder(r.Body).Decode(&win); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	created, err := h.windows.Add(r.Context(), tenantID, &win)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Info("window added", "tenant_id", tenantID, "date", created.Date,
		"start", created.StartTime, "end", created.EndTime)
	writeJSON(w, http.StatusCreated, created)
}

// DeleteWindow removes a window by id.
// DELETE /admin/tenants/{tenantID}/hours/{windowID}
func (h *Handler) DeleteWindow(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	if err := h.windows.Delete(r.Context(), tenantID, chi.URLParam(r, "windowID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SlotsResponse is the customer-facing slot list for a date. Error is set
// when the remote payload was malformed and the list degraded to empty.
type SlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
	Error string   `json:"error,omitempty"`
}

// Slots resolves the bookable times for the tenant in context.
// GET /booking/slots?date=2006-01-02
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "missing tenant"}`, http.StatusBadRequest)
		return
	}

	date := r.URL.Query().Get("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, `{"error": "date must be YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}

	slots, err := h.resolver.Slots(r.Context(), tenantID, date)
	resp := SlotsResponse{Date: date, Slots: slots}
	if err != nil {
		// A malformed remote payload degrades to an empty list with the
		// error surfaced in the body; everything else is a real failure.
		if fault.KindOf(err) != fault.KindDataIntegrity {
			h.writeError(w, err)
			return
		}
		resp.Error = err.Error()
	}
	if resp.Slots == nil {
		resp.Slots = []string{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := fault.HTTPStatus(err)
	if status >= 500 {
		h.logger.Error("availability request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": fault.KindOf(err).String()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
