package catalog

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/avivshm/glowbook/internal/fault"
	"github.com/avivshm/glowbook/pkg/logging"
)

// Handler provides HTTP endpoints for service catalog administration.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a catalog HTTP handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger.Component("catalog")}
}

// Routes returns a chi router with catalog routes, mounted under a
// tenant-scoped path.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Put("/", h.Put)
	r.Delete("/{name}", h.Delete)
	return r
}

// List returns the tenant's services.
// GET /admin/tenants/{tenantID}/services
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	services, err := h.store.List(r.Context(), tenantID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if services == nil {
		services = []Service{}
	}
	writeJSON(w, http.StatusOK, services)
}

// Put inserts or replaces a service.
// PUT /admin/tenants/{tenantID}/services
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	var svc Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	if err := h.store.Put(r.Context(), tenantID, svc); err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Info("service saved", "tenant_id", tenantID, "service", svc.Name, "price", svc.Price)
	writeJSON(w, http.StatusOK, svc)
}

// Delete removes a service by name.
// DELETE /admin/tenants/{tenantID}/services/{name}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		http.Error(w, `{"error": "invalid service name"}`, http.StatusBadRequest)
		return
	}

	if err := h.store.Delete(r.Context(), tenantID, name); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := fault.HTTPStatus(err)
	if status >= 500 {
		h.logger.Error("catalog request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": fault.KindOf(err).String()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
