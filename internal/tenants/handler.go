package tenants

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avivshm/glowbook/internal/fault"
	"github.com/avivshm/glowbook/internal/highlevel"
	"github.com/avivshm/glowbook/pkg/logging"
)

// Handler provides HTTP endpoints for tenant administration.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a tenant admin HTTP handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger.Component("tenants")}
}

// Routes registers the collection-level tenant routes on r. Single-tenant
// routes live in TenantRoutes so callers can nest other per-tenant resources
// under the same {tenantID} route.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
}

// TenantRoutes registers the routes scoped to one tenant on r. The router
// mounts it inside a {tenantID} route.
func (h *Handler) TenantRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Put("/", h.UpdateSettings)
	r.Delete("/", h.Delete)
	r.Put("/credentials", h.UpdateCredentials)
}

// CreateRequest is the request body for tenant creation.
type CreateRequest struct {
	Name       string `json:"name"`
	OwnerID    string `json:"owner_id"`
	OwnerEmail string `json:"owner_email,omitempty"`
}

// Create registers a new tenant.
// POST /admin/tenants
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	tenant, err := h.store.Create(r.Context(), &Tenant{
		Name:       req.Name,
		OwnerID:    req.OwnerID,
		OwnerEmail: req.OwnerEmail,
	})
	if err != nil {
		h.writeError(w, "create tenant", err)
		return
	}

	h.logger.Info("tenant created", "tenant_id", tenant.ID, "name", tenant.Name)
	writeJSON(w, http.StatusCreated, tenant)
}

// List returns all tenants.
// GET /admin/tenants
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.store.List(r.Context())
	if err != nil {
		h.writeError(w, "list tenants", err)
		return
	}
	if tenants == nil {
		tenants = []Tenant{}
	}
	writeJSON(w, http.StatusOK, tenants)
}

// Get returns one tenant.
// GET /admin/tenants/{tenantID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	tenant, err := h.store.Get(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		h.writeError(w, "get tenant", err)
		return
	}
	writeJSON(w, http.StatusOK, tenant)
}

// UpdateSettingsRequest is the request body for profile updates.
type UpdateSettingsRequest struct {
	Name       string `json:"name,omitempty"`
	OwnerEmail string `json:"owner_email,omitempty"`
}

// UpdateSettings applies a partial profile update.
// PUT /admin/tenants/{tenantID}
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	tenant, err := h.store.UpdateSettings(r.Context(), chi.URLParam(r, "tenantID"), req.Name, req.OwnerEmail)
	if err != nil {
		h.writeError(w, "update tenant settings", err)
		return
	}
	writeJSON(w, http.StatusOK, tenant)
}

// UpdateCredentialsRequest is the request body for the credential bundle.
type UpdateCredentialsRequest struct {
	APIToken   string `json:"api_token"`
	CalendarID string `json:"calendar_id"`
	LocationID string `json:"location_id"`
}

// UpdateCredentials replaces the tenant's HighLevel credentials.
// PUT /admin/tenants/{tenantID}/credentials
func (h *Handler) UpdateCredentials(w http.ResponseWriter, r *http.Request) {
	var req UpdateCredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	tenantID := chi.URLParam(r, "tenantID")
	tenant, err := h.store.UpdateCredentials(r.Context(), tenantID, highlevel.Credentials{
		APIToken:   req.APIToken,
		CalendarID: req.CalendarID,
		LocationID: req.LocationID,
	})
	if err != nil {
		h.writeError(w, "update tenant credentials", err)
		return
	}

	h.logger.Info("tenant credentials updated", "tenant_id", tenantID, "complete", tenant.Credentials.Complete())
	writeJSON(w, http.StatusOK, tenant)
}

// Delete removes a tenant and all of its data.
// DELETE /admin/tenants/{tenantID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	if err := h.store.Delete(r.Context(), tenantID); err != nil {
		h.writeError(w, "delete tenant", err)
		return
	}
	h.logger.Info("tenant deleted", "tenant_id", tenantID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	status := fault.HTTPStatus(err)
	if status >= 500 {
		h.logger.Error(op+" failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": fault.KindOf(err).String()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
