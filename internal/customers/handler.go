package customers

import (
	"encoding/json"
	"net/http"

	"github.com/avivshm/glowbook/internal/fault"
	"github.com/avivshm/glowbook/internal/tenancy"
	"github.com/avivshm/glowbook/pkg/logging"
)

type Handler struct {
	upserter *Upserter
	logger   *logging.Logger
}

func NewHandler(upserter *Upserter, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{upserter: upserter, logger: logger.Component("customers")}
}

// Upsert registers or refreshes the customer profile for the tenant in
// context. POST /booking/profile
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "missing tenant"}`, http.StatusBadRequest)
		return
	}

	var p Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	saved, err := h.upserter.Upsert(r.Context(), tenantID, &p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := fault.HTTPStatus(err)
	if status >= 500 {
		h.logger.Error("customer upsert failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": fault.KindOf(err).String()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
