// Package tenants owns the tenant registry: the businesses running on the
// platform and their HighLevel credential bundles.
package tenants

import (
	"strings"

	"github.com/avivshm/glowbook/internal/fault"
	"github.com/avivshm/glowbook/internal/highlevel"
)

// Tenant is an independently operated business using the platform.
type Tenant struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	OwnerID     string                `json:"owner_id"`
	OwnerEmail  string                `json:"owner_email,omitempty"`
	Credentials highlevel.Credentials `json:"credentials"`
}

// Validate checks the fields a tenant must carry at creation time.
func (t *Tenant) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fault.Validation("tenants: name is required")
	}
	if strings.TrimSpace(t.OwnerID) == "" {
		return fault.Validation("tenants: owner id is required")
	}
	return nil
}
