// Package customers holds the per-tenant customer identities used by the
// booking flow. A profile must exist, with a resolved remote contact id,
// before a booking can be committed for that customer.
package customers

import (
	"strings"

	"github.com/avivshm/glowbook/internal/fault"
)

// Profile is a tenant-scoped customer identity. ContactID is the remote
// CRM identifier assigned on upsert.
type Profile struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	ContactID string `json:"contact_id,omitempty"`
}

func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fault.Validation("customers: name is required")
	}
	if strings.TrimSpace(p.Phone) == "" {
		return fault.Validation("customers: phone is required")
	}
	return nil
}
