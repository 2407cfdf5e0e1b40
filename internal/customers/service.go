package customers

import (
	"context"
	"time"

	"github.com/avivshm/glowbook/internal/highlevel"
	"github.com/avivshm/glowbook/internal/tenants"
	"github.com/avivshm/glowbook/pkg/logging"
)

// ContactGateway is the remote CRM surface the upsert flow needs.
type ContactGateway interface {
	UpsertContact(ctx context.Context, creds highlevel.Credentials, name, phone string) (*highlevel.Contact, error)
}

// TenantSource resolves a tenant so its credential bundle can be used.
type TenantSource interface {
	Get(ctx context.Context, tenantID string) (*tenants.Tenant, error)
}

// Upserter writes the customer to the remote CRM first and records the
// returned contact id locally, so the booking flow can reference it.
type Upserter struct {
	tenants TenantSource
	store   *Store
	gateway ContactGateway
	logger  *logging.Logger
}

func NewUpserter(ts TenantSource, s *Store, gw ContactGateway, logger *logging.Logger) *Upserter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Upserter{tenants: ts, store: s, gateway: gw, logger: logger.Component("customers")}
}

// Upsert registers the customer with the tenant's CRM and persists the
// profile. The stored profile always carries the remote contact id.
func (u *Upserter) Upsert(ctx context.Context, tenantID string, p *Profile) (*Profile, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	tenant, err := u.tenants.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	contact, err := u.gateway.UpsertContact(ctx, tenant.Credentials, p.Name, p.Phone)
	if err != nil {
		return nil, err
	}

	saved := &Profile{Name: p.Name, Phone: p.Phone, ContactID: contact.ID}
	if err := u.store.Put(ctx, tenantID, saved); err != nil {
		return nil, err
	}

	u.logger.Info("customer profile upserted",
		"tenant_id", tenantID,
		"contact_id", contact.ID,
		"duration_ms", time.Since(start).Milliseconds())
	return saved, nil
}
