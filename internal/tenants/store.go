package tenants

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/avivshm/glowbook/internal/fault"
	"github.com/avivshm/glowbook/internal/highlevel"
	"github.com/avivshm/glowbook/internal/locks"
	"github.com/avivshm/glowbook/internal/store"
)

const registryLock = "tenants/registry"

// Store provides persistence for the tenant registry. The registry is a
// single flat list under one key; mutations replace the whole list under
// the registry lock.
type Store struct {
	store *store.Store
	locks *locks.Keyed
}

// NewStore creates a tenant store.
func NewStore(s *store.Store, l *locks.Keyed) *Store {
	if l == nil {
		l = locks.NewKeyed()
	}
	return &Store{store: s, locks: l}
}

// List returns every tenant.
func (s *Store) List(ctx context.Context) ([]Tenant, error) {
	var tenants []Tenant
	if _, err := s.store.GetJSON(ctx, store.TenantsKey(), &tenants); err != nil {
		return nil, err
	}
	return tenants, nil
}

// Get returns a tenant by id.
func (s *Store) Get(ctx context.Context, tenantID string) (*Tenant, error) {
	tenants, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tenants {
		if tenants[i].ID == tenantID {
			return &tenants[i], nil
		}
	}
	return nil, fault.NotFound("tenants: %s not found", tenantID)
}

// Create registers a new tenant and assigns its id.
func (s *Store) Create(ctx context.Context, t *Tenant) (*Tenant, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.Acquire(registryLock)
	defer unlock()

	tenants, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	t.ID = uuid.NewString()
	tenants = append(tenants, *t)
	if err := s.store.SetJSON(ctx, store.TenantsKey(), tenants); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateSettings applies a partial update to the tenant's profile fields.
func (s *Store) UpdateSettings(ctx context.Context, tenantID, name, ownerEmail string) (*Tenant, error) {
	return s.update(ctx, tenantID, func(t *Tenant) {
		if strings.TrimSpace(name) != "" {
			t.Name = name
		}
		if strings.TrimSpace(ownerEmail) != "" {
			t.OwnerEmail = ownerEmail
		}
	})
}

// UpdateCredentials replaces the tenant's HighLevel credential bundle.
func (s *Store) UpdateCredentials(ctx context.Context, tenantID string, creds highlevel.Credentials) (*Tenant, error) {
	return s.update(ctx, tenantID, func(t *Tenant) {
		t.Credentials = creds
	})
}

func (s *Store) update(ctx context.Context, tenantID string, apply func(*Tenant)) (*Tenant, error) {
	unlock := s.locks.Acquire(registryLock)
	defer unlock()

	tenants, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tenants {
		if tenants[i].ID != tenantID {
			continue
		}
		apply(&tenants[i])
		if err := s.store.SetJSON(ctx, store.TenantsKey(), tenants); err != nil {
			return nil, err
		}
		return &tenants[i], nil
	}
	return nil, fault.NotFound("tenants: %s not found", tenantID)
}

// Delete removes the tenant and every dependent per-tenant collection.
func (s *Store) Delete(ctx context.Context, tenantID string) error {
	unlock := s.locks.Acquire(registryLock)
	defer unlock()

	tenants, err := s.List(ctx)
	if err != nil {
		return err
	}
	kept := tenants[:0]
	found := false
	for _, t := range tenants {
		if t.ID == tenantID {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return fault.NotFound("tenants: %s not found", tenantID)
	}
	if err := s.store.SetJSON(ctx, store.TenantsKey(), kept); err != nil {
		return err
	}
	return s.store.DeleteTenantNamespace(ctx, tenantID)
}
