// Package catalog owns each tenant's service list: the bookable treatments
// and their prices.
package catalog

import (
	"context"
	"strings"

	"github.com/avivshm/glowbook/internal/fault"
	"github.com/avivshm/glowbook/internal/locks"
	"github.com/avivshm/glowbook/internal/store"
)

// Service is one bookable treatment offered by a tenant.
type Service struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Validate checks name and price constraints.
func (s *Service) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fault.Validation("catalog: service name is required")
	}
	if s.Price < 0 {
		return fault.Validation("catalog: price must not be negative")
	}
	return nil
}

// Store provides per-tenant persistence for the service catalog.
type Store struct {
	store *store.Store
	locks *locks.Keyed
}

// NewStore creates a catalog store.
func NewStore(s *store.Store, l *locks.Keyed) *Store {
	if l == nil {
		l = locks.NewKeyed()
	}
	return &Store{store: s, locks: l}
}

// List returns the tenant's services.
func (s *Store) List(ctx context.Context, tenantID string) ([]Service, error) {
	var services []Service
	if _, err := s.store.GetJSON(ctx, store.Key(store.CollectionServices, tenantID), &services); err != nil {
		return nil, err
	}
	return services, nil
}

// Find returns the named service for a tenant.
func (s *Store) Find(ctx context.Context, tenantID, name string) (*Service, error) {
	services, err := s.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for i := range services {
		if services[i].Name == name {
			return &services[i], nil
		}
	}
	return nil, fault.NotFound("catalog: service %q not found", name)
}

// Put inserts or replaces a service. Names are unique per tenant.
func (s *Store) Put(ctx context.Context, tenantID string, svc Service) error {
	if err := svc.Validate(); err != nil {
		return err
	}

	unlock := s.locks.Acquire(locks.ResourceKey(tenantID, store.CollectionServices))
	defer unlock()

	services, err := s.List(ctx, tenantID)
	if err != nil {
		return err
	}
	replaced := false
	for i := range services {
		if services[i].Name == svc.Name {
			services[i] = svc
			replaced = true
			break
		}
	}
	if !replaced {
		services = append(services, svc)
	}
	return s.store.SetJSON(ctx, store.Key(store.CollectionServices, tenantID), services)
}

// Delete removes a service by name.
func (s *Store) Delete(ctx context.Context, tenantID, name string) error {
	unlock := s.locks.Acquire(locks.ResourceKey(tenantID, store.CollectionServices))
	defer unlock()

	services, err := s.List(ctx, tenantID)
	if err != nil {
		return err
	}
	kept := services[:0]
	found := false
	for _, svc := range services {
		if svc.Name == name {
			found = true
			continue
		}
		kept = append(kept, svc)
	}
	if !found {
		return fault.NotFound("catalog: service %q not found", name)
	}
	return s.store.SetJSON(ctx, store.Key(store.CollectionServices, tenantID), kept)
}
