package customers

import (
	"context"

	"github.com/avivshm/glowbook/internal/fault"
	"github.com/avivshm/glowbook/internal/locks"
	"github.com/avivshm/glowbook/internal/store"
)

// Store persists customer profiles per tenant, keyed by phone number.
type Store struct {
	store *store.Store
	locks *locks.Keyed
}

func NewStore(s *store.Store, l *locks.Keyed) *Store {
	if l == nil {
		l = locks.NewKeyed()
	}
	return &Store{store: s, locks: l}
}

func (s *Store) load(ctx context.Context, tenantID string) (map[string]Profile, error) {
	profiles := map[string]Profile{}
	if _, err := s.store.GetJSON(ctx, store.Key(store.CollectionProfiles, tenantID), &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Get returns the profile for a phone number, or a not-found error.
func (s *Store) Get(ctx context.Context, tenantID, phone string) (*Profile, error) {
	profiles, err := s.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	p, ok := profiles[phone]
	if !ok {
		return nil, fault.NotFound("customers: no profile for phone %s", phone)
	}
	return &p, nil
}

// Put inserts or replaces the profile keyed by its phone number.
func (s *Store) Put(ctx context.Context, tenantID string, p *Profile) error {
	unlock := s.locks.Acquire(locks.ResourceKey(tenantID, store.CollectionProfiles))
	defer unlock()

	profiles, err := s.load(ctx, tenantID)
	if err != nil {
		return err
	}
	profiles[p.Phone] = *p
	return s.store.SetJSON(ctx, store.Key(store.CollectionProfiles, tenantID), profiles)
}
