package bookings

import (
	"context"

	"github.com/avivshm/glowbook/internal/locks"
	"github.com/avivshm/glowbook/internal/store"
)

// Store is the append-only booking log. Bookings are never updated or
// removed once written.
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

// List returns the tenant's bookings, newest first.
func (s *Store) List(ctx context.Context, tenantID string) ([]Booking, error) {
	var bookings []Booking
	if _, err := s.store.GetJSON(ctx, store.Key(store.CollectionBookings, tenantID), &bookings); err != nil {
		return nil, err
	}
	// Stored oldest first; reverse for display.
	out := make([]Booking, 0, len(bookings))
	for i := len(bookings) - 1; i >= 0; i-- {
		out = append(out, bookings[i])
	}
	return out, nil
}

// Append adds a booking to the end of the tenant's log.
func (s *Store) Append(ctx context.Context, tenantID string, b *Booking) error {
	unlock := s.locks.Acquire(locks.ResourceKey(tenantID, store.CollectionBookings))
	defer unlock()
	return s.appendLocked(ctx, tenantID, b)
}

// appendLocked writes the log entry without acquiring the bookings lock.
// The caller must already hold locks.ResourceKey(tenantID,
// store.CollectionBookings); the Committer takes it before the remote call
// and keeps it through the append.
func (s *Store) appendLocked(ctx context.Context, tenantID string, b *Booking) error {
	var bookings []Booking
	key := store.Key(store.CollectionBookings, tenantID)
	if _, err := s.store.GetJSON(ctx, key, &bookings); err != nil {
		return err
	}
	bookings = append(bookings, *b)
	return s.store.SetJSON(ctx, key, bookings)
}
