package availability

import (
	"context"

	"github.com/google/uuid"

	"github.com/avivshm/glowbook/internal/fault"
	"github.com/avivshm/glowbook/internal/locks"
	"github.com/avivshm/glowbook/internal/store"
)

// WindowStore provides per-tenant persistence for working-hour windows.
type WindowStore struct {
	store *store.Store
	locks *locks.Keyed
}

// NewWindowStore creates a window store.
func NewWindowStore(s *store.Store, l *locks.Keyed) *WindowStore {
	if l == nil {
		l = locks.NewKeyed()
	}
	return &WindowStore{store: s, locks: l}
}

// List returns the tenant's windows.
func (s *WindowStore) List(ctx context.Context, tenantID string) ([]Window, error) {
	var windows []Window
	if _, err := s.store.GetJSON(ctx, store.Key(store.CollectionWindows, tenantID), &windows); err != nil {
		return nil, err
	}
	return windows, nil
}

// ForDate returns the tenant's window for a date, or nil when none is
// configured. With no window the date is open by default.
func (s *WindowStore) ForDate(ctx context.Context, tenantID, date string) (*Window, error) {
	windows, err := s.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for i := range windows {
		if windows[i].Date == date {
			return &windows[i], nil
		}
	}
	return nil, nil
}

// Add validates and appends a window, assigning its id.
func (s *WindowStore) Add(ctx context.Context, tenantID string, w *Window) (*Window, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.Acquire(locks.ResourceKey(tenantID, store.CollectionWindows))
	defer unlock()

	windows, err := s.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	w.ID = uuid.NewString()
	windows = append(windows, *w)
	if err := s.store.SetJSON(ctx, store.Key(store.CollectionWindows, tenantID), windows); err != nil {
		return nil, err
	}
	return w, nil
}

// Delete removes a window by id.
func (s *WindowStore) Delete(ctx context.Context, tenantID, windowID string) error {
	unlock := s.locks.Acquire(locks.ResourceKey(tenantID, store.CollectionWindows))
	defer unlock()

	windows, err := s.List(ctx, tenantID)
	if err != nil {
		return err
	}
	kept := windows[:0]
	found := false
	for _, w := range windows {
		if w.ID == windowID {
			found = true
			continue
		}
		kept = append(kept, w)
	}
	if !found {
		return fault.NotFound("availability: window %s not found", windowID)
	}
	return s.store.SetJSON(ctx, store.Key(store.CollectionWindows, tenantID), kept)
}
