// Package store owns the shared Redis key-space. Every per-tenant key is
// built here so no call site can reach into another tenant's namespace.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Collection names for per-tenant data.
const (
	CollectionWindows  = "windows"
	CollectionServices = "services"
	CollectionBookings = "bookings"
	CollectionProfiles = "profiles"
)

const keyPrefix = "glowbook"

// collections enumerates every per-tenant collection, used when a tenant
// is deleted to drop its whole namespace.
var collections = []string{
	CollectionWindows,
	CollectionServices,
	CollectionBookings,
	CollectionProfiles,
}

// Key builds the namespaced key for a tenant collection.
func Key(collection, tenantID string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, collection, tenantID)
}

// TenantsKey is the single key holding the tenant registry itself.
func TenantsKey() string {
	return keyPrefix + ":tenants"
}

// Store wraps the Redis client with JSON collection helpers.
type Store struct {
	redis *redis.Client
}

// New creates a store backed by the given Redis client.
func New(client *redis.Client) *Store {
	if client == nil {
		panic("store: redis client required")
	}
	return &Store{redis: client}
}

// GetJSON loads a JSON value into out. Returns false when the key is absent,
// which callers treat as an empty collection.
func (s *Store) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("store: unmarshal %s: %w", key, err)
	}
	return true, nil
}

// SetJSON writes a JSON value under key with no expiry.
func (s *Store) SetJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", key, err)
	}
	if err := s.redis.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("store: set %s: %w", key, err)
	}
	return nil
}

// Delete removes the given keys.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("store: delete: %w", err)
	}
	return nil
}

// DeleteTenantNamespace drops every collection belonging to a tenant.
func (s *Store) DeleteTenantNamespace(ctx context.Context, tenantID string) error {
	keys := make([]string, 0, len(collections))
	for _, c := range collections {
		keys = append(keys, Key(c, tenantID))
	}
	return s.Delete(ctx, keys...)
}
