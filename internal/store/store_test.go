package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	return New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestKeyNamespacing(t *testing.T) {
	a := Key(CollectionBookings, "tenant-a")
	b := Key(CollectionBookings, "tenant-b")
	if a == b {
		t.Fatal("keys for different tenants must differ")
	}
	if a != "glowbook:bookings:tenant-a" {
		t.Fatalf("unexpected key shape: %s", a)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := Key(CollectionServices, "t1")

	in := []map[string]any{{"name": "haircut", "price": 80.0}}
	if err := s.SetJSON(ctx, key, in); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}

	var out []map[string]any
	found, err := s.GetJSON(ctx, key, &out)
	if err != nil || !found {
		t.Fatalf("GetJSON = (%v, %v), want found", found, err)
	}
	if len(out) != 1 || out[0]["name"] != "haircut" {
		t.Fatalf("unexpected value: %+v", out)
	}
}

func TestGetJSONMissingKey(t *testing.T) {
	s := newTestStore(t)

	var out []string
	found, err := s.GetJSON(context.Background(), Key(CollectionWindows, "none"), &out)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if found {
		t.Fatal("absent key must report found=false")
	}
}

func TestDeleteTenantNamespace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, c := range collections {
		if err := s.SetJSON(ctx, Key(c, "gone"), []string{"x"}); err != nil {
			t.Fatalf("seed %s: %v", c, err)
		}
	}
	if err := s.SetJSON(ctx, Key(CollectionBookings, "kept"), []string{"y"}); err != nil {
		t.Fatalf("seed kept: %v", err)
	}

	if err := s.DeleteTenantNamespace(ctx, "gone"); err != nil {
		t.Fatalf("DeleteTenantNamespace: %v", err)
	}

	var out []string
	for _, c := range collections {
		if found, _ := s.GetJSON(ctx, Key(c, "gone"), &out); found {
			t.Fatalf("collection %s survived tenant deletion", c)
		}
	}
	if found, _ := s.GetJSON(ctx, Key(CollectionBookings, "kept"), &out); !found {
		t.Fatal("other tenant's data must be untouched")
	}
}
