package catalog

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/avivshm/glowbook/internal/fault"
	"github.com/avivshm/glowbook/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewStore(store.New(redis.NewClient(&redis.Options{Addr: mr.Addr()})), nil)
}

func TestPutAndFind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "t1", Service{Name: "Haircut", Price: 80}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	svc, err := s.Find(ctx, "t1", "Haircut")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if svc.Price != 80 {
		t.Fatalf("price = %v, want 80", svc.Price)
	}
}

func TestPutReplacesByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.Put(ctx, "t1", Service{Name: "Haircut", Price: 80})
	_ = s.Put(ctx, "t1", Service{Name: "Haircut", Price: 95})

	services, err := s.List(ctx, "t1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(services) != 1 || services[0].Price != 95 {
		t.Fatalf("unexpected catalog: %+v", services)
	}
}

func TestPutValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "t1", Service{Name: "", Price: 10}); fault.KindOf(err) != fault.KindValidation {
		t.Fatalf("empty name: KindOf = %v, want validation", fault.KindOf(err))
	}
	if err := s.Put(ctx, "t1", Service{Name: "Trim", Price: -1}); fault.KindOf(err) != fault.KindValidation {
		t.Fatalf("negative price: KindOf = %v, want validation", fault.KindOf(err))
	}
}

func TestFindMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Find(context.Background(), "t1", "Massage"); fault.KindOf(err) != fault.KindNotFound {
		t.Fatalf("KindOf = %v, want not found", fault.KindOf(err))
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.Put(ctx, "t1", Service{Name: "Haircut", Price: 80})
	if err := s.Delete(ctx, "t1", "Haircut"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Find(ctx, "t1", "Haircut"); fault.KindOf(err) != fault.KindNotFound {
		t.Fatal("service should be gone")
	}

	if err := s.Delete(ctx, "t1", "Haircut"); fault.KindOf(err) != fault.KindNotFound {
		t.Fatalf("double delete: KindOf = %v, want not found", fault.KindOf(err))
	}
}

func TestTenantIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.Put(ctx, "tenant-a", Service{Name: "Haircut", Price: 80})

	services, err := s.List(ctx, "tenant-b")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(services) != 0 {
		t.Fatalf("tenant-b sees tenant-a's services: %+v", services)
	}
	if _, err := s.Find(ctx, "tenant-b", "Haircut"); fault.KindOf(err) != fault.KindNotFound {
		t.Fatal("cross-tenant Find must miss")
	}
}
