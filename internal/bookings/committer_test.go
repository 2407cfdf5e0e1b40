package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/avivshm/glowbook/internal/catalog"
	"github.com/avivshm/glowbook/internal/customers"
	"github.com/avivshm/glowbook/internal/fault"
	"github.com/avivshm/glowbook/internal/highlevel"
	"github.com/avivshm/glowbook/internal/locks"
	"github.com/avivshm/glowbook/internal/store"
	"github.com/avivshm/glowbook/internal/tenants"
)

type fakeTenants struct {
	tenant *tenants.Tenant
	err    error
}

func (f *fakeTenants) Get(ctx context.Context, tenantID string) (*tenants.Tenant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tenant, nil
}

type fakeProfiles struct {
	profile *customers.Profile
}

func (f *fakeProfiles) Get(ctx context.Context, tenantID, phone string) (*customers.Profile, error) {
	if f.profile == nil || f.profile.Phone != phone {
		return nil, fault.NotFound("customers: no profile for phone %s", phone)
	}
	return f.profile, nil
}

type fakeServices struct {
	services map[string]catalog.Service
}

func (f *fakeServices) Find(ctx context.Context, tenantID, name string) (*catalog.Service, error) {
	svc, ok := f.services[name]
	if !ok {
		return nil, fault.NotFound("catalog: service %q not found", name)
	}
	return &svc, nil
}

type fakeGateway struct {
	appt  *highlevel.Appointment
	err   error
	calls int
	last  highlevel.AppointmentRequest
}

func (f *fakeGateway) CreateAppointment(ctx context.Context, creds highlevel.Credentials, req highlevel.AppointmentRequest) (*highlevel.Appointment, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return f.appt, nil
}

type fakeNotifier struct {
	err   error
	calls int
}

func (f *fakeNotifier) BookingConfirmed(ctx context.Context, tenant *tenants.Tenant, b *Booking) error {
	f.calls++
	return f.err
}

func fullCreds() highlevel.Credentials {
	return highlevel.Credentials{APIToken: "tok", CalendarID: "cal", LocationID: "loc"}
}

type fixture struct {
	committer *Committer
	store     *Store
	gateway   *fakeGateway
	notifier  *fakeNotifier
}

func newFixture(t *testing.T, mutate func(*fakeTenants, *fakeProfiles, *fakeServices, *fakeGateway)) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	bs := NewStore(store.New(redis.NewClient(&redis.Options{Addr: mr.Addr()})), nil)

	ts := &fakeTenants{tenant: &tenants.Tenant{ID: "t1", Name: "Salon", OwnerEmail: "owner@salon.test", Credentials: fullCreds()}}
	ps := &fakeProfiles{profile: &customers.Profile{Name: "Dana", Phone: "0501234567", ContactID: "crm-42"}}
	ss := &fakeServices{services: map[string]catalog.Service{"Haircut": {Name: "Haircut", Price: 120}}}
	gw := &fakeGateway{appt: &highlevel.Appointment{ID: "evt-1"}}
	if mutate != nil {
		mutate(ts, ps, ss, gw)
	}

	notifier := &fakeNotifier{}
	c := NewCommitter(ts, ps, ss, gw, bs, nil, time.UTC, notifier, nil, nil)
	return &fixture{committer: c, store: bs, gateway: gw, notifier: notifier}
}

func validRequest() CommitRequest {
	return CommitRequest{Date: "2026-03-01", Time: "10:00", Service: "Haircut", Phone: "0501234567"}
}

func TestCommitHappyPath(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()

	booking, err := fx.committer.Commit(ctx, "t1", validRequest())
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if booking.ID == "" || booking.EventID != "evt-1" {
		t.Fatalf("booking = %+v", booking)
	}
	if booking.Service != "Haircut" || booking.Price != 120 {
		t.Fatalf("service snapshot = %q/%v", booking.Service, booking.Price)
	}
	if booking.CustomerName != "Dana" || booking.CustomerPhone != "0501234567" {
		t.Fatalf("customer snapshot = %q/%q", booking.CustomerName, booking.CustomerPhone)
	}

	// End time is exactly one hour after the requested slot.
	want := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if !fx.gateway.last.StartTime.Equal(want) || !fx.gateway.last.EndTime.Equal(want.Add(time.Hour)) {
		t.Fatalf("event range = %v..%v", fx.gateway.last.StartTime, fx.gateway.last.EndTime)
	}
	if fx.gateway.last.ContactID != "crm-42" {
		t.Fatalf("event contact id = %q", fx.gateway.last.ContactID)
	}

	logged, err := fx.store.List(ctx, "t1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(logged) != 1 || logged[0].ID != booking.ID {
		t.Fatalf("log = %+v", logged)
	}
	if fx.notifier.calls != 1 {
		t.Fatalf("notifier called %d times", fx.notifier.calls)
	}
}

// The Store and Committer share one Keyed in production wiring. The commit
// holds the tenant's bookings lock across the remote call and the append, so
// the append must not try to take it again.
func TestCommitWithSharedLocks(t *testing.T) {
	mr := miniredis.RunT(t)
	keyed := locks.NewKeyed()
	bs := NewStore(store.New(redis.NewClient(&redis.Options{Addr: mr.Addr()})), keyed)

	ts := &fakeTenants{tenant: &tenants.Tenant{ID: "t1", Name: "Salon", Credentials: fullCreds()}}
	ps := &fakeProfiles{profile: &customers.Profile{Name: "Dana", Phone: "0501234567", ContactID: "crm-42"}}
	ss := &fakeServices{services: map[string]catalog.Service{"Haircut": {Name: "Haircut", Price: 120}}}
	gw := &fakeGateway{appt: &highlevel.Appointment{ID: "evt-1"}}
	c := NewCommitter(ts, ps, ss, gw, bs, keyed, time.UTC, nil, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := c.Commit(context.Background(), "t1", validRequest())
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Commit: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Commit did not return; bookings lock held twice")
	}

	logged, err := bs.List(context.Background(), "t1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(logged) != 1 {
		t.Fatalf("log has %d entries", len(logged))
	}
}

func TestCommitMissingProfileSkipsNetwork(t *testing.T) {
	fx := newFixture(t, func(_ *fakeTenants, ps *fakeProfiles, _ *fakeServices, _ *fakeGateway) {
		ps.profile = nil
	})

	_, err := fx.committer.Commit(context.Background(), "t1", validRequest())
	if fault.KindOf(err) != fault.KindValidation {
		t.Fatalf("KindOf = %v, want validation", fault.KindOf(err))
	}
	if fx.gateway.calls != 0 {
		t.Fatalf("gateway called %d times without a profile", fx.gateway.calls)
	}
}

func TestCommitProfileWithoutContactID(t *testing.T) {
	fx := newFixture(t, func(_ *fakeTenants, ps *fakeProfiles, _ *fakeServices, _ *fakeGateway) {
		ps.profile = &customers.Profile{Name: "Dana", Phone: "0501234567"}
	})

	_, err := fx.committer.Commit(context.Background(), "t1", validRequest())
	if fault.KindOf(err) != fault.KindValidation {
		t.Fatalf("KindOf = %v, want validation", fault.KindOf(err))
	}
	if fx.gateway.calls != 0 {
		t.Fatalf("gateway called %d times", fx.gateway.calls)
	}
}

func TestCommitUnknownService(t *testing.T) {
	fx := newFixture(t, nil)

	req := validRequest()
	req.Service = "Massage"
	_, err := fx.committer.Commit(context.Background(), "t1", req)
	if fault.KindOf(err) != fault.KindValidation {
		t.Fatalf("KindOf = %v, want validation", fault.KindOf(err))
	}
	if fx.gateway.calls != 0 {
		t.Fatalf("gateway called %d times for unknown service", fx.gateway.calls)
	}
}

func TestCommitIncompleteCredentials(t *testing.T) {
	fx := newFixture(t, func(ts *fakeTenants, _ *fakeProfiles, _ *fakeServices, _ *fakeGateway) {
		ts.tenant.Credentials = highlevel.Credentials{APIToken: "tok"}
	})

	_, err := fx.committer.Commit(context.Background(), "t1", validRequest())
	if fault.KindOf(err) != fault.KindConfiguration {
		t.Fatalf("KindOf = %v, want configuration", fault.KindOf(err))
	}
	if fx.gateway.calls != 0 {
		t.Fatalf("gateway called %d times", fx.gateway.calls)
	}
}

func TestCommitInvalidSlotTime(t *testing.T) {
	fx := newFixture(t, nil)

	req := validRequest()
	req.Time = "25:99"
	_, err := fx.committer.Commit(context.Background(), "t1", req)
	if fault.KindOf(err) != fault.KindValidation {
		t.Fatalf("KindOf = %v, want validation", fault.KindOf(err))
	}
}

func TestCommitRemoteFailureLeavesLogUntouched(t *testing.T) {
	fx := newFixture(t, func(_ *fakeTenants, _ *fakeProfiles, _ *fakeServices, gw *fakeGateway) {
		gw.err = fault.TransientFetch(nil, "highlevel: appointment status 502")
	})
	ctx := context.Background()

	_, err := fx.committer.Commit(ctx, "t1", validRequest())
	if fault.KindOf(err) != fault.KindTransientFetch {
		t.Fatalf("KindOf = %v, want transient fetch", fault.KindOf(err))
	}

	logged, err := fx.store.List(ctx, "t1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(logged) != 0 {
		t.Fatalf("log has %d entries after remote failure", len(logged))
	}
	if fx.notifier.calls != 0 {
		t.Fatalf("notifier called after failed commit")
	}
}

func TestCommitNotifierFailureDoesNotFailBooking(t *testing.T) {
	fx := newFixture(t, nil)
	fx.notifier.err = fault.TransientFetch(nil, "notify: smtp down")

	booking, err := fx.committer.Commit(context.Background(), "t1", validRequest())
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if booking == nil || booking.EventID != "evt-1" {
		t.Fatalf("booking = %+v", booking)
	}
}

func TestListNewestFirst(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()

	first, err := fx.committer.Commit(ctx, "t1", validRequest())
	if err != nil {
		t.Fatalf("first Commit: %v", err)
	}
	second := validRequest()
	second.Time = "11:00"
	latest, err := fx.committer.Commit(ctx, "t1", second)
	if err != nil {
		t.Fatalf("second Commit: %v", err)
	}

	logged, err := fx.store.List(ctx, "t1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(logged) != 2 || logged[0].ID != latest.ID || logged[1].ID != first.ID {
		t.Fatalf("log order = %+v", logged)
	}
}

func TestCommitTenantIsolation(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()

	if _, err := fx.committer.Commit(ctx, "t1", validRequest()); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	other, err := fx.store.List(ctx, "t2")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("tenant t2 sees %d bookings", len(other))
	}
}
