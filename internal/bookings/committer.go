package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avivshm/glowbook/internal/catalog"
	"github.com/avivshm/glowbook/internal/customers"
	"github.com/avivshm/glowbook/internal/fault"
	"github.com/avivshm/glowbook/internal/highlevel"
	"github.com/avivshm/glowbook/internal/locks"
	"github.com/avivshm/glowbook/internal/observability/metrics"
	"github.com/avivshm/glowbook/internal/store"
	"github.com/avivshm/glowbook/internal/tenants"
	"github.com/avivshm/glowbook/pkg/logging"
)

// Appointments are booked in fixed one-hour slots.
const slotDuration = time.Hour

type TenantSource interface {
	Get(ctx context.Context, tenantID string) (*tenants.Tenant, error)
}

type ProfileSource interface {
	Get(ctx context.Context, tenantID, phone string) (*customers.Profile, error)
}

type ServiceSource interface {
	Find(ctx context.Context, tenantID, name string) (*catalog.Service, error)
}

// AppointmentGateway creates the calendar event on the remote side.
type AppointmentGateway interface {
	CreateAppointment(ctx context.Context, creds highlevel.Credentials, req highlevel.AppointmentRequest) (*highlevel.Appointment, error)
}

// Notifier delivers a best-effort confirmation after a commit. A failure
// here never fails the booking.
type Notifier interface {
	BookingConfirmed(ctx context.Context, tenant *tenants.Tenant, b *Booking) error
}

// CommitRequest identifies the slot, service, and customer for a commit.
// The customer is referenced by phone; the profile must already exist.
type CommitRequest struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Service string `json:"service"`
	Phone   string `json:"phone"`
}

// Committer runs the booking transaction: validate locally, create the
// remote event, then append the local snapshot.
type Committer struct {
	tenants  TenantSource
	profiles ProfileSource
	services ServiceSource
	gateway  AppointmentGateway
	store    *Store
	locks    *locks.Keyed
	loc      *time.Location
	notifier Notifier
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

func NewCommitter(ts TenantSource, ps ProfileSource, ss ServiceSource, gw AppointmentGateway,
	s *Store, l *locks.Keyed, loc *time.Location, notifier Notifier,
	m *metrics.BookingMetrics, logger *logging.Logger) *Committer {
	if l == nil {
		l = locks.NewKeyed()
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Committer{
		tenants:  ts,
		profiles: ps,
		services: ss,
		gateway:  gw,
		store:    s,
		locks:    l,
		loc:      loc,
		notifier: notifier,
		metrics:  m,
		logger:   logger.Component("bookings"),
	}
}

// Commit books the slot. The local log is only appended after the remote
// calendar accepted the event; a remote failure leaves the log untouched.
func (c *Committer) Commit(ctx context.Context, tenantID string, req CommitRequest) (*Booking, error) {
	profile, err := c.profiles.Get(ctx, tenantID, req.Phone)
	if err != nil {
		if fault.KindOf(err) == fault.KindNotFound {
			return nil, fault.Validation("bookings: missing customer profile for phone %s", req.Phone)
		}
		return nil, err
	}
	if profile.ContactID == "" {
		return nil, fault.Validation("bookings: customer profile has no remote contact id")
	}

	tenant, err := c.tenants.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.Credentials.Complete() {
		return nil, fault.Configuration("bookings: tenant %s has an incomplete credential bundle", tenantID)
	}

	svc, err := c.services.Find(ctx, tenantID, req.Service)
	if err != nil {
		if fault.KindOf(err) == fault.KindNotFound {
			return nil, fault.Validation("bookings: unknown service %q", req.Service)
		}
		return nil, err
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.Time, c.loc)
	if err != nil {
		return nil, fault.Validation("bookings: invalid date/time %q %q", req.Date, req.Time)
	}

	unlock := c.locks.Acquire(locks.ResourceKey(tenantID, store.CollectionBookings))
	defer unlock()

	appt, err := c.gateway.CreateAppointment(ctx, tenant.Credentials, highlevel.AppointmentRequest{
		ContactID: profile.ContactID,
		StartTime: start,
		EndTime:   start.Add(slotDuration),
		Title:     svc.Name,
	})
	if err != nil {
		c.metrics.ObserveGatewayRequest("create_appointment", "error")
		c.metrics.ObserveCommit("remote_failed")
		c.logger.Error("remote event creation failed",
			"tenant_id", tenantID, "date", req.Date, "time", req.Time, "error", err)
		return nil, err
	}
	c.metrics.ObserveGatewayRequest("create_appointment", "ok")

	booking := &Booking{
		ID:            uuid.NewString(),
		Date:          req.Date,
		Time:          req.Time,
		Service:       svc.Name,
		Price:         svc.Price,
		CustomerName:  profile.Name,
		CustomerPhone: profile.Phone,
		EventID:       appt.ID,
		CreatedAt:     time.Now().UTC(),
	}
	// The bookings lock is still held here, so the store append must not
	// re-acquire it.
	if err := c.store.appendLocked(ctx, tenantID, booking); err != nil {
		// The remote event exists but the local log write failed. Surface
		// the error; the log can be reconciled from the remote calendar.
		c.metrics.ObserveCommit("log_failed")
		return nil, err
	}

	if c.notifier != nil {
		if err := c.notifier.BookingConfirmed(ctx, tenant, booking); err != nil {
			c.logger.Warn("confirmation notification failed",
				"tenant_id", tenantID, "booking_id", booking.ID, "error", err)
		}
	}

	c.metrics.ObserveCommit("ok")
	c.logger.Info("booking committed",
		"tenant_id", tenantID,
		"booking_id", booking.ID,
		"event_id", appt.ID,
		"service", svc.Name,
		"date", req.Date,
		"time", req.Time)
	return booking, nil
}
