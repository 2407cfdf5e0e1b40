package availability

import (
	"context"
	"sort"
	"time"

	"github.com/avivshm/glowbook/internal/fault"
	"github.com/avivshm/glowbook/internal/highlevel"
	"github.com/avivshm/glowbook/internal/observability/metrics"
	"github.com/avivshm/glowbook/internal/tenants"
	"github.com/avivshm/glowbook/pkg/logging"
)

// Gateway is the slice of the HighLevel client the resolver needs.
type Gateway interface {
	FreeSlots(ctx context.Context, creds highlevel.Credentials, date string, loc *time.Location) ([]string, error)
}

// TenantSource loads tenants with their credential bundles.
type TenantSource interface {
	Get(ctx context.Context, tenantID string) (*tenants.Tenant, error)
}

// Intersect filters remote free times through a working-hour window.
// Times are "HH:MM" values. A time survives when
// start <= t < end and, with a break configured, t < breakStart or
// t >= breakEnd; the break end itself is bookable again. A nil window
// passes everything through. The result is sorted ascending.
func Intersect(w *Window, times []string) []string {
	out := make([]string, 0, len(times))
	for _, t := range times {
		if w != nil {
			if t < w.StartTime || t >= w.EndTime {
				continue
			}
			if w.HasBreak() && t >= w.BreakStart && t < w.BreakEnd {
				continue
			}
		}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Resolver computes the bookable slots for a tenant and date by
// intersecting the remote calendar's free times with the configured window.
type Resolver struct {
	tenants TenantSource
	windows *WindowStore
	gateway Gateway
	loc     *time.Location
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// NewResolver creates a resolver. loc is the platform's booking timezone.
func NewResolver(ts TenantSource, ws *WindowStore, gw Gateway, loc *time.Location, m *metrics.BookingMetrics, logger *logging.Logger) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{
		tenants: ts,
		windows: ws,
		gateway: gw,
		loc:     loc,
		metrics: m,
		logger:  logger.Component("resolver"),
	}
}

// Slots returns the ordered bookable "HH:MM" times for a tenant and date.
// An empty list with a nil error means nothing is free; configuration,
// transient and data-integrity failures come back as typed errors, with
// data-integrity additionally yielding an empty (non-nil) list.
func (r *Resolver) Slots(ctx context.Context, tenantID, date string) ([]string, error) {
	tenant, err := r.tenants.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.Credentials.Complete() {
		return nil, fault.Configuration("availability: tenant %s has no complete credential bundle", tenantID)
	}

	window, err := r.windows.ForDate(ctx, tenantID, date)
	if err != nil {
		return nil, err
	}

	raw, err := r.gateway.FreeSlots(ctx, tenant.Credentials, date, r.loc)
	if err != nil {
		if fault.KindOf(err) == fault.KindDataIntegrity {
			r.metrics.ObserveGatewayRequest("free_slots", "bad_payload")
			r.logger.Warn("free-slots payload malformed, treating as no availability",
				"tenant_id", tenantID, "date", date, "error", err)
			return []string{}, err
		}
		r.metrics.ObserveGatewayRequest("free_slots", "error")
		return nil, err
	}
	r.metrics.ObserveGatewayRequest("free_slots", "ok")

	times := make([]string, 0, len(raw))
	for _, ts := range raw {
		parsed, perr := time.Parse(time.RFC3339, ts)
		if perr != nil {
			r.logger.Warn("skipping malformed slot timestamp", "tenant_id", tenantID, "slot", ts)
			continue
		}
		times = append(times, parsed.In(r.loc).Format("15:04"))
	}

	slots := Intersect(window, times)
	r.metrics.ObserveSlotsResolved(len(slots), window != nil)
	return slots, nil
}
