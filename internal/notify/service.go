// Package notify sends best-effort booking confirmations to tenant owners.
// Delivery failures are logged, never propagated into the booking flow.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/avivshm/glowbook/internal/bookings"
	"github.com/avivshm/glowbook/internal/tenants"
	"github.com/avivshm/glowbook/pkg/logging"
)

// Service emails the tenant owner whenever a booking is committed.
type Service struct {
	email  EmailSender
	logger *logging.Logger
}

func NewService(email EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, logger: logger.Component("notify")}
}

// BookingConfirmed sends the new-booking email to the tenant owner.
func (s *Service) BookingConfirmed(ctx context.Context, tenant *tenants.Tenant, b *bookings.Booking) error {
	if s.email == nil {
		s.logger.Debug("no email sender configured, skipping confirmation")
		return nil
	}
	if tenant.OwnerEmail == "" {
		s.logger.Debug("tenant has no owner email, skipping confirmation", "tenant_id", tenant.ID)
		return nil
	}

	msg := EmailMessage{
		To:      tenant.OwnerEmail,
		ToName:  tenant.Name,
		Subject: fmt.Sprintf("New booking: %s on %s at %s", b.Service, b.Date, b.Time),
		Body:    confirmationBody(tenant, b),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: booking confirmation: %w", err)
	}

	s.logger.Info("booking confirmation sent",
		"tenant_id", tenant.ID, "booking_id", b.ID, "to", tenant.OwnerEmail)
	return nil
}

func confirmationBody(tenant *tenants.Tenant, b *bookings.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "A new booking was made for %s.\n\n", tenant.Name)
	fmt.Fprintf(&sb, "Service:  %s\n", b.Service)
	fmt.Fprintf(&sb, "Date:     %s at %s\n", b.Date, b.Time)
	fmt.Fprintf(&sb, "Customer: %s (%s)\n", b.CustomerName, b.CustomerPhone)
	if b.Price > 0 {
		fmt.Fprintf(&sb, "Price:    %.2f\n", b.Price)
	}
	return sb.String()
}
