// Package bookings commits appointments against the remote calendar and
// keeps the tenant's local append-only booking log. The remote calendar is
// the system of record; the local log is written only after the remote
// event exists.
package bookings

import "time"

// Booking is an immutable snapshot taken at commit time. Service name and
// price are copied, not linked, so later catalog edits never rewrite
// history.
type Booking struct {
	ID            string    `json:"id"`
	Date          string    `json:"date"` // "2006-01-02"
	Time          string    `json:"time"` // "15:04"
	Service       string    `json:"service"`
	Price         float64   `json:"price"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	EventID       string    `json:"event_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
