package highlevel

import "time"

const (
	defaultBaseURL = "https://services.leadconnectorhq.com"

	// HighLevel pins API behavior per endpoint family via a Version header.
	calendarAPIVersion = "2021-04-15"
	contactAPIVersion  = "2021-07-28"
)

// Credentials is a tenant's HighLevel credential bundle.
type Credentials struct {
	APIToken   string `json:"api_token"`
	CalendarID string `json:"calendar_id"`
	LocationID string `json:"location_id"`
}

// Complete reports whether every identifier needed for booking is present.
func (c Credentials) Complete() bool {
	return c.APIToken != "" && c.CalendarID != "" && c.LocationID != ""
}

// daySlots is the per-date entry in the free-slots response.
type daySlots struct {
	Slots []string `json:"slots"`
}

// AppointmentRequest is the input for calendar event creation.
type AppointmentRequest struct {
	ContactID string
	StartTime time.Time
	EndTime   time.Time
	Title     string
}

type appointmentPayload struct {
	CalendarID          string `json:"calendarId"`
	LocationID          string `json:"locationId"`
	ContactID           string `json:"contactId"`
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	Title               string `json:"title"`
	MeetingLocationType string `json:"meetingLocationType"`
	AppointmentStatus   string `json:"appointmentStatus"`
}

// Appointment is the created calendar event.
type Appointment struct {
	ID string `json:"id"`
}

type contactPayload struct {
	LocationID string `json:"locationId"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
}

// Contact is the remote CRM identity returned by the upsert endpoint.
type Contact struct {
	ID string `json:"id"`
}

// Some deployments wrap the contact in an envelope, others return it flat.
type contactResponse struct {
	ID      string   `json:"id"`
	Contact *Contact `json:"contact"`
}
