// Package highlevel wraps the HighLevel (LeadConnector) REST API used by the
// booking flow: calendar free slots, appointment creation and contact upsert.
package highlevel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avivshm/glowbook/internal/fault"
	"github.com/avivshm/glowbook/pkg/logging"
)

const defaultTimeout = 20 * time.Second

// Client is a lightweight HTTP client for the HighLevel endpoints the
// booking flow consumes. Credentials are passed per call because every
// tenant carries its own bundle.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a HighLevel client. An empty baseURL selects the
// production endpoint; a zero timeout selects the default.
func NewClient(baseURL string, timeout time.Duration, logger *logging.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FreeSlots returns the raw slot timestamps HighLevel reports as free for
// the given date, querying [date 00:00, date+1 00:00) in loc. The date is
// formatted "2006-01-02". A response without the date key, or with a
// malformed slots entry, yields an empty list and a data-integrity error.
func (c *Client) FreeSlots(ctx context.Context, creds Credentials, date string, loc *time.Location) ([]string, error) {
	if creds.APIToken == "" || creds.CalendarID == "" {
		return nil, fault.Configuration("highlevel: missing api token or calendar id")
	}
	if loc == nil {
		loc = time.UTC
	}

	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, fault.Validation("highlevel: invalid date %q", date)
	}
	start := day
	end := day.AddDate(0, 0, 1)

	q := url.Values{}
	q.Set("startDate", strconv.FormatInt(start.UnixMilli(), 10))
	q.Set("endDate", strconv.FormatInt(end.UnixMilli(), 10))
	q.Set("timezone", loc.String())

	path := fmt.Sprintf("/calendars/%s/free-slots", url.PathEscape(creds.CalendarID))
	body, err := c.do(ctx, http.MethodGet, path, q, calendarAPIVersion, creds.APIToken, nil)
	if err != nil {
		return nil, err
	}

	// The payload maps date strings to slot lists, alongside unrelated
	// metadata keys, so each entry is decoded individually.
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fault.DataIntegrity(err, "highlevel: free-slots payload is not an object")
	}
	raw, ok := envelope[date]
	if !ok {
		return nil, fault.DataIntegrity(nil, "highlevel: free-slots response missing date %s", date)
	}
	var entry daySlots
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Slots == nil {
		return nil, fault.DataIntegrity(err, "highlevel: free-slots entry for %s has no slot list", date)
	}
	return entry.Slots, nil
}

// CreateAppointment creates a calendar event for the tenant and returns the
// remote event. Any transport failure or non-2xx status is transient; the
// caller must not record anything locally.
func (c *Client) CreateAppointment(ctx context.Context, creds Credentials, req AppointmentRequest) (*Appointment, error) {
	if !creds.Complete() {
		return nil, fault.Configuration("highlevel: incomplete credential bundle")
	}
	if req.ContactID == "" {
		return nil, fault.Validation("highlevel: contact id required")
	}

	payload := appointmentPayload{
		CalendarID:          creds.CalendarID,
		LocationID:          creds.LocationID,
		ContactID:           req.ContactID,
		StartTime:           req.StartTime.Format(time.RFC3339),
		EndTime:             req.EndTime.Format(time.RFC3339),
		Title:               req.Title,
		MeetingLocationType: "default",
		AppointmentStatus:   "new",
	}
	body, err := c.do(ctx, http.MethodPost, "/calendars/events/appointments", nil, calendarAPIVersion, creds.APIToken, payload)
	if err != nil {
		return nil, err
	}

	var appt Appointment
	if err := json.Unmarshal(body, &appt); err != nil {
		// A response we cannot read counts as a failed create.
		return nil, fault.TransientFetch(err, "highlevel: unreadable appointment response")
	}
	return &appt, nil
}

// UpsertContact creates or updates the CRM contact for a customer and
// returns its remote identity.
func (c *Client) UpsertContact(ctx context.Context, creds Credentials, name, phone string) (*Contact, error) {
	if creds.APIToken == "" || creds.LocationID == "" {
		return nil, fault.Configuration("highlevel: missing api token or location id")
	}
	if name == "" || phone == "" {
		return nil, fault.Validation("highlevel: contact name and phone required")
	}

	payload := contactPayload{LocationID: creds.LocationID, Name: name, Phone: phone}
	body, err := c.do(ctx, http.MethodPost, "/contacts/upsert", nil, contactAPIVersion, creds.APIToken, payload)
	if err != nil {
		return nil, err
	}

	var resp contactResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fault.TransientFetch(err, "highlevel: unreadable contact response")
	}
	if resp.Contact != nil && resp.Contact.ID != "" {
		return resp.Contact, nil
	}
	if resp.ID != "" {
		return &Contact{ID: resp.ID}, nil
	}
	return nil, fault.DataIntegrity(nil, "highlevel: contact response carries no id")
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, version, token string, payload any) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("highlevel: marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("highlevel: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Version", version)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fault.TransientFetch(err, "highlevel: %s %s", method, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fault.TransientFetch(err, "highlevel: read response for %s", path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		c.logger.Debug("highlevel request failed", "method", method, "path", path, "status", resp.StatusCode)
		return nil, fault.TransientFetch(nil, "highlevel: %s %s: status %d: %s", method, path, resp.StatusCode, msg)
	}

	return respBody, nil
}
