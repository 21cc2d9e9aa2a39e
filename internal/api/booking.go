package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	quotePath   = "/workplaceone/api/common-booking/quote"
	bookingPath = "/workplaceone/api/common-booking/"

	deskSpaceType   = 4
	creditsCurrency = "com.wework.credits"
	applicationType = "WorkplaceOne"
	platformType    = "iOS_APP"
	utcLayout       = "2006-01-02T15:04:05Z"

	// maxAdvanceBooking is how far ahead the booking endpoint accepts a start time.
	maxAdvanceBooking = 30 * 24 * time.Hour
)

var errNilWorkspace = errors.New("workspace is nil")

// getQuoteParameters picks the identifiers for ws. Workspaces migrated to the
// newer booking system are addressed by their kube id, others by their uuid.
func getQuoteParameters(ws *Workspace) (QuoteParameters, error) {
	if ws == nil {
		return QuoteParameters{}, errNilWorkspace
	}
	params := QuoteParameters{
		LocationType: ws.Location.AccountType,
		SpaceID:      ws.UUID,
	}
	if ws.Reservable != nil && ws.Reservable.KubeId != "" {
		params.SpaceID = ws.Reservable.KubeId
	}
	return params, nil
}

// bookingWindow is the local opening period of a workspace on one day.
type bookingWindow struct {
	start time.Time
	end   time.Time
}

// newBookingWindow places the calendar day of date in the workspace's time
// zone and spans it from opening to closing time (08:30 to 20:00 when unknown).
func newBookingWindow(date time.Time, ws *Workspace) (bookingWindow, error) {
	loc, err := time.LoadLocation(ws.Location.TimeZone)
	if err != nil {
		return bookingWindow{}, fmt.Errorf("unknown time zone %q for %s: %w", ws.Location.TimeZone, ws.Location.Name, err)
	}
	openHour, openMin := parseClock(ws.OpenTime, 8, 30)
	closeHour, closeMin := parseClock(ws.CloseTime, 20, 0)

	year, month, day := date.Date()
	return bookingWindow{
		start: time.Date(year, month, day, openHour, openMin, 0, 0, loc),
		end:   time.Date(year, month, day, closeHour, closeMin, 0, 0, loc),
	}, nil
}

func parseClock(value string, defHour, defMin int) (int, int) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return defHour, defMin
	}
	return t.Hour(), t.Minute()
}

func (w bookingWindow) shift(days int) bookingWindow {
	return bookingWindow{start: w.start.AddDate(0, 0, days), end: w.end.AddDate(0, 0, days)}
}

// clamp moves the window back inside the advance booking limit relative to
// now. The second result reports whether it moved.
func (w bookingWindow) clamp(now time.Time) (bookingWindow, bool) {
	ahead := w.start.Sub(now)
	if ahead <= maxAdvanceBooking {
		return w, false
	}
	daysOver := int(ahead/(24*time.Hour)) - int(maxAdvanceBooking/(24*time.Hour))
	return w.shift(-(daysOver + 1)), true
}

type mailData struct {
	DayFormatted       string `json:"dayFormatted"`
	StartTimeFormatted string `json:"startTimeFormatted"`
	EndTimeFormatted   string `json:"endTimeFormatted"`
	FloorAddress       string `json:"floorAddress"`
	LocationAddress    string `json:"locationAddress"`
	CreditsUsed        string `json:"creditsUsed"`
	Capacity           string `json:"Capacity"`
	TimezoneUsed       string `json:"TimezoneUsed"`
	TimezoneIana       string `json:"TimezoneIana"`
	StartDateTime      string `json:"startDateTime"`
	EndDateTime        string `json:"endDateTime"`
	LocationName       string `json:"locationName"`
	LocationCity       string `json:"locationCity"`
	LocationCountry    string `json:"locationCountry"`
	LocationState      string `json:"locationState"`
}

type bookingRequest struct {
	ApplicationType      string   `json:"ApplicationType,omitempty"`
	PlatformType         string   `json:"PlatformType,omitempty"`
	SpaceType            int      `json:"SpaceType"`
	ReservationID        string   `json:"ReservationID"`
	TriggerCalendarEvent bool     `json:"TriggerCalendarEvent"`
	Notes                *string  `json:"Notes"`
	MailData             mailData `json:"MailData"`
	LocationType         int      `json:"LocationType"`
	UTCOffset            string   `json:"UTCOffset"`
	Currency             string   `json:"Currency,omitempty"`
	CreditRatio          *float64 `json:"CreditRatio,omitempty"`
	LocationID           string   `json:"LocationID"`
	SpaceID              string   `json:"SpaceID"`
	WeWorkSpaceID        string   `json:"WeWorkSpaceID"`
	StartTime            string   `json:"StartTime"`
	EndTime              string   `json:"EndTime"`
}

func newBookingRequest(ws *Workspace, params QuoteParameters, w bookingWindow) bookingRequest {
	offset := ws.Location.TimezoneOffset
	if offset == "" {
		offset = w.start.Format("-07:00")
	}
	return bookingRequest{
		SpaceType:            deskSpaceType,
		TriggerCalendarEvent: true,
		MailData: mailData{
			DayFormatted:       formatDay(w.start),
			StartTimeFormatted: w.start.Format("3:04 PM"),
			EndTimeFormatted:   w.end.Format("3:04 PM"),
			LocationAddress:    ws.Location.Address.Line1,
			CreditsUsed:        strconv.FormatFloat(ws.Credits, 'f', -1, 64),
			Capacity:           "1",
			TimezoneUsed:       "GMT " + offset,
			TimezoneIana:       ws.Location.TimeZone,
			StartDateTime:      w.start.Format("2006-01-02 15:04"),
			EndDateTime:        w.end.Format("2006-01-02 15:04"),
			LocationName:       ws.Location.Name,
			LocationCity:       ws.Location.Address.City,
			LocationCountry:    ws.Location.Address.Country,
			LocationState:      ws.Location.Address.State,
		},
		LocationType:  params.LocationType,
		UTCOffset:     offset,
		LocationID:    ws.Location.UUID,
		SpaceID:       params.SpaceID,
		WeWorkSpaceID: ws.UUID,
		StartTime:     w.start.UTC().Format(utcLayout),
		EndTime:       w.end.UTC().Format(utcLayout),
	}
}

// formatDay renders t as "Monday, March 3rd".
func formatDay(t time.Time) string {
	return fmt.Sprintf("%s, %s %d%s", t.Weekday(), t.Month(), t.Day(), ordinalSuffix(t.Day()))
}

func ordinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// GetBookingQuote prices a desk at ws for the day of date.
func (c *Client) GetBookingQuote(ctx context.Context, date time.Time, ws *Workspace) (*BookingQuote, error) {
	params, err := getQuoteParameters(ws)
	if err != nil {
		return nil, err
	}
	window, err := newBookingWindow(date, ws)
	if err != nil {
		return nil, err
	}

	req := newBookingRequest(ws, params, window)
	req.Currency = creditsCurrency

	var quote BookingQuote
	if err = c.post(ctx, quotePath, req, &quote); err != nil {
		return nil, fmt.Errorf("failed to get booking quote: %w", err)
	}
	return &quote, nil
}

// CreateBooking quotes and then books a desk at ws for the day of date.
// Days beyond the advance booking limit are moved back inside it with a warning.
func (c *Client) CreateBooking(ctx context.Context, date time.Time, ws *Workspace) (*BookSpaceResponse, error) {
	quote, err := c.GetBookingQuote(ctx, date, ws)
	if err != nil {
		return nil, err
	}
	params, err := getQuoteParameters(ws)
	if err != nil {
		return nil, err
	}
	window, err := newBookingWindow(date, ws)
	if err != nil {
		return nil, err
	}
	if clamped, moved := window.clamp(c.now()); moved {
		log.WithFields(log.Fields{
			"requested": window.start.Format("2006-01-02"),
			"booked":    clamped.start.Format("2006-01-02"),
		}).Warn("booking date is beyond the advance booking limit, check the reservation")
		window = clamped
	}

	req := newBookingRequest(ws, params, window)
	req.ApplicationType = applicationType
	req.PlatformType = platformType
	if quote.GrandTotal != nil {
		ratio := quote.GrandTotal.CreditRatio
		req.CreditRatio = &ratio
	}

	var result BookSpaceResponse
	if err = c.post(ctx, bookingPath, req, &result); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return &result, nil
}
