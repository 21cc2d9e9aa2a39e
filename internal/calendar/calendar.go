// Package calendar renders the member's bookings as an iCalendar feed.
package calendar

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/dvcrn/wework-cli/internal/api"
	log "github.com/sirupsen/logrus"
)

const (
	// ProductID identifies the generator in the PRODID property.
	ProductID = "-//WeWork Calendar//workplaceone//"

	// MaxPastBookings is how many past bookings are kept in the feed.
	MaxPastBookings = 10

	bookingsPageURL = "https://members.wework.com/workplaceone/content2/your-bookings"
	calendarName    = "WeWork Bookings"
)

// BookingSource is the part of the members API the calendar needs.
type BookingSource interface {
	GetUpcomingBookings(ctx context.Context) ([]*api.Booking, error)
	GetPastBookings(ctx context.Context) ([]*api.Booking, error)
}

// Collect fetches upcoming bookings and the most recent past bookings, drops
// duplicates by uuid and returns them ordered by start time.
func Collect(ctx context.Context, src BookingSource) ([]*api.Booking, error) {
	past, err := src.GetPastBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get past bookings: %w", err)
	}
	upcoming, err := src.GetUpcomingBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming bookings: %w", err)
	}

	kept := make([]*api.Booking, 0, len(past))
	for _, b := range past {
		if b != nil {
			kept = append(kept, b)
		}
	}
	past = kept
	sort.SliceStable(past, func(i, j int) bool { return past[i].StartsAt.After(past[j].StartsAt) })
	if len(past) > MaxPastBookings {
		past = past[:MaxPastBookings]
	}

	seen := make(map[string]struct{}, len(past)+len(upcoming))
	merged := make([]*api.Booking, 0, len(past)+len(upcoming))
	candidates := append(append([]*api.Booking(nil), upcoming...), past...)
	for _, b := range candidates {
		if b == nil || strings.TrimSpace(b.UUID) == "" {
			continue
		}
		if _, dup := seen[b.UUID]; dup {
			continue
		}
		seen[b.UUID] = struct{}{}
		merged = append(merged, b)
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].StartsAt.Before(merged[j].StartsAt) })

	log.WithFields(log.Fields{"count": len(merged)}).Debug("calendar bookings collected")
	return merged, nil
}

// Build creates a calendar with one all-day event per booking. The output only
// depends on the bookings, so unchanged bookings serialize to identical bytes.
func Build(bookings []*api.Booking) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetVersion("2.0")
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(calendarName)

	for _, b := range bookings {
		if b == nil {
			continue
		}
		addEvent(cal, b)
	}
	return cal
}

func addEvent(cal *ics.Calendar, b *api.Booking) {
	name := b.LocationName()
	if name == "" {
		name = "Desk booking"
	}
	day := time.Date(b.StartsAt.Year(), b.StartsAt.Month(), b.StartsAt.Day(), 0, 0, 0, 0, time.UTC)

	event := cal.AddEvent(b.UUID)
	event.SetDtStampTime(dtStamp(b))
	event.SetSummary("WeWork: " + name)
	event.SetAllDayStartAt(day)
	event.SetAllDayEndAt(day.AddDate(0, 0, 1))
	if address := b.LocationAddress(); address != "" {
		event.SetLocation(address)
	}
	event.SetURL(bookingsPageURL)
	event.SetDescription(describe(b, name))

	event.SetProperty(ics.ComponentPropertyTransp, "TRANSPARENT")
	event.SetProperty("X-MICROSOFT-CDO-ALLDAYEVENT", "TRUE")
	event.SetProperty("X-MICROSOFT-CDO-BUSYSTATUS", "FREE")
	event.SetProperty("X-MICROSOFT-CDO-IMPORTANCE", "1")
	event.SetProperty("X-MICROSOFT-DISALLOW-COUNTER", "TRUE")
	event.SetProperty("X-APPLE-TRAVEL-ADVISORY-BEHAVIOR", "DISABLED")
	event.SetProperty("X-MOZ-LASTACK", "0")
}

// dtStamp is the booking start in UTC, or the Unix epoch when the start is
// unknown.
func dtStamp(b *api.Booking) time.Time {
	if b.StartsAt.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return b.StartsAt.UTC()
}

func describe(b *api.Booking, name string) string {
	var sb strings.Builder
	sb.WriteString("WeWork Booking Details:\n")
	fmt.Fprintf(&sb, "Location: %s\n", name)
	if address := b.LocationAddress(); address != "" {
		fmt.Fprintf(&sb, "Address: %s\n", address)
	}
	fmt.Fprintf(&sb, "Time: %s - %s", b.StartsAt.Format("03:04 PM"), b.EndsAt.Format("03:04 PM"))
	if tz := b.LocationTimeZone(); tz != "" {
		fmt.Fprintf(&sb, " (%s)", tz)
	}
	sb.WriteString("\n")
	if credits := b.Credits(); credits != "" {
		fmt.Fprintf(&sb, "Credits: %s\n", credits)
	}
	fmt.Fprintf(&sb, "Booking ID: %s", b.UUID)
	return sb.String()
}

// Generate collects bookings from src and writes the calendar to w. It returns
// the number of events written.
func Generate(ctx context.Context, src BookingSource, w io.Writer) (int, error) {
	bookings, err := Collect(ctx, src)
	if err != nil {
		return 0, err
	}
	if err = Build(bookings).SerializeTo(w); err != nil {
		return 0, fmt.Errorf("failed to write calendar: %w", err)
	}
	return len(bookings), nil
}
