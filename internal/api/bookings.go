package api

import (
	"context"
	"time"
)

const (
	upcomingBookingsPath = "/workplaceone/api/common-booking/upcoming-bookings"
	pastBookingsPath     = "/workplaceone/api/ext-booking/get-wework-past-booking-data"
)

// GetUpcomingBookings lists the member's future reservations with their times
// in the booked building's zone.
func (c *Client) GetUpcomingBookings(ctx context.Context) ([]*Booking, error) {
	var result upcomingBookingsResponse
	if err := c.get(ctx, upcomingBookingsPath, nil, &result); err != nil {
		return nil, err
	}
	return localizeBookings(result.Bookings), nil
}

// GetPastBookings lists the member's past reservations.
func (c *Client) GetPastBookings(ctx context.Context) ([]*Booking, error) {
	var result []*Booking
	if err := c.get(ctx, pastBookingsPath, nil, &result); err != nil {
		return nil, err
	}
	return localizeBookings(result), nil
}

func localizeBookings(bookings []*Booking) []*Booking {
	out := bookings[:0]
	for _, b := range bookings {
		if b == nil {
			continue
		}
		if loc, err := time.LoadLocation(b.LocationTimeZone()); err == nil {
			b.StartsAt = b.StartsAt.In(loc)
			b.EndsAt = b.EndsAt.In(loc)
		}
		out = append(out, b)
	}
	return out
}
