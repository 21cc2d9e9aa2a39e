package calendar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/dvcrn/wework-cli/internal/api"
)

type fakeSource struct {
	upcoming    []*api.Booking
	past        []*api.Booking
	upcomingErr error
	pastErr     error
}

func (f *fakeSource) GetUpcomingBookings(context.Context) ([]*api.Booking, error) {
	return f.upcoming, f.upcomingErr
}

func (f *fakeSource) GetPastBookings(context.Context) ([]*api.Booking, error) {
	return f.past, f.pastErr
}

func booking(id string, start time.Time) *api.Booking {
	return &api.Booking{
		UUID:     id,
		StartsAt: start,
		EndsAt:   start.Add(9 * time.Hour),
		Reservable: &api.SharedWorkspace{
			Location: &api.SharedWorkspaceLocation{
				Name:     "Shibuya Scramble Square",
				TimeZone: "Asia/Tokyo",
				Address:  api.Address{Line1: "2-24-12 Shibuya"},
			},
		},
		CreditOrder: &api.CreditOrder{Price: "2"},
	}
}

func TestCollectMergesAndLimitsPastBookings(t *testing.T) {
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	var past []*api.Booking
	for i := 0; i < 15; i++ {
		past = append(past, booking(fmt.Sprintf("past-%02d", i), base.AddDate(0, 0, i)))
	}
	upcoming := []*api.Booking{
		booking("next-1", base.AddDate(0, 1, 0)),
		booking("past-14", base.AddDate(0, 0, 14)),
		nil,
	}

	got, err := Collect(context.Background(), &fakeSource{upcoming: upcoming, past: past})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != MaxPastBookings+1 {
		t.Fatalf("expected %d bookings, got %d", MaxPastBookings+1, len(got))
	}
	if got[0].UUID != "past-05" {
		t.Fatalf("expected the oldest kept booking to be past-05, got %s", got[0].UUID)
	}
	if last := got[len(got)-1]; last.UUID != "next-1" {
		t.Fatalf("expected the newest booking last, got %s", last.UUID)
	}
	for i := 1; i < len(got); i++ {
		if got[i].StartsAt.Before(got[i-1].StartsAt) {
			t.Fatalf("bookings not ordered at %d", i)
		}
	}
}

func TestCollectPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := Collect(context.Background(), &fakeSource{pastErr: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected past bookings error, got %v", err)
	}
	if _, err := Collect(context.Background(), &fakeSource{upcomingErr: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected upcoming bookings error, got %v", err)
	}
}

func TestGenerateWritesAllDayEvents(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	src := &fakeSource{
		upcoming: []*api.Booking{booking("b-1", time.Date(2025, 3, 10, 9, 0, 0, 0, tokyo))},
	}
	var buf bytes.Buffer
	n, err := Generate(context.Background(), src, &buf)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 event, got %d", n)
	}

	out := buf.String()
	for _, want := range []string{
		"PRODID:" + ProductID,
		"UID:b-1",
		"SUMMARY:WeWork: Shibuya Scramble Square",
		"DTSTART;VALUE=DATE:20250310",
		"DTEND;VALUE=DATE:20250311",
		"DTSTAMP:20250310T000000Z",
		"X-MICROSOFT-CDO-ALLDAYEVENT:TRUE",
		"TRANSP:TRANSPARENT",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("calendar is missing %q:\n%s", want, out)
		}
	}

	parsed, err := ics.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ParseCalendar() error = %v", err)
	}
	events := parsed.Events()
	if len(events) != 1 || events[0].Id() != "b-1" {
		t.Fatalf("unexpected events after round trip: %d", len(events))
	}
}

func TestBuildSkipsMissingLocation(t *testing.T) {
	b := &api.Booking{UUID: "bare", StartsAt: time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)}
	var buf bytes.Buffer
	if err := Build([]*api.Booking{b, nil}).SerializeTo(&buf); err != nil {
		t.Fatalf("SerializeTo() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "SUMMARY:WeWork: Desk booking") {
		t.Fatalf("expected fallback summary:\n%s", out)
	}
	if strings.Contains(out, "LOCATION:") {
		t.Fatalf("expected no LOCATION without an address:\n%s", out)
	}
}

func TestGenerateIsStableForUnchangedBookings(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	newSource := func() *fakeSource {
		return &fakeSource{
			upcoming: []*api.Booking{booking("b-1", time.Date(2025, 3, 10, 9, 0, 0, 0, tokyo))},
			past:     []*api.Booking{booking("b-0", time.Date(2025, 2, 3, 9, 0, 0, 0, tokyo))},
		}
	}

	var first, second bytes.Buffer
	if _, err := Generate(context.Background(), newSource(), &first); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := Generate(context.Background(), newSource(), &second); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("identical bookings produced different calendars:\n%s\n---\n%s", first.String(), second.String())
	}

	changed := newSource()
	changed.upcoming[0] = booking("b-1", time.Date(2025, 3, 11, 9, 0, 0, 0, tokyo))
	var third bytes.Buffer
	if _, err := Generate(context.Background(), changed, &third); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if bytes.Equal(first.Bytes(), third.Bytes()) {
		t.Fatalf("a moved booking must change the calendar")
	}
}

func TestBuildStampsMissingStartWithEpoch(t *testing.T) {
	var buf bytes.Buffer
	if err := Build([]*api.Booking{{UUID: "no-start"}}).SerializeTo(&buf); err != nil {
		t.Fatalf("SerializeTo() error = %v", err)
	}
	if !strings.Contains(buf.String(), "DTSTAMP:19700101T000000Z") {
		t.Fatalf("expected epoch DTSTAMP:\n%s", buf.String())
	}
}
