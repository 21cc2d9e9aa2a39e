package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dvcrn/wework-cli/internal/api"
	"github.com/dvcrn/wework-cli/internal/tui"
	"github.com/dvcrn/wework-cli/internal/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newBookCommand(a *app) *cobra.Command {
	var locationUUID, city, name, date string

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book a desk",
		Long: `Book a shared desk at a WeWork location for one or more days. Each day is
booked separately; a failure on one day does not stop the others.`,
		Example: `  wework book --city Tokyo --name "Shibuya Scramble Square" --date 2025-03-10
  wework book --location-uuid 3f1c... --date 2025-03-10,2025-03-12`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if locationUUID == "" && (name == "" || city == "") {
				return fmt.Errorf("--location-uuid OR (--city + --name) is required for booking")
			}
			dates, err := a.parseDates(date)
			if err != nil {
				return err
			}

			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			target, err := a.resolveLocation(cmd.Context(), client, locationUUID, city, name)
			if err != nil {
				return err
			}

			failed := 0
			for _, day := range dates {
				if err = a.bookDay(cmd.Context(), client, target, day); err != nil {
					a.println(tui.Error(err.Error()))
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d bookings failed", failed, len(dates))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&locationUUID, "location-uuid", "", "Location UUID for booking")
	cmd.Flags().StringVar(&city, "city", "", "City name")
	cmd.Flags().StringVar(&name, "name", "", "Location name within --city")
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD, a comma separated list or a range YYYY-MM-DD~YYYY-MM-DD (default today)")
	return cmd
}

func (a *app) bookDay(ctx context.Context, client *api.Client, locationUUID string, day time.Time) error {
	label := day.Format(util.DateLayout)

	var (
		ws  *api.Workspace
		res *api.BookSpaceResponse
	)
	err := a.spin(ctx, fmt.Sprintf("Booking %s", label), func(ctx context.Context) error {
		spaces, err := client.GetAvailableSpaces(ctx, day, []string{locationUUID})
		if err != nil {
			return fmt.Errorf("error getting spaces for %s: %w", label, err)
		}
		if ws, err = singleWorkspace(day, spaces); err != nil {
			return err
		}
		if ws.Seat.Available <= 0 {
			log.WithFields(log.Fields{"date": label, "space": ws.UUID}).Warn("space reports no free seats, trying anyway")
		}
		if res, err = client.CreateBooking(ctx, day, ws); err != nil {
			return fmt.Errorf("booking failed for %s: %w", label, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !res.Succeeded() {
		msg := fmt.Sprintf("booking failed for %s at %s: status %q", label, ws.Location.Name, res.BookingStatus)
		if len(res.Errors) > 0 {
			msg += ": " + strings.Join(res.Errors, "; ")
		}
		return errors.New(msg)
	}

	line := fmt.Sprintf("Booked %s at %s", label, ws.Location.Name)
	if id := res.Reservation(); id != "" {
		line += fmt.Sprintf(" (reservation %s)", id)
	}
	a.println(tui.Success(line))
	return nil
}
