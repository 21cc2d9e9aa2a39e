package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dvcrn/wework-cli/internal/api"
	"github.com/dvcrn/wework-cli/internal/tui"
	"github.com/dvcrn/wework-cli/internal/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newBookingsCommand(a *app) *cobra.Command {
	var past bool

	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List your bookings",
		Long:  `List your upcoming WeWork bookings, or past ones with --past. Times are shown in each location's time zone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			kind := "upcoming"
			fetch := client.GetUpcomingBookings
			if past {
				kind = "past"
				fetch = client.GetPastBookings
			}

			var bookings []*api.Booking
			err = a.spin(cmd.Context(), fmt.Sprintf("Getting %s bookings", kind), func(ctx context.Context) error {
				var errGet error
				bookings, errGet = fetch(ctx)
				return errGet
			})
			if err != nil {
				if _, ok := errors.AsType[*api.HTTPError](err); !ok {
					return fmt.Errorf("failed to get %s bookings: %w", kind, err)
				}
				log.WithError(err).Warnf("%s bookings unavailable", kind)
				bookings = nil
			}

			if len(bookings) == 0 {
				a.println(tui.Muted(fmt.Sprintf("No %s bookings found.", kind)))
				return nil
			}
			a.println(tui.Table(
				[]string{"Date", "Time", "Location", "Address", "Credits"},
				bookingRows(bookings, a.now()),
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&past, "past", false, "Show past bookings instead of upcoming ones")
	return cmd
}

// bookingRows renders one table row per booking. Today's bookings are marked with "*".
func bookingRows(bookings []*api.Booking, now time.Time) [][]string {
	rows := make([][]string, 0, len(bookings))
	for _, b := range bookings {
		if b == nil {
			continue
		}
		day := b.StartsAt.Format("2006-01-02 Mon")
		if util.SameDay(b.StartsAt, now) {
			day += " *"
		}
		name := b.LocationName()
		if name == "" {
			name = "Desk booking"
		}
		rows = append(rows, []string{
			day,
			fmt.Sprintf("%s ~ %s", b.StartsAt.Format("15:04"), b.EndsAt.Format("15:04 (MST)")),
			util.TruncateString(name, 30),
			util.TruncateString(b.LocationAddress(), 40),
			b.Credits(),
		})
	}
	return rows
}
