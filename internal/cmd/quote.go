package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dvcrn/wework-cli/internal/api"
	"github.com/dvcrn/wework-cli/internal/tui"
	"github.com/dvcrn/wework-cli/internal/util"
	"github.com/spf13/cobra"
)

func newQuoteCommand(a *app) *cobra.Command {
	var locationUUID, city, name, date string

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Get a booking quote for a workspace",
		Long: `Get a booking quote for a workspace at a WeWork location without creating a
booking. Useful for checking availability and pricing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if locationUUID == "" && (name == "" || city == "") {
				return fmt.Errorf("--location-uuid OR (--city + --name) is required for quoting")
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
				if err = a.quoteDay(cmd.Context(), client, target, day); err != nil {
					a.println(tui.Error(err.Error()))
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d quotes failed", failed, len(dates))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&locationUUID, "location-uuid", "", "Location UUID for quoting")
	cmd.Flags().StringVar(&city, "city", "", "City name")
	cmd.Flags().StringVar(&name, "name", "", "Location name within --city")
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD, a comma separated list or a range YYYY-MM-DD~YYYY-MM-DD (default today)")
	return cmd
}

func (a *app) quoteDay(ctx context.Context, client *api.Client, locationUUID string, day time.Time) error {
	label := day.Format(util.DateLayout)

	var (
		ws    *api.Workspace
		quote *api.BookingQuote
	)
	err := a.spin(ctx, fmt.Sprintf("Getting quote for %s", label), func(ctx context.Context) error {
		spaces, err := client.GetAvailableSpaces(ctx, day, []string{locationUUID})
		if err != nil {
			return fmt.Errorf("error getting spaces for %s: %w", label, err)
		}
		if ws, err = singleWorkspace(day, spaces); err != nil {
			return err
		}
		if quote, err = client.GetBookingQuote(ctx, day, ws); err != nil {
			return fmt.Errorf("failed to get booking quote: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	a.println(tui.Title(fmt.Sprintf("Quote for %s on %s", ws.Location.Name, label)))
	a.println(tui.Details([]tui.Field{
		{Label: "Quote", Value: quote.UUID},
		{Label: "Status", Value: strconv.Itoa(quote.QuoteStatus)},
		{Label: "Details", Value: strings.Join(quote.StatusDetails, "; ")},
		{Label: "Subtotal", Value: formatAmount(quote.SubTotal)},
		{Label: "Total", Value: formatAmount(quote.GrandTotal)},
		{Label: "Space", Value: ws.UUID},
		{Label: "Available", Value: strconv.Itoa(ws.Seat.Available)},
	}))
	a.println()
	return nil
}
