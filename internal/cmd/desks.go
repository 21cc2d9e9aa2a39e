package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dvcrn/wework-cli/internal/api"
	"github.com/dvcrn/wework-cli/internal/tui"
	"github.com/dvcrn/wework-cli/internal/util"
	"github.com/spf13/cobra"
)

func newDesksCommand(a *app) *cobra.Command {
	var locationUUID, city, date string

	cmd := &cobra.Command{
		Use:   "desks",
		Short: "List available desks",
		Long: `List available desks at WeWork locations, either every location of a city
or the given comma separated location UUIDs.`,
		Example: `  wework desks --city Tokyo --date 2025-03-10
  wework desks --location-uuid 3f1c...,8a2e... --date 2025-03-10~2025-03-14`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(locationUUID) == "" && strings.TrimSpace(city) == "" {
				return fmt.Errorf("--location-uuid or --city is required for desks lookup")
			}
			dates, err := a.parseDates(date)
			if err != nil {
				return err
			}

			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			locationUUIDs := splitList(locationUUID)
			if len(locationUUIDs) == 0 {
				err = a.spin(cmd.Context(), fmt.Sprintf("Getting locations in %s", city), func(ctx context.Context) error {
					res, errGet := client.GetLocationsByGeo(ctx, city)
					if errGet != nil {
						return errGet
					}
					for _, loc := range res.LocationsByGeo {
						locationUUIDs = append(locationUUIDs, loc.UUID)
					}
					return nil
				})
				if err != nil {
					return fmt.Errorf("failed to get locations: %w", err)
				}
				if len(locationUUIDs) == 0 {
					return fmt.Errorf("no locations found in %s", city)
				}
			}

			var rows [][]string
			for _, day := range dates {
				var res *api.SharedWorkspaceResponse
				err = a.spin(cmd.Context(), fmt.Sprintf("Getting available desks for %s", day.Format(util.DateLayout)), func(ctx context.Context) error {
					var errGet error
					res, errGet = client.GetAvailableSpaces(ctx, day, locationUUIDs)
					return errGet
				})
				if err != nil {
					return fmt.Errorf("failed to get available spaces: %w", err)
				}
				for _, ws := range res.Response.Workspaces {
					rows = append(rows, []string{
						day.Format(util.DateLayout),
						util.TruncateString(ws.Location.Name, 30),
						ws.UUID,
						ws.Location.UUID,
						strconv.Itoa(ws.Seat.Available),
						strconv.FormatFloat(ws.Credits, 'f', -1, 64),
					})
				}
			}
			if len(rows) == 0 {
				return fmt.Errorf("no spaces found, or not available for the given date")
			}

			a.println(tui.Table([]string{"Date", "Location", "Reservable ID", "Location ID", "Available", "Credits"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&locationUUID, "location-uuid", "", "Location UUID, or a comma separated list")
	cmd.Flags().StringVar(&city, "city", "", "City name")
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD, a comma separated list or a range YYYY-MM-DD~YYYY-MM-DD (default today)")
	return cmd
}
