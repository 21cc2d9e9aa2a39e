package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvcrn/wework-cli/internal/api"
	"github.com/dvcrn/wework-cli/internal/tui"
	"github.com/dvcrn/wework-cli/internal/util"
	"github.com/spf13/cobra"
)

func newLocationsCommand(a *app) *cobra.Command {
	var (
		city   string
		cities bool
	)

	cmd := &cobra.Command{
		Use:   "locations",
		Short: "List WeWork locations in a city",
		Example: `  wework locations --city Tokyo
  wework locations --cities`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cities && strings.TrimSpace(city) == "" {
				return fmt.Errorf("--city is required")
			}

			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			if cities {
				return a.listCities(cmd.Context(), client)
			}

			var res *api.LocationsByGeoResponse
			err = a.spin(cmd.Context(), fmt.Sprintf("Getting locations in %s", city), func(ctx context.Context) error {
				var errGet error
				res, errGet = client.GetLocationsByGeo(ctx, city)
				return errGet
			})
			if err != nil {
				return fmt.Errorf("failed to get locations: %w", err)
			}
			if len(res.LocationsByGeo) == 0 {
				a.println(tui.Warning(fmt.Sprintf("No locations found in %s.", city)))
				return nil
			}

			rows := make([][]string, 0, len(res.LocationsByGeo))
			for _, loc := range res.LocationsByGeo {
				rows = append(rows, []string{
					util.TruncateString(loc.Name, 30),
					loc.UUID,
					util.TruncateString(loc.Address.Line1, 40),
					fmt.Sprintf("%.6f", loc.Latitude),
					fmt.Sprintf("%.6f", loc.Longitude),
				})
			}
			a.println(tui.Table([]string{"Location", "UUID", "Address", "Latitude", "Longitude"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "City name")
	cmd.Flags().BoolVar(&cities, "cities", false, "List the cities that have WeWork locations")
	return cmd
}

func (a *app) listCities(ctx context.Context, client *api.Client) error {
	var cities []api.CityDetails
	err := a.spin(ctx, "Getting cities", func(ctx context.Context) error {
		var errGet error
		cities, errGet = client.GetCityDetails(ctx)
		return errGet
	})
	if err != nil {
		return fmt.Errorf("failed to get cities: %w", err)
	}

	rows := make([][]string, 0, len(cities))
	for _, c := range cities {
		rows = append(rows, []string{c.City, c.Country, c.TimeZone})
	}
	a.println(tui.Table([]string{"City", "Country", "Time zone"}, rows))
	return nil
}
