package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dvcrn/wework-cli/internal/api"
	"github.com/dvcrn/wework-cli/internal/tui"
	"github.com/spf13/cobra"
)

func newInfoCommand(a *app) *cobra.Command {
	var (
		locationUUID  string
		city          string
		name          string
		amenitiesOnly bool
		outputJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show details of a WeWork location",
		Long:  `Show opening hours, amenities and entrance instructions of a WeWork location.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if locationUUID == "" && (city == "" || name == "") {
				return fmt.Errorf("either --location-uuid or both --city and --name must be provided")
			}

			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			target, err := a.resolveLocation(cmd.Context(), client, locationUUID, city, name)
			if err != nil {
				return err
			}

			var res *api.LocationFeaturesResponse
			err = a.spin(cmd.Context(), "Getting location details", func(ctx context.Context) error {
				var errGet error
				res, errGet = client.GetLocationFeatures(ctx, target, amenitiesOnly)
				return errGet
			})
			if err != nil {
				return fmt.Errorf("failed to get location information: %w", err)
			}

			if outputJSON {
				data, errMarshal := json.MarshalIndent(res, "", "  ")
				if errMarshal != nil {
					return fmt.Errorf("failed to marshal JSON: %w", errMarshal)
				}
				a.println(string(data))
				return nil
			}
			if len(res.Locations) == 0 {
				return fmt.Errorf("no location found with UUID: %s", target)
			}
			a.printLocation(&res.Locations[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&locationUUID, "location-uuid", "", "UUID of the WeWork location")
	cmd.Flags().StringVar(&city, "city", "", "City name (used with --name to find the location)")
	cmd.Flags().StringVar(&name, "name", "", "Location name (used with --city to find the location)")
	cmd.Flags().BoolVar(&amenitiesOnly, "amenities-only", false, "Only fetch amenities information")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print the raw response as JSON")
	return cmd
}

func (a *app) printLocation(loc *api.LocationFeatures) {
	a.println(tui.Title(loc.Name))
	a.println(tui.Details([]tui.Field{
		{Label: "UUID", Value: loc.UUID},
		{Label: "Address", Value: strings.Join(nonEmpty(loc.Address.Line1, loc.Address.City, loc.Address.Country), ", ")},
		{Label: "Support email", Value: loc.SupportEmail},
		{Label: "Phone", Value: loc.Phone},
		{Label: "Time zone", Value: loc.TimeZone},
	}))

	if hours := loc.Details.OperatingHours; len(hours) > 0 {
		rows := make([][]string, 0, len(hours))
		for _, h := range hours {
			if h.TimeOpen == "" {
				rows = append(rows, []string{h.DayOfWeek, "Closed"})
				continue
			}
			rows = append(rows, []string{h.DayOfWeek, h.TimeOpen + " - " + h.TimeClose})
		}
		a.println()
		a.println(tui.Table([]string{"Day", "Hours"}, rows))
	}

	if len(loc.Amenities) > 0 {
		a.println()
		a.println(tui.Title("Amenities"))
		for _, amenity := range loc.Amenities {
			a.printf("  - %s\n", amenity.Name)
		}
	}

	for _, section := range []struct{ title, text string }{
		{"Entrance Instructions", loc.MemberEntranceInstructions},
		{"Tour Instructions", loc.TourInstructions},
		{"Parking", loc.ParkingInstructions},
	} {
		if strings.TrimSpace(section.text) == "" {
			continue
		}
		a.println()
		a.println(tui.Title(section.title))
		a.println(section.text)
	}
}
