package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dvcrn/wework-cli/internal/api"
	"github.com/dvcrn/wework-cli/internal/util"
	log "github.com/sirupsen/logrus"
)

// resolveLocation returns locationUUID when set, otherwise looks up the
// building called name in city.
func (a *app) resolveLocation(ctx context.Context, client *api.Client, locationUUID, city, name string) (string, error) {
	if id := strings.TrimSpace(locationUUID); id != "" {
		return id, nil
	}
	if strings.TrimSpace(city) == "" || strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("--location-uuid OR (--city + --name) is required")
	}

	var (
		match *api.GeoLocation
		names []string
	)
	err := a.spin(ctx, fmt.Sprintf("Searching for locations in %s", city), func(ctx context.Context) error {
		var errFind error
		match, names, errFind = client.FindLocation(ctx, city, name)
		return errFind
	})
	if err != nil {
		return "", fmt.Errorf("failed to get locations: %w", err)
	}
	if match == nil {
		return "", fmt.Errorf("could not find any space with the name '%s'. Available locations for city %s are: %s",
			name, city, strings.Join(names, ", "))
	}
	log.WithFields(log.Fields{"location": match.Name, "uuid": match.UUID}).Debug("location resolved")
	return match.UUID, nil
}

// parseDates expands the --date argument in the local zone, defaulting to today.
func (a *app) parseDates(value string) ([]time.Time, error) {
	if strings.TrimSpace(value) == "" {
		value = a.now().Format(util.DateLayout)
	}
	return util.ParseDates(value, time.Local)
}

// singleWorkspace returns the only workspace of spaces. Several matches are
// listed in the error so the user can narrow the search.
func singleWorkspace(date time.Time, spaces *api.SharedWorkspaceResponse) (*api.Workspace, error) {
	if spaces == nil || len(spaces.Response.Workspaces) == 0 {
		return nil, fmt.Errorf("no spaces found for %s", date.Format(util.DateLayout))
	}
	workspaces := spaces.Response.Workspaces
	if len(workspaces) == 1 {
		return &workspaces[0], nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "found %d spaces for %s, use one of the location UUIDs below:", len(workspaces), date.Format(util.DateLayout))
	for _, ws := range workspaces {
		fmt.Fprintf(&sb, "\n  %s  %s (space %s, %d available)", ws.Location.UUID, ws.Location.Name, ws.UUID, ws.Seat.Available)
	}
	return nil, errors.New(sb.String())
}

func formatAmount(q *api.QuoteAmount) string {
	if q == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%g %s", q.Amount, q.Currency))
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
