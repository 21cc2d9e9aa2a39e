package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	locationsByGeoPath   = "/workplaceone/api/wework-yardi/ondemand/get-locations-by-geo"
	cityDetailsPath      = "/workplaceone/api/wework-yardi/location/get-city-details"
	locationFeaturesPath = "/workplaceone/api/wework-yardi/location/get-location-features"
	spacesPath           = "/workplaceone/api/spaces/get-spaces"
)

// GetLocationsByGeo lists the buildings in city.
func (c *Client) GetLocationsByGeo(ctx context.Context, city string) (*LocationsByGeoResponse, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("city is required")
	}
	params := url.Values{}
	params.Set("isAuthenticated", "true")
	params.Set("city", city)
	params.Set("isOnDemandUser", "false")
	params.Set("isWeb", "true")

	var result LocationsByGeoResponse
	if err := c.get(ctx, locationsByGeoPath, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FindLocation returns the building in city whose name matches name exactly,
// ignoring case. The second return value lists every name found, for error messages.
func (c *Client) FindLocation(ctx context.Context, city, name string) (*GeoLocation, []string, error) {
	res, err := c.GetLocationsByGeo(ctx, city)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, 0, len(res.LocationsByGeo))
	var match *GeoLocation
	for i := range res.LocationsByGeo {
		loc := &res.LocationsByGeo[i]
		names = append(names, loc.Name)
		if match == nil && strings.EqualFold(strings.TrimSpace(loc.Name), strings.TrimSpace(name)) {
			match = loc
		}
	}
	return match, names, nil
}

// GetCityDetails lists the cities the members API knows about.
func (c *Client) GetCityDetails(ctx context.Context) ([]CityDetails, error) {
	var result []CityDetails
	if err := c.get(ctx, cityDetailsPath, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetLocationFeatures returns the detailed description of one building.
func (c *Client) GetLocationFeatures(ctx context.Context, locationUUID string, amenitiesOnly bool) (*LocationFeaturesResponse, error) {
	if err := validateLocationUUIDs([]string{locationUUID}); err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("locationUUID", strings.TrimSpace(locationUUID))
	params.Set("multiple", "false")
	params.Set("amenitiesOnly", strconv.FormatBool(amenitiesOnly))

	var result LocationFeaturesResponse
	if err := c.get(ctx, locationFeaturesPath, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAvailableSpaces lists the desks available on date at the given buildings.
func (c *Client) GetAvailableSpaces(ctx context.Context, date time.Time, locationUUIDs []string) (*SharedWorkspaceResponse, error) {
	if err := validateLocationUUIDs(locationUUIDs); err != nil {
		return nil, err
	}
	params := spacesQuery(locationUUIDs)
	params.Set("userLatitude", "0")
	params.Set("userLongitude", "0")
	params.Set("limit", "50")
	params.Set("date", date.Format("2006-01-02"))
	params.Set("duration", "30")
	params.Set("locationOffset", date.Format("-07:00"))
	params.Set("isWeb", "true")

	var result SharedWorkspaceResponse
	if err := c.get(ctx, spacesPath, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSpacesByUUIDs returns the workspace records of buildings regardless of
// availability.
func (c *Client) GetSpacesByUUIDs(ctx context.Context, locationUUIDs []string) (*SharedWorkspaceResponse, error) {
	if err := validateLocationUUIDs(locationUUIDs); err != nil {
		return nil, err
	}
	params := spacesQuery(locationUUIDs)
	params.Set("userLatitude", "0")
	params.Set("userLongitude", "0")
	params.Set("limit", "500")
	params.Set("date", c.now().Format("01/02/2006"))
	params.Set("duration", "0")
	params.Set("locationOffset", "+00:00")
	params.Set("isWeb", "false")
	params.Set("locationType", "0")
	params.Set("isFromWp", "false")

	var result SharedWorkspaceResponse
	if err := c.get(ctx, spacesPath, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func spacesQuery(locationUUIDs []string) url.Values {
	trimmed := make([]string, 0, len(locationUUIDs))
	for _, id := range locationUUIDs {
		trimmed = append(trimmed, strings.TrimSpace(id))
	}
	params := url.Values{}
	params.Set("locationUUIDs", strings.Join(trimmed, ","))
	params.Set("closestCity", "")
	params.Set("boundnwLat", "")
	params.Set("boundnwLng", "")
	params.Set("boundseLat", "")
	params.Set("boundseLng", "")
	params.Set("type", "0")
	params.Set("offset", "0")
	params.Set("roomTypeFilter", "")
	params.Set("capacity", "0")
	params.Set("endDate", "")
	return params
}

func validateLocationUUIDs(ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("at least one location uuid is required")
	}
	for _, id := range ids {
		if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
			return fmt.Errorf("invalid location uuid %q: %w", id, err)
		}
	}
	return nil
}
