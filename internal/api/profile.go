package api

import "context"

const (
	userProfilePath = "/workplaceone/api/wework-yardi/user/get-user-profile"
	bootstrapPath   = "/workplaceone/api/app-bootstrap/bootstrap"
)

var memberWebFlags = []string{
	"WG_WEWORK_W_HOMEPAGE_PRINTING",
	"WG_WEWORK_W_MEMWEB_ANNOUNCEMENTS_FROM_CONTENTFUL",
	"WG_WEWORK_W_MEMWEB_BUILDING_GUIDE_UPCOMING_BOOKINGS",
	"WG_WEWORK_W_MEMWEB_ENTERPRISE",
	"WG_WEWORK_W_MEMWEB_EVENTS",
	"WG_WEWORK_W_MEMWEB_SUPPORT_HELP_FAQ",
	"WG_WEWORK_W_MEMWEB_TOP_BANNER_ALL_ACCESS",
	"WG_WEWORK_W_MEMWEB_WEWORK_BRANDING",
	"WG_WEWORK_W_ROOMS_MEDALLIA_SURVEY",
	"WG_WEWORK_W_MEMWEB_WEB_THIRD_PARTY_SPACES",
	"WG_WEWORK_W_MEMWEB_GUEST_POLICY_ENFORCEMENT",
	"WG_WEWORK_W_MEMWEB_PRINT_DRIVER_UPDATE_ROLLOUT",
	"WG_WEWORK_W_MEMWEB_BUILDING_GUIDE_ORGANON_MODULES",
}

var menaFlags = []string{
	"mena_module_building_guide_categories",
	"mena_module_account_manager",
	"mena_module_daily_desks",
	"mena_module_print_hub",
	"mena_module_events",
}

type bootstrapRequest struct {
	InvalidateCache bool `json:"InvalidateCache"`
	Platform        int  `json:"platform"`
	FeatureFlags    struct {
		WeGateMemberWebFlags []string `json:"WeGateMemberWebFlags"`
		WeGateIOSFlags       []string `json:"WeGateiOSFlags"`
		WeGateAndroidFlags   []string `json:"WeGateAndroidFlags"`
	} `json:"FeatureFlags"`
	PermissionRequest struct {
		MENAFlags []string `json:"MENAflags"`
	} `json:"PermissionRequest"`
	AppVersion         *string `json:"AppVersion"`
	CurrentAccountUUID string  `json:"CurrentAccountUUID"`
}

// GetUserProfile returns the logged-in member's profile.
func (c *Client) GetUserProfile(ctx context.Context) (*UserProfileResponse, error) {
	var result UserProfileResponse
	if err := c.get(ctx, userProfilePath, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBootstrap returns the app bootstrap document with membership details.
func (c *Client) GetBootstrap(ctx context.Context) (*AppBootstrapResponse, error) {
	req := bootstrapRequest{Platform: 1}
	req.FeatureFlags.WeGateMemberWebFlags = memberWebFlags
	req.FeatureFlags.WeGateIOSFlags = []string{}
	req.FeatureFlags.WeGateAndroidFlags = []string{}
	req.PermissionRequest.MENAFlags = menaFlags

	var result AppBootstrapResponse
	if err := c.post(ctx, bootstrapPath, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
