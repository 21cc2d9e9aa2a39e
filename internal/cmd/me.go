package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dvcrn/wework-cli/internal/api"
	"github.com/dvcrn/wework-cli/internal/tui"
	"github.com/spf13/cobra"
)

func newMeCommand(a *app) *cobra.Command {
	var includeBootstrap bool

	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show your profile information",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			var (
				profile   *api.UserProfileResponse
				bootstrap *api.AppBootstrapResponse
			)
			err = a.spin(cmd.Context(), "Getting profile", func(ctx context.Context) error {
				var errGet error
				if profile, errGet = client.GetUserProfile(ctx); errGet != nil {
					return fmt.Errorf("failed to get user profile: %w", errGet)
				}
				if includeBootstrap {
					if bootstrap, errGet = client.GetBootstrap(ctx); errGet != nil {
						return fmt.Errorf("failed to get bootstrap: %w", errGet)
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			a.printProfile(profile)
			if bootstrap != nil {
				a.printBootstrap(bootstrap)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeBootstrap, "include-bootstrap", false, "Include app bootstrap data")
	return cmd
}

func (a *app) printProfile(p *api.UserProfileResponse) {
	a.println(tui.Title("User Profile"))
	a.println(tui.Details([]tui.Field{
		{Label: "UUID", Value: p.UUID},
		{Label: "Name", Value: p.Name},
		{Label: "Email", Value: p.Email},
		{Label: "Phone", Value: p.Phone},
		{Label: "Language", Value: p.LanguagePreference},
		{Label: "WeWork employee", Value: strconv.FormatBool(p.IsWework)},
		{Label: "Admin", Value: strconv.FormatBool(p.IsAdmin)},
		{Label: "Active", Value: strconv.FormatBool(p.Active)},
	}))

	if home := p.HomeLocation; home != nil {
		a.println()
		a.println(tui.Title("Home Location"))
		address := strings.Join(nonEmpty(home.Address.Line1, home.Address.City, home.Address.State, home.Address.Zip), ", ")
		a.println(tui.Details([]tui.Field{
			{Label: "Name", Value: home.Name},
			{Label: "UUID", Value: home.UUID},
			{Label: "Address", Value: address},
			{Label: "Time zone", Value: home.TimeZone},
		}))
	}

	if len(p.Companies) > 0 {
		a.println()
		rows := make([][]string, 0, len(p.Companies))
		for _, c := range p.Companies {
			membership := ""
			if c.PreferredMembershipNullable != nil {
				membership = c.PreferredMembershipNullable.MembershipType
			}
			rows = append(rows, []string{c.Name, c.UUID, membership})
		}
		a.println(tui.Table([]string{"Company", "UUID", "Membership"}, rows))
	}
}

func (a *app) printBootstrap(b *api.AppBootstrapResponse) {
	user := b.WeworkUserProfileData.ProfileData.WeWorkUserData

	a.println()
	a.println(tui.Title("Bootstrap"))
	a.println(tui.Details([]tui.Field{
		{Label: "User UUID", Value: user.WeWorkUserUUID},
		{Label: "Email", Value: user.WeWorkUserEmail},
		{Label: "Name", Value: user.WeWorkUserName},
		{Label: "Membership", Value: strings.Join(nonEmpty(user.WeWorkMembershipName, user.WeWorkMembershipType), " / ")},
		{Label: "Company UUID", Value: user.WeWorkCompanyUUID},
		{Label: "Home location", Value: strings.Join(nonEmpty(user.WeWorkUserHomeLocationName, user.WeWorkUserHomeLocationCity), ", ")},
		{Label: "Currency", Value: user.WeWorkUserPreferredCurrency},
		{Label: "Kube account", Value: strconv.FormatBool(user.IsKubeMigratedAccount)},
		{Label: "Admin role", Value: b.MenuSecurityData.AdminRole},
		{Label: "Password change", Value: strconv.FormatBool(b.MenuSecurityData.IsPasswordChangeEnforcing)},
		{Label: "Workplace", Value: strconv.FormatBool(b.WorkplaceExperienceStatus)},
		{Label: "Vast", Value: strconv.FormatBool(b.VastExperienceStatus)},
	}))

	memberships := b.WeworkUserProfileData.ProfileData.WeWorkMembershipsList
	if len(memberships) > 0 {
		rows := make([][]string, 0, len(memberships))
		for _, m := range memberships {
			rows = append(rows, []string{m.ProductName, m.MembershipType, m.StartedOn, m.UUID})
		}
		a.println(tui.Table([]string{"Product", "Type", "Started", "UUID"}, rows))
	}
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
