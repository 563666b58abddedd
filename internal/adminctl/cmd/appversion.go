package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/sorenmh/homeservices-admin/internal/adminctl/output"
	"github.com/sorenmh/homeservices-admin/internal/gateway"
	"github.com/sorenmh/homeservices-admin/internal/listview"
	"github.com/sorenmh/homeservices-admin/internal/models"
	"github.com/sorenmh/homeservices-admin/internal/mutation"
)

type appVersion = models.AppVersion

func appVersionScreen() *screen[appVersion] {
	created := func(v appVersion) *time.Time { return v.CreatedAt }

	return &screen[appVersion]{
		entity: "app version",
		plural: "app versions",
		fetch: func(ctx context.Context, api *gateway.API, _, _ int) (listview.Page[appVersion], error) {
			return page(api.ListAppVersions(ctx))
		},
		options: listview.Options[appVersion]{
			ID:           func(v appVersion) string { return v.ID },
			SearchFields: func(v appVersion) []string { return []string{v.Name, v.Version, v.Description} },
		},
		sorts: map[string]func(a, b appVersion) bool{
			"newest": newestFirst(created),
			"oldest": oldestFirst(created),
			"name":   byText(func(v appVersion) string { return v.Name }),
		},
		defaultSort: "newest",
		columns: []column[appVersion]{
			{"ID", func(v appVersion) string { return v.ID }},
			{"NAME", func(v appVersion) string { return v.Name }},
			{"VERSION", func(v appVersion) string { return v.Version }},
			{"PRODUCTION URL", func(v appVersion) string { return output.Truncate(v.ProductionURL, 40) }},
			{"RELEASED", func(v appVersion) string { return output.FormatTime(v.CreatedAt) }},
		},
		label: func(v appVersion) string { return v.Name + " " + v.Version },
		details: func(v appVersion) [][2]string {
			return [][2]string{
				{"ID", v.ID},
				{"Name", v.Name},
				{"Version", v.Version},
				{"Production URL", v.ProductionURL},
				{"Staging URL", output.OrDash(v.StagingURL)},
				{"Play Store", output.OrDash(v.PlayStoreLink)},
				{"Description", output.OrDash(v.Description)},
				{"Released", output.FormatTime(v.CreatedAt)},
				{"Updated", output.FormatTime(v.UpdatedAt)},
			}
		},
		fields: []string{"name", "version", "productionUrl", "stagingUrl", "playStoreLink", "description"},
		create: func(ctx context.Context, api *gateway.API, v appVersion) (string, error) {
			return mutation.From(api.CreateAppVersion(ctx, v))
		},
		update: func(ctx context.Context, api *gateway.API, id string, v appVersion) (string, error) {
			return mutation.From(api.UpdateAppVersion(ctx, id, v))
		},
		remove: func(ctx context.Context, api *gateway.API, id string) (string, error) {
			return mutation.From(api.DeleteAppVersion(ctx, id))
		},
	}
}

func newAppVersionCmd(a *app) *cobra.Command {
	cmd := appVersionScreen().command(a, "appversion", "Publish mobile app versions")
	cmd.Aliases = []string{"appversions", "version"}
	return cmd
}
