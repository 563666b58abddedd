package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sorenmh/homeservices-admin/internal/adminctl/output"
	"github.com/sorenmh/homeservices-admin/internal/gateway"
	"github.com/sorenmh/homeservices-admin/internal/listview"
	"github.com/sorenmh/homeservices-admin/internal/models"
)

func franchiseScreen() *screen[models.Franchise] {
	return &screen[models.Franchise]{
		entity: "franchise",
		plural: "franchises",
		fetch: func(ctx context.Context, api *gateway.API, offset, limit int) (listview.Page[models.Franchise], error) {
			return page(api.ListFranchises(ctx, offset, limit))
		},
		options: listview.Options[models.Franchise]{
			ID: func(f models.Franchise) string { return f.ID },
			SearchFields: func(f models.Franchise) []string {
				return []string{f.FranchiseName, f.OwnerName, f.City, f.Phone}
			},
			ServerPaged: true,
		},
		columns: []column[models.Franchise]{
			{"ID", func(f models.Franchise) string { return f.ID }},
			{"FRANCHISE", func(f models.Franchise) string { return f.FranchiseName }},
			{"OWNER", func(f models.Franchise) string { return f.OwnerName }},
			{"CITY", func(f models.Franchise) string { return output.OrDash(f.City) }},
			{"PHONE", func(f models.Franchise) string { return output.OrDash(f.Phone) }},
			{"STATUS", func(f models.Franchise) string { return output.OrDash(f.Status) }},
		},
		label: func(f models.Franchise) string { return f.FranchiseName },
	}
}

func newFranchiseCmd(a *app) *cobra.Command {
	cmd := franchiseScreen().command(a, "franchise", "Browse franchise partners")
	cmd.Aliases = []string{"franchises"}
	return cmd
}
