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

func areaScreen() *screen[models.Pincode] {
	created := func(p models.Pincode) *time.Time { return p.CreatedAt }

	return &screen[models.Pincode]{
		entity: "area",
		plural: "service areas",
		fetch: func(ctx context.Context, api *gateway.API, _, _ int) (listview.Page[models.Pincode], error) {
			return page(api.ListPincodes(ctx))
		},
		options: listview.Options[models.Pincode]{
			ID:           func(p models.Pincode) string { return p.ID },
			SearchFields: func(p models.Pincode) []string { return []string{p.Pincode, p.AreaName, p.City, p.State} },
			Status:       statusOf(func(p models.Pincode) string { return p.Status }),
		},
		statuses: []string{models.StatusActive, models.StatusInactive},
		sorts: map[string]func(a, b models.Pincode) bool{
			"pincode": byNumber(func(p models.Pincode) string { return p.Pincode }),
			"name":    byText(func(p models.Pincode) string { return p.AreaName }),
			"newest":  newestFirst(created),
		},
		defaultSort: "pincode",
		columns: []column[models.Pincode]{
			{"ID", func(p models.Pincode) string { return p.ID }},
			{"PINCODE", func(p models.Pincode) string { return p.Pincode }},
			{"AREA", func(p models.Pincode) string { return p.AreaName }},
			{"CITY", func(p models.Pincode) string { return output.OrDash(p.City) }},
			{"STATE", func(p models.Pincode) string { return output.OrDash(p.State) }},
			{"STATUS", func(p models.Pincode) string { return output.OrDash(p.Status) }},
		},
		label: func(p models.Pincode) string { return p.Pincode + " " + p.AreaName },
		details: func(p models.Pincode) [][2]string {
			return [][2]string{
				{"ID", p.ID},
				{"Pincode", p.Pincode},
				{"Area", p.AreaName},
				{"City", output.OrDash(p.City)},
				{"State", output.OrDash(p.State)},
				{"Status", output.OrDash(p.Status)},
				{"Created", output.FormatTime(p.CreatedAt)},
				{"Updated", output.FormatTime(p.UpdatedAt)},
			}
		},
		fields: []string{"pincode", "areaName", "city", "state", "status"},
		create: func(ctx context.Context, api *gateway.API, p models.Pincode) (string, error) {
			return mutation.From(api.CreatePincode(ctx, p))
		},
		update: func(ctx context.Context, api *gateway.API, id string, p models.Pincode) (string, error) {
			return mutation.From(api.UpdatePincode(ctx, id, p))
		},
		remove: func(ctx context.Context, api *gateway.API, id string) (string, error) {
			return mutation.From(api.DeletePincode(ctx, id))
		},
	}
}

func newAreaCmd(a *app) *cobra.Command {
	cmd := areaScreen().command(a, "area", "Manage serviceable areas (pincodes)")
	cmd.Aliases = []string{"areas", "pincode"}
	return cmd
}
