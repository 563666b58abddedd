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

type technician = models.Technician

func technicianScreen(a *app) *screen[technician] {
	return &screen[technician]{
		entity: "technician",
		plural: "technicians",
		fetch: func(ctx context.Context, api *gateway.API, offset, limit int) (listview.Page[technician], error) {
			return page(api.ListTechnicians(ctx, offset, limit))
		},
		options: listview.Options[technician]{
			ID:           func(t technician) string { return t.ID },
			SearchFields: func(t technician) []string { return []string{t.Name, t.Email, t.Phone, t.Category} },
			ServerPaged:  true,
		},
		sorts: map[string]func(a, b technician) bool{
			"name":   byText(func(t technician) string { return t.Name }),
			"newest": newestFirst(func(t technician) *time.Time { return t.CreatedAt }),
		},
		columns: []column[technician]{
			{"ID", func(t technician) string { return t.ID }},
			{"NAME", func(t technician) string { return t.Name }},
			{"PHONE", func(t technician) string { return t.Phone }},
			{"CATEGORY", func(t technician) string { return output.OrDash(t.Category) }},
			{"FRANCHISE", func(t technician) string { return output.OrDash(t.FranchiseID) }},
			{"STATUS", func(t technician) string { return output.OrDash(t.Status) }},
		},
		label:      func(t technician) string { return t.Name },
		fields:     []string{"name", "email", "phone", "password", "category", "franchiseId"},
		extraFlags: addPasswordPromptFlag,
		prepare:    askPassword[technician](a),
		create: func(ctx context.Context, api *gateway.API, t technician) (string, error) {
			return mutation.From(api.CreateTechnician(ctx, t))
		},
		remove: func(ctx context.Context, api *gateway.API, id string) (string, error) {
			return mutation.From(api.DeleteTechnician(ctx, id))
		},
	}
}

func newTechnicianCmd(a *app) *cobra.Command {
	cmd := technicianScreen(a).command(a, "technician", "Manage technician accounts")
	cmd.Aliases = []string{"technicians", "tech"}
	return cmd
}
