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

func contactScreen() *screen[models.Contact] {
	created := func(c models.Contact) *time.Time { return c.CreatedAt }

	return &screen[models.Contact]{
		entity: "contact",
		plural: "contact enquiries",
		fetch: func(ctx context.Context, api *gateway.API, _, _ int) (listview.Page[models.Contact], error) {
			return page(api.ListContacts(ctx))
		},
		options: listview.Options[models.Contact]{
			ID: func(c models.Contact) string { return c.ID },
			SearchFields: func(c models.Contact) []string {
				return []string{c.Name, c.Email, c.Phone, c.Subject, c.Message}
			},
		},
		sorts: map[string]func(a, b models.Contact) bool{
			"newest": newestFirst(created),
			"oldest": oldestFirst(created),
		},
		defaultSort: "newest",
		columns: []column[models.Contact]{
			{"ID", func(c models.Contact) string { return c.ID }},
			{"NAME", func(c models.Contact) string { return c.Name }},
			{"EMAIL", func(c models.Contact) string { return output.OrDash(c.Email) }},
			{"SUBJECT", func(c models.Contact) string { return output.Truncate(output.OrDash(c.Subject), 30) }},
			{"RECEIVED", func(c models.Contact) string { return output.FormatTime(c.CreatedAt) }},
		},
		label: func(c models.Contact) string { return c.Name },
		details: func(c models.Contact) [][2]string {
			return [][2]string{
				{"ID", c.ID},
				{"Name", c.Name},
				{"Email", output.OrDash(c.Email)},
				{"Phone", output.OrDash(c.Phone)},
				{"Subject", output.OrDash(c.Subject)},
				{"Message", c.Message},
				{"Received", output.FormatTime(c.CreatedAt)},
			}
		},
		remove: func(ctx context.Context, api *gateway.API, id string) (string, error) {
			return mutation.From(api.DeleteContact(ctx, id))
		},
	}
}

func newContactCmd(a *app) *cobra.Command {
	cmd := contactScreen().command(a, "contact", "Read and clear contact enquiries")
	cmd.Aliases = []string{"contacts"}
	return cmd
}
