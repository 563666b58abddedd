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

func categoryScreen() *screen[models.Category] {
	created := func(c models.Category) *time.Time { return c.CreatedAt }

	return &screen[models.Category]{
		entity: "category",
		plural: "categories",
		fetch: func(ctx context.Context, api *gateway.API, _, _ int) (listview.Page[models.Category], error) {
			return page(api.ListCategories(ctx))
		},
		options: listview.Options[models.Category]{
			ID:           func(c models.Category) string { return c.ID },
			SearchFields: func(c models.Category) []string { return []string{c.Name, c.Description} },
			Status:       statusOf(func(c models.Category) string { return c.Status }),
		},
		statuses: []string{models.StatusActive, models.StatusInactive},
		sorts: map[string]func(a, b models.Category) bool{
			"name":   byText(func(c models.Category) string { return c.Name }),
			"newest": newestFirst(created),
			"oldest": oldestFirst(created),
		},
		defaultSort: "name",
		columns: []column[models.Category]{
			{"ID", func(c models.Category) string { return c.ID }},
			{"NAME", func(c models.Category) string { return c.Name }},
			{"STATUS", func(c models.Category) string { return output.OrDash(c.Status) }},
			{"DESCRIPTION", func(c models.Category) string { return output.Truncate(output.OrDash(c.Description), 40) }},
			{"CREATED", func(c models.Category) string { return output.FormatTime(c.CreatedAt) }},
		},
		label: func(c models.Category) string { return c.Name },
		details: func(c models.Category) [][2]string {
			return [][2]string{
				{"ID", c.ID},
				{"Name", c.Name},
				{"Description", output.OrDash(c.Description)},
				{"Image", output.OrDash(c.Image)},
				{"Status", output.OrDash(c.Status)},
				{"Created", output.FormatTime(c.CreatedAt)},
				{"Updated", output.FormatTime(c.UpdatedAt)},
			}
		},
		fields: []string{"name", "description", "image", "status"},
		create: func(ctx context.Context, api *gateway.API, c models.Category) (string, error) {
			return mutation.From(api.CreateCategory(ctx, c))
		},
		update: func(ctx context.Context, api *gateway.API, id string, c models.Category) (string, error) {
			return mutation.From(api.UpdateCategory(ctx, id, c))
		},
		remove: func(ctx context.Context, api *gateway.API, id string) (string, error) {
			return mutation.From(api.DeleteCategory(ctx, id))
		},
	}
}

func newCategoryCmd(a *app) *cobra.Command {
	cmd := categoryScreen().command(a, "category", "Manage service categories")
	cmd.Aliases = []string{"categories", "cat"}
	return cmd
}
