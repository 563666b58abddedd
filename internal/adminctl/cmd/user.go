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

func userScreen(a *app) *screen[models.User] {
	return &screen[models.User]{
		entity: "user",
		plural: "users",
		fetch: func(ctx context.Context, api *gateway.API, offset, limit int) (listview.Page[models.User], error) {
			return page(api.ListUsers(ctx, offset, limit))
		},
		options: listview.Options[models.User]{
			ID:           func(u models.User) string { return u.ID },
			SearchFields: func(u models.User) []string { return []string{u.Name, u.Email, u.Phone} },
			ServerPaged:  true,
		},
		sorts: map[string]func(a, b models.User) bool{
			"name":   byText(func(u models.User) string { return u.Name }),
			"newest": newestFirst(func(u models.User) *time.Time { return u.CreatedAt }),
		},
		columns: []column[models.User]{
			{"ID", func(u models.User) string { return u.ID }},
			{"NAME", func(u models.User) string { return u.Name }},
			{"PHONE", func(u models.User) string { return u.Phone }},
			{"EMAIL", func(u models.User) string { return output.OrDash(u.Email) }},
			{"JOINED", func(u models.User) string { return output.FormatTime(u.CreatedAt) }},
		},
		label:      func(u models.User) string { return u.Name },
		fields:     []string{"name", "email", "phone", "password"},
		extraFlags: addPasswordPromptFlag,
		prepare:    askPassword[models.User](a),
		create: func(ctx context.Context, api *gateway.API, u models.User) (string, error) {
			return mutation.From(api.CreateUser(ctx, u))
		},
		remove: func(ctx context.Context, api *gateway.API, id string) (string, error) {
			return mutation.From(api.DeleteUser(ctx, id))
		},
	}
}

func newUserCmd(a *app) *cobra.Command {
	cmd := userScreen(a).command(a, "user", "Manage customer accounts")
	cmd.Aliases = []string{"users"}
	return cmd
}
