package cmd

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sorenmh/homeservices-admin/internal/adminctl/output"
	"github.com/sorenmh/homeservices-admin/internal/gateway"
	"github.com/sorenmh/homeservices-admin/internal/listview"
	"github.com/sorenmh/homeservices-admin/internal/models"
)

type review = models.CompanyReview

func reviewScreen() *screen[review] {
	return &screen[review]{
		entity: "review",
		plural: "reviews",
		fetch: func(ctx context.Context, api *gateway.API, _, _ int) (listview.Page[review], error) {
			return page(api.ListReviews(ctx))
		},
		options: listview.Options[review]{
			ID:           func(r review) string { return r.ID },
			SearchFields: func(r review) []string { return []string{r.Name, r.Review} },
		},
		sorts: map[string]func(a, b review) bool{
			"newest": newestFirst(func(r review) *time.Time { return r.CreatedAt }),
			"rating": func(a, b review) bool { return a.Rating > b.Rating },
		},
		defaultSort: "newest",
		columns: []column[review]{
			{"ID", func(r review) string { return r.ID }},
			{"NAME", func(r review) string { return r.Name }},
			{"RATING", func(r review) string { return strconv.FormatFloat(r.Rating, 'f', -1, 64) + "/5" }},
			{"REVIEW", func(r review) string { return output.Truncate(r.Review, 50) }},
			{"POSTED", func(r review) string {
				if r.CreatedAt == nil {
					return "-"
				}
				return output.FormatTimeAgo(*r.CreatedAt)
			}},
		},
		label: func(r review) string { return r.Name },
	}
}

func newReviewCmd(a *app) *cobra.Command {
	cmd := reviewScreen().command(a, "review", "Browse company reviews")
	cmd.Aliases = []string{"reviews"}
	return cmd
}
