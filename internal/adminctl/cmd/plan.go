package cmd

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sorenmh/homeservices-admin/internal/adminctl/output"
	"github.com/sorenmh/homeservices-admin/internal/editsession"
	"github.com/sorenmh/homeservices-admin/internal/gateway"
	"github.com/sorenmh/homeservices-admin/internal/listview"
	"github.com/sorenmh/homeservices-admin/internal/models"
	"github.com/sorenmh/homeservices-admin/internal/mutation"
	"github.com/sorenmh/homeservices-admin/internal/pricing"
)

type plan = models.SubscriptionPlan

func planScreen() *screen[plan] {
	created := func(p plan) *time.Time { return p.CreatedAt }

	return &screen[plan]{
		entity: "plan",
		plural: "subscription plans",
		fetch: func(ctx context.Context, api *gateway.API, _, _ int) (listview.Page[plan], error) {
			return page(api.ListPlans(ctx))
		},
		options: listview.Options[plan]{
			ID:           func(p plan) string { return p.ID },
			SearchFields: func(p plan) []string { return []string{p.Name, p.Description, p.Duration} },
			Status:       statusOf(func(p plan) string { return p.Status }),
		},
		statuses: []string{models.StatusActive, models.StatusInactive},
		sorts: map[string]func(a, b plan) bool{
			"name":   byText(func(p plan) string { return p.Name }),
			"price":  func(a, b plan) bool { return a.FinalPrice < b.FinalPrice },
			"newest": newestFirst(created),
		},
		defaultSort: "newest",
		columns: []column[plan]{
			{"ID", func(p plan) string { return p.ID }},
			{"NAME", func(p plan) string { return p.Name }},
			{"DURATION", func(p plan) string { return output.OrDash(p.Duration) }},
			{"PRICE", func(p plan) string { return output.Money(p.Price) }},
			{"DISCOUNT", func(p plan) string { return output.Percent(p.DiscountPercentage) }},
			{"FINAL", func(p plan) string { return output.Money(p.FinalPrice) }},
			{"POPULAR", func(p plan) string { return yesNo(p.IsPopular) }},
			{"STATUS", func(p plan) string { return output.OrDash(p.Status) }},
		},
		label:   func(p plan) string { return p.Name },
		details: planDetails,
		fields: []string{
			"name", "description", "duration", "originalPrice", "price",
			"gstPercentage", "commissionAmount", "isPopular", "status",
		},
		sessionOpts: []editsession.Option[plan]{
			editsession.WithRecompute(pricing.Recalculate),
			editsession.WithReadOnly[plan]("discountPercentage", "gstAmount", "finalPrice"),
		},
		extraFlags: addFeatureFlags,
		prepare:    applyFeatureFlags,
		create: func(ctx context.Context, api *gateway.API, p plan) (string, error) {
			return mutation.From(api.CreatePlan(ctx, p))
		},
		update: func(ctx context.Context, api *gateway.API, id string, p plan) (string, error) {
			return mutation.From(api.UpdatePlan(ctx, id, p))
		},
		remove: func(ctx context.Context, api *gateway.API, id string) (string, error) {
			return mutation.From(api.DeletePlan(ctx, id))
		},
	}
}

func planDetails(p plan) [][2]string {
	pairs := [][2]string{
		{"ID", p.ID},
		{"Name", p.Name},
		{"Description", output.OrDash(p.Description)},
		{"Duration", output.OrDash(p.Duration)},
		{"Original price", output.Money(p.OriginalPrice)},
		{"Price", output.Money(p.Price)},
		{"Discount", output.Percent(p.DiscountPercentage)},
		{"GST", gstLabel(p.GSTPercentage, p.GSTAmount)},
		{"Final price", output.Money(p.FinalPrice)},
		{"Commission", output.Money(p.CommissionAmount)},
		{"Popular", yesNo(p.IsPopular)},
		{"Status", output.OrDash(p.Status)},
	}
	for i, f := range p.Features {
		mark := "✗"
		if f.Included {
			mark = "✓"
		}
		pairs = append(pairs, [2]string{fmt.Sprintf("Feature %d", i+1), mark + " " + f.Name})
	}
	for i, f := range p.FullFeatures {
		pairs = append(pairs, [2]string{fmt.Sprintf("Detail %d", i+1), f.Text})
	}
	return append(pairs,
		[2]string{"Created", output.FormatTime(p.CreatedAt)},
		[2]string{"Updated", output.FormatTime(p.UpdatedAt)},
	)
}

func gstLabel(rate, amount float64) string {
	return fmt.Sprintf("%s%% (%s)", strconv.FormatFloat(rate, 'f', -1, 64), output.Money(amount))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func addFeatureFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("feature", nil, "add a feature line (repeatable)")
	cmd.Flags().StringArray("full-feature", nil, "add a detailed feature text (repeatable)")
	cmd.Flags().IntSlice("toggle-feature", nil, "toggle whether feature N is included (1-based)")
	cmd.Flags().IntSlice("remove-feature", nil, "remove feature N (1-based)")
	cmd.Flags().IntSlice("remove-full-feature", nil, "remove detailed feature N (1-based)")
}

// applyFeatureFlags edits the feature lists. Indexes refer to the lists as
// they were before this command: toggles apply first, then removals, then
// additions. A list no flag touches is left as it came from the backend.
func applyFeatureFlags(cmd *cobra.Command, sess *editsession.Session[plan]) error {
	flags := cmd.Flags()
	add, _ := flags.GetStringArray("feature")
	addFull, _ := flags.GetStringArray("full-feature")
	toggle, _ := flags.GetIntSlice("toggle-feature")
	remove, _ := flags.GetIntSlice("remove-feature")
	removeFull, _ := flags.GetIntSlice("remove-full-feature")

	var editErr error
	if len(toggle)+len(remove)+len(add) > 0 {
		err := sess.Update("features", func(p *plan) {
			list := p.Features
			if list == nil {
				list = []models.Feature{}
			}
			for _, n := range toggle {
				if list, editErr = pricing.ToggleFeature(list, n-1); editErr != nil {
					editErr = fmt.Errorf("--toggle-feature %d: %w", n, editErr)
					return
				}
			}
			for _, n := range descending(remove) {
				if list, editErr = pricing.RemoveFeature(list, n-1); editErr != nil {
					editErr = fmt.Errorf("--remove-feature %d: %w", n, editErr)
					return
				}
			}
			for _, name := range add {
				if list, editErr = pricing.AddFeature(list, name); editErr != nil {
					editErr = fmt.Errorf("--feature %q: %w", name, editErr)
					return
				}
			}
			p.Features = list
		})
		if err != nil {
			return err
		}
		if editErr != nil {
			return editErr
		}
	}

	if len(removeFull)+len(addFull) == 0 {
		return nil
	}
	err := sess.Update("fullFeatures", func(p *plan) {
		list := p.FullFeatures
		if list == nil {
			list = []models.FullFeature{}
		}
		for _, n := range descending(removeFull) {
			if list, editErr = pricing.RemoveFullFeature(list, n-1); editErr != nil {
				editErr = fmt.Errorf("--remove-full-feature %d: %w", n, editErr)
				return
			}
		}
		for _, text := range addFull {
			if list, editErr = pricing.AddFullFeature(list, text); editErr != nil {
				editErr = fmt.Errorf("--full-feature: %w", editErr)
				return
			}
		}
		p.FullFeatures = list
	})
	if err != nil {
		return err
	}
	return editErr
}

// descending returns the distinct values of ns, largest first, so that
// removing by index does not shift the ones still to remove
func descending(ns []int) []int {
	seen := make(map[int]bool, len(ns))
	out := make([]int, 0, len(ns))
	for _, n := range ns {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

func planCalcCmd(a *app) *cobra.Command {
	var originalPrice, price, gst float64
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Preview the derived prices of a plan",
		Long: `Preview the derived prices of a plan without saving anything.

The discount is the reduction from the original price to the price, the GST
amount is charged on the price, and the final price is price plus GST. All
values are rounded to two decimals.`,
		Example: "  adminctl plan calc --original-price 1000 --price 800 --gst-percentage 18",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := pricing.Preview(originalPrice, price, gst)
			return a.printer.Print(q, func() {
				a.printer.Fields([][2]string{
					{"Original price", output.Money(q.OriginalPrice)},
					{"Price", output.Money(q.Price)},
					{"Discount", output.Percent(q.DiscountPercentage)},
					{"GST", gstLabel(q.GSTPercentage, q.GSTAmount)},
					{"Final price", output.Money(q.FinalPrice)},
				})
			})
		},
	}
	cmd.Flags().Float64Var(&originalPrice, "original-price", 0, "price before discount")
	cmd.Flags().Float64Var(&price, "price", 0, "selling price")
	cmd.Flags().Float64Var(&gst, "gst-percentage", 0, "GST rate in percent")
	return cmd
}

func newPlanCmd(a *app) *cobra.Command {
	cmd := planScreen().command(a, "plan", "Manage subscription plans", planCalcCmd(a))
	cmd.Aliases = []string{"plans"}
	return cmd
}
