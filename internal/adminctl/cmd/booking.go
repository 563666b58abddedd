package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sorenmh/homeservices-admin/internal/adminctl/output"
	"github.com/sorenmh/homeservices-admin/internal/gateway"
	"github.com/sorenmh/homeservices-admin/internal/listview"
	"github.com/sorenmh/homeservices-admin/internal/models"
	"github.com/sorenmh/homeservices-admin/internal/mutation"
)

type booking = models.GuestBooking

func bookingScreen() *screen[booking] {
	created := func(b booking) *time.Time { return b.CreatedAt }

	return &screen[booking]{
		entity: "booking",
		plural: "guest bookings",
		fetch: func(ctx context.Context, api *gateway.API, _, _ int) (listview.Page[booking], error) {
			return page(api.ListGuestBookings(ctx))
		},
		options: listview.Options[booking]{
			ID: func(b booking) string { return b.ID },
			SearchFields: func(b booking) []string {
				return []string{b.Name, b.Phone, b.Service, b.Pincode, b.Address}
			},
			Status: func(b booking) string {
				if b.Status == "" {
					return models.StatusPending
				}
				return b.Status
			},
		},
		statuses: []string{models.StatusPending, models.StatusCompleted},
		sorts: map[string]func(a, b booking) bool{
			"newest": newestFirst(created),
			"oldest": oldestFirst(created),
			"date":   byText(func(b booking) string { return b.BookingDate }),
		},
		defaultSort: "newest",
		columns: []column[booking]{
			{"ID", func(b booking) string { return b.ID }},
			{"NAME", func(b booking) string { return b.Name }},
			{"PHONE", func(b booking) string { return b.Phone }},
			{"SERVICE", func(b booking) string { return output.OrDash(b.Service) }},
			{"DATE", func(b booking) string { return output.OrDash(b.BookingDate) }},
			{"STATUS", func(b booking) string { return bookingStatus(b) }},
		},
		label: func(b booking) string { return b.Name },
		details: func(b booking) [][2]string {
			return [][2]string{
				{"ID", b.ID},
				{"Name", b.Name},
				{"Phone", b.Phone},
				{"Address", output.OrDash(b.Address)},
				{"Pincode", output.OrDash(b.Pincode)},
				{"Service", output.OrDash(b.Service)},
				{"Booking date", output.OrDash(b.BookingDate)},
				{"Status", bookingStatus(b)},
				{"Received", output.FormatTime(b.CreatedAt)},
			}
		},
		remove: func(ctx context.Context, api *gateway.API, id string) (string, error) {
			return mutation.From(api.DeleteGuestBooking(ctx, id))
		},
	}
}

func bookingStatus(b booking) string {
	if b.Status == "" {
		return models.StatusPending
	}
	return b.Status
}

func bookingCompleteCmd(a *app, s *screen[booking]) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a guest booking as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			b, _, err := s.find(ctx, a, id)
			if err != nil {
				return err
			}
			if bookingStatus(b) == models.StatusCompleted {
				a.printer.Info(fmt.Sprintf("Booking %s is already completed", id))
				return nil
			}
			api, err := a.backend()
			if err != nil {
				return err
			}

			out := a.mutations().Run(ctx, mutation.Op{
				Verb:           mutation.VerbComplete,
				Entity:         s.entity,
				ID:             id,
				Confirm:        fmt.Sprintf("Mark booking of %s (%s) as completed?", b.Name, id),
				SuccessMessage: "Booking marked as completed",
				Call: func(ctx context.Context) (string, error) {
					return mutation.From(api.CompleteGuestBooking(ctx, id))
				},
			})
			if out.Cancelled {
				a.printer.Info("Cancelled")
				return nil
			}
			return finish(out)
		},
	}
}

func newBookingCmd(a *app) *cobra.Command {
	s := bookingScreen()
	cmd := s.command(a, "booking", "Work through guest bookings", bookingCompleteCmd(a, s))
	cmd.Aliases = []string{"bookings"}
	return cmd
}
