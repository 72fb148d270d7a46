package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"mentorbook/pkg/client"
	"mentorbook/pkg/model"

	"github.com/spf13/cobra"
)

func newBookingsCmd(api *apiFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List and create bookings through the API",
	}
	cmd.AddCommand(newBookingsListCmd(api))
	cmd.AddCommand(newBookingsCreateCmd(api))
	return cmd
}

func newBookingsListCmd(api *apiFlags) *cobra.Command {
	var filter model.BookingFilter

	c := &cobra.Command{
		Use:   "list",
		Short: "List bookings ordered by start time",
		RunE: func(cmd *cobra.Command, args []string) error {
			bookings, err := client.NewAPIClient(api.url, api.timeout).ListBookings(cmd.Context(), filter)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMENTOR\tSTUDENT\tSTART")
			for _, b := range bookings {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", b.ID, b.MentorID, b.StudentEmail, b.StartTime.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	c.Flags().Int64Var(&filter.MentorID, "mentor-id", 0, "only bookings of this mentor")
	c.Flags().StringVar(&filter.StudentEmail, "student-email", "", "only bookings of this student")
	return c
}

func newBookingsCreateCmd(api *apiFlags) *cobra.Command {
	var (
		mentorID int64
		email    string
		start    string
	)

	c := &cobra.Command{
		Use:   "create",
		Short: "Book a slot with a mentor",
		RunE: func(cmd *cobra.Command, args []string) error {
			startTime, err := time.Parse(time.RFC3339, start)
			if err != nil {
				return fmt.Errorf("invalid --start %q: expected RFC3339", start)
			}

			booking, err := client.NewAPIClient(api.url, api.timeout).CreateBooking(cmd.Context(), mentorID, email, startTime)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created booking %d with mentor %d at %s\n",
				booking.ID, booking.MentorID, booking.StartTime.Format(time.RFC3339))
			return nil
		},
	}

	c.Flags().Int64Var(&mentorID, "mentor-id", 0, "mentor to book")
	c.Flags().StringVar(&email, "student-email", "", "student e-mail address")
	c.Flags().StringVar(&start, "start", "", "slot start time, RFC3339")
	_ = c.MarkFlagRequired("mentor-id")
	_ = c.MarkFlagRequired("start")
	return c
}
