package main

import (
	"fmt"
	"text/tabwriter"

	"mentorbook/pkg/client"

	"github.com/spf13/cobra"
)

func newMentorsCmd(api *apiFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mentors",
		Short: "List and create mentors through the API",
	}
	cmd.AddCommand(newMentorsListCmd(api))
	cmd.AddCommand(newMentorsCreateCmd(api))
	return cmd
}

func newMentorsListCmd(api *apiFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List mentors",
		RunE: func(cmd *cobra.Command, args []string) error {
			mentors, err := client.NewAPIClient(api.url, api.timeout).ListMentors(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, m := range mentors {
				fmt.Fprintf(w, "%d\t%s\n", m.ID, m.Name)
			}
			return w.Flush()
		},
	}
}

func newMentorsCreateCmd(api *apiFlags) *cobra.Command {
	var name string

	c := &cobra.Command{
		Use:   "create",
		Short: "Create a mentor",
		RunE: func(cmd *cobra.Command, args []string) error {
			mentor, err := client.NewAPIClient(api.url, api.timeout).CreateMentor(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created mentor %d %q\n", mentor.ID, mentor.Name)
			return nil
		},
	}

	c.Flags().StringVar(&name, "name", "", "mentor name")
	_ = c.MarkFlagRequired("name")
	return c
}
