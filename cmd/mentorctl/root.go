package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

const defaultAPIURL = "http://localhost:3000"

type apiFlags struct {
	url     string
	timeout time.Duration
}

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mentorctl",
		Short:         "Operate the mentorbook store and API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	api := &apiFlags{}
	root.PersistentFlags().StringVar(&api.url, "api-url", envOr("MENTORBOOK_API_URL", defaultAPIURL), "base URL of the mentorbook API")
	root.PersistentFlags().DurationVar(&api.timeout, "timeout", 10*time.Second, "HTTP request timeout")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newMentorsCmd(api))
	root.AddCommand(newBookingsCmd(api))

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
