package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "replyforge",
		Short: "ReplyForge API server",
		Long:  `ReplyForge generates replies to customer reviews and keeps plans in sync with Stripe billing.`,
		RunE:  runServe,
	}

	rootCmd.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
