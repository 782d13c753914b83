package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gravitrone/studio-cli/internal/api"
)

// AutoTagCmd returns the `studio autotag` command.
func AutoTagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "autotag <id>...",
		Short: "Queue an auto tag job for studios",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(c.Context(), commandTimeout)
			defer cancel()

			job, err := client.AutoTag(ctx, api.AutoTagInput{Studios: args})
			if err != nil {
				return fmt.Errorf("auto tag: %w", err)
			}
			if job != nil && job.JobID != "" {
				fmt.Fprintf(c.OutOrStdout(), "started auto tagging (job %s)\n", job.JobID)
				return nil
			}
			fmt.Fprintln(c.OutOrStdout(), "started auto tagging")
			return nil
		},
	}
}
