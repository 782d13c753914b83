package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// PingCmd returns the `studio ping` command.
func PingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the media server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(c.Context(), commandTimeout)
			defer cancel()

			status, err := client.Health(ctx)
			if err != nil {
				return fmt.Errorf("ping %s: %w", client.BaseURL(), err)
			}
			fmt.Fprintf(c.OutOrStdout(), "%s: %s\n", client.BaseURL(), status)
			return nil
		},
	}
}
