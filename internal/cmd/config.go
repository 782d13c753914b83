package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gravitrone/studio-cli/internal/config"
)

// ConfigCmd returns the `studio config` command group.
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit ~/.studio/config",
	}
	cmd.AddCommand(configSetCmd())
	cmd.AddCommand(configPathCmd())
	return cmd
}

func configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one config value",
		Long: "Set one config value. Keys: api_key, base_url, image_drop_dir, " +
			"max_image_bytes, log_file, log_level, delete_failure_redirect.",
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := config.LoadStored()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(c.OutOrStdout(), "%s updated in %s\n", args[0], config.Path())
			return nil
		},
	}
}

func configPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			fmt.Fprintln(c.OutOrStdout(), config.Path())
			return nil
		},
	}
}
