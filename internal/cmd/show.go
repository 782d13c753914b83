package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gravitrone/studio-cli/internal/api"
	"github.com/gravitrone/studio-cli/internal/imagecache"
)

// ShowCmd returns the `studio show` command.
func ShowCmd() *cobra.Command {
	var withImage bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one studio",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			client, err := loadClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(c.Context(), commandTimeout)
			defer cancel()

			studio, err := client.FindStudio(ctx, args[0])
			if err != nil {
				return fmt.Errorf("show studio %s: %w", args[0], err)
			}
			printStudio(c.OutOrStdout(), studio)

			if withImage && studio.ImagePath != "" {
				images, err := imagecache.New(client, 1)
				if err != nil {
					return err
				}
				img, err := images.Get(ctx, studio.ID)
				if err != nil {
					return fmt.Errorf("fetch image: %w", err)
				}
				fmt.Fprintf(c.OutOrStdout(), "  image:    %s\n", imagecache.Describe(img))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withImage, "image", false, "download the image and describe it")
	return cmd
}

func printStudio(w io.Writer, s *api.Studio) {
	fmt.Fprintf(w, "  id:       %s\n", s.ID)
	fmt.Fprintf(w, "  name:     %s\n", s.Name)
	fmt.Fprintf(w, "  url:      %s\n", orNone(s.URL))
	fmt.Fprintf(w, "  image:    %s\n", orNone(s.ImagePath))
	if !s.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "  updated:  %s\n", humanize.Time(s.UpdatedAt))
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
