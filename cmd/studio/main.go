package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/gravitrone/studio-cli/internal/cmd"
	"github.com/gravitrone/studio-cli/internal/config"
	"github.com/gravitrone/studio-cli/internal/imagecache"
	"github.com/gravitrone/studio-cli/internal/logging"
	"github.com/gravitrone/studio-cli/internal/studio"
	"github.com/gravitrone/studio-cli/internal/ui"
)

var errNotInteractive = errors.New("studio needs an interactive terminal; use a subcommand instead")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "studio [id|new]",
		Short: "Studio - manage media library studios",
		Long:  "Browse, edit, create and delete studios on a media library server.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runTUI(routeFor(args))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(cmd.ShowCmd())
	root.AddCommand(cmd.AutoTagCmd())
	root.AddCommand(cmd.ConfigCmd())
	root.AddCommand(cmd.PingCmd())
	return root
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

// routeFor maps the optional positional argument onto a starting route.
func routeFor(args []string) string {
	if len(args) == 0 || args[0] == "" {
		return studio.ListPath
	}
	return studio.DetailPath(args[0])
}

func runTUI(route string) error {
	if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
		return errNotInteractive
	}

	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(logging.Options{Path: cfg.LogPath(), Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	defer closer.Close()

	deps, err := buildDeps(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("studio started", slog.String("route", route), slog.String("server", deps.Client.BaseURL()))

	p := tea.NewProgram(ui.NewApp(deps, route), tea.WithAltScreen())
	final, err := p.Run()
	if app, ok := final.(ui.App); ok {
		app.Close()
	}
	if err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func buildDeps(cfg *config.Config, logger *slog.Logger) (ui.Deps, error) {
	client := cmd.NewClient(cfg)
	images, err := imagecache.New(client, imagecache.DefaultSize)
	if err != nil {
		return ui.Deps{}, err
	}
	opts := studio.Options{NavigateOnDeleteFailure: cfg.RedirectOnDeleteFailure()}
	return ui.Deps{
		Client:     client,
		Dispatcher: studio.NewDispatcher(client, images, opts, logger),
		Images:     images,
		Config:     cfg,
		Logger:     logger,
	}, nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
