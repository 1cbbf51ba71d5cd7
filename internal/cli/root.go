// Package cli provides the terminal dashboard for saved snippets.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"snippetnav/internal/client"
	"snippetnav/internal/config"
	"snippetnav/internal/navigator"
)

// Version information (set at build time).
var Version = "0.1.0"

// app is the state shared by every subcommand once flags are parsed
type app struct {
	server  string
	token   string
	project string
	verbose bool

	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
	client    *client.Client
	confirm   confirmFunc
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(runConfirm)
}

func newRootCmd(confirm confirmFunc) *cobra.Command {
	a := &app{confirm: confirm}

	rootCmd := &cobra.Command{
		Use:   "snippets",
		Short: "Browse and delete saved SQL snippets",
		Long: `snippets is a terminal dashboard for the saved snippets of a project.

It renders the favorites, shared and private groups of the snippet tree and
runs the same confirm-then-delete flow as the web dashboard.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logCloser != nil {
				a.logCloser.Close()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.server, "server", "", "Server URL (default: $SNIPPETS_SERVER_URL)")
	rootCmd.PersistentFlags().StringVar(&a.token, "token", "", "Bearer token (default: $SNIPPETS_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&a.project, "project", "p", "", "Project ref (default: $SNIPPETS_PROJECT)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Write logs to stderr")

	rootCmd.AddCommand(newTreeCommand(a))
	rootCmd.AddCommand(newDeleteCommand(a))

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = config.Load()
	if a.server == "" {
		a.server = a.cfg.ServerURL
	}
	if a.token == "" {
		a.token = a.cfg.APIToken
	}
	if a.project == "" {
		a.project = a.cfg.ProjectRef
	}
	if a.project == "" {
		return errors.New("a project ref is required (--project or SNIPPETS_PROJECT)")
	}

	var console io.Writer = io.Discard
	if a.verbose {
		console = cmd.ErrOrStderr()
	}
	logger, closer, err := config.NewLoggerTo(a.cfg, "snippets", console)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	a.logger = logger
	a.logCloser = closer
	a.client = client.New(a.server, a.token, logger)
	return nil
}

// dashboard is a session plus the channels its hooks report on
type dashboard struct {
	session   *navigator.Session
	refreshed chan error
	resolved  chan navigator.Resolution
}

func (a *app) openDashboard(out io.Writer) *dashboard {
	d := &dashboard{
		refreshed: make(chan error, 1),
		resolved:  make(chan navigator.Resolution, 1),
	}
	surface := newPrinter(out)
	d.session = navigator.NewSession(a.project, navigator.Collaborators{
		Fetcher:   a.client,
		Deleter:   a.client,
		Navigator: surface,
		Notifier:  surface,
	}, navigator.SessionOptions{
		StaleTime: a.cfg.StaleTime,
		OnRefresh: func(_ *navigator.Tree, err error) {
			select {
			case d.refreshed <- err:
			default:
			}
		},
		OnResolve: func(res navigator.Resolution) {
			select {
			case d.resolved <- res:
			default:
			}
		},
	}, a.logger)
	return d
}

// load fetches the tree and waits for it to be applied
func (d *dashboard) load(ctx context.Context) error {
	if _, err := d.session.Refresh(true); err != nil {
		return err
	}
	select {
	case err := <-d.refreshed:
		if err != nil {
			return fmt.Errorf("failed to load snippets: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *dashboard) waitResolved(ctx context.Context) (navigator.Resolution, error) {
	select {
	case res := <-d.resolved:
		return res, nil
	case <-ctx.Done():
		return navigator.Resolution{}, ctx.Err()
	}
}
