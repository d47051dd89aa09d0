// Package commands implements the codefolio subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codefolio/internal/config"
	"github.com/Sumatoshi-tech/codefolio/internal/observability"
	"github.com/Sumatoshi-tech/codefolio/pkg/commits"
	"github.com/Sumatoshi-tech/codefolio/pkg/loclog"
	"github.com/Sumatoshi-tech/codefolio/pkg/meta"
	"github.com/Sumatoshi-tech/codefolio/pkg/projects"
	"github.com/Sumatoshi-tech/codefolio/pkg/version"
)

const (
	levelDebug = "debug"
	levelError = "error"

	logFilePerm = 0o600
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	verbose    bool
	quiet      bool
}

// NewRootCommand builds the codefolio command tree.
func NewRootCommand() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:   "codefolio",
		Short: "Portfolio site generator with a commit-history explorer",
		Long: `Codefolio renders a personal portfolio: home, projects, contact and a
"meta" page that explores the site's own commit history.

Commands:
  meta      Commit-history stats, breakdown and selection
  projects  Search and filter the project gallery
  build     Write the static site
  serve     Serve the site with live reload of the change log
  explore   Interactive terminal explorer`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default .codefolio.yaml in . or $HOME)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "suppress output")

	root.AddCommand(
		newMetaCommand(g),
		newProjectsCommand(g),
		newBuildCommand(g),
		newServeCommand(g),
		newExploreCommand(g),
		newVersionCommand(),
	)

	return root
}

// app is the per-invocation runtime: configuration plus telemetry.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	providers observability.Providers
	logFile   *os.File
}

// setup loads the configuration and starts telemetry for mode. The caller
// must call close.
func setup(g *globalOptions, mode observability.AppMode) (*app, error) {
	cfg, err := config.LoadConfig(g.configPath)
	if err != nil {
		return nil, err
	}

	switch {
	case g.verbose:
		cfg.Logging.Level = levelDebug
	case g.quiet, mode == observability.ModeExplore && cfg.Logging.File == "":
		// stderr output would tear the explorer's alternate screen.
		cfg.Logging.Level = levelError
	}

	obs := cfg.Observability(mode, version.Version)
	a := &app{cfg: cfg}

	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFilePerm)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}

		obs.LogWriter = f
		a.logFile = f
	}

	providers, err := observability.Init(obs)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("init observability: %w", err), a.closeLogFile())
	}

	slog.SetDefault(providers.Logger)

	a.logger = providers.Logger
	a.providers = providers

	return a, nil
}

func (a *app) close(ctx context.Context) {
	err := a.providers.Shutdown(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.WarnContext(ctx, "observability shutdown failed", "error", err)
	}

	err = a.closeLogFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "close log file: %v\n", err)
	}
}

func (a *app) closeLogFile() error {
	if a.logFile == nil {
		return nil
	}

	return a.logFile.Close()
}

// commits loads the change log at source, or the configured one.
func (a *app) commits(ctx context.Context, source string) []*commits.Commit {
	if source == "" {
		source = a.cfg.Meta.Log
	}

	records := loclog.Load(ctx, source, a.cfg.LoadOptions(a.logger)...)

	return commits.Aggregate(records, a.cfg.Site.RepoURL)
}

func (a *app) engine(ctx context.Context, source string) *meta.Engine {
	return meta.NewEngine(a.commits(ctx, source), a.cfg.SceneOptions()...)
}

// projects loads the gallery at source, or the configured file.
func (a *app) projects(ctx context.Context, source string) []projects.Project {
	if source == "" {
		source = a.cfg.Projects.File
	}

	return projects.Load(ctx, source, a.logger)
}
