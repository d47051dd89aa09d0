package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codefolio/internal/observability"
	"github.com/Sumatoshi-tech/codefolio/internal/terminal"
	"github.com/Sumatoshi-tech/codefolio/internal/tui"
	"github.com/Sumatoshi-tech/codefolio/internal/watch"
	"github.com/Sumatoshi-tech/codefolio/pkg/meta"
)

type exploreOptions struct {
	log     string
	noWatch bool
}

func newExploreCommand(g *globalOptions) *cobra.Command {
	eo := &exploreOptions{}

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Explore the commit history interactively",
		Long: `Step through time with the arrow keys, brush an hour-of-day band with b
and up/down, and watch the stats and file breakdown follow. The change log is
reloaded when it is rewritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExplore(cmd, g, eo)
		},
	}

	cmd.Flags().StringVar(&eo.log, "log", "", "change log path or URL (default meta.log)")
	cmd.Flags().BoolVar(&eo.noWatch, "no-watch", false, "do not reload the change log on change")

	return cmd
}

func runExplore(cmd *cobra.Command, g *globalOptions, eo *exploreOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(g, observability.ModeExplore)
	if err != nil {
		return err
	}
	defer a.close(context.WithoutCancel(ctx))

	source := eo.log
	if source == "" {
		source = a.cfg.Meta.Log
	}

	store := watch.NewStore()
	load := watch.Loader(source, a.cfg.Site.RepoURL, a.logger, a.cfg.LoadOptions(a.logger)...)

	refreshErr := store.Refresh(ctx, load)
	if refreshErr != nil {
		a.logger.ErrorContext(ctx, "change log load failed", "source", source, "error", refreshErr)
	}

	if a.cfg.Server.Watch && !eo.noWatch {
		startWatcher(ctx, a.logger, source, store, load, watch.WithDebounce(a.cfg.Server.WatchDebounce))
	}

	sceneOpts := a.cfg.SceneOptions()
	eng := meta.NewEngine(store.Current().Commits, sceneOpts...)

	m := tui.New(eng,
		tui.WithStep(a.cfg.Meta.Step),
		tui.WithTerminal(terminal.NewConfig()),
		tui.WithSceneOptions(sceneOpts...),
	)

	return tui.Run(ctx, m, store)
}
