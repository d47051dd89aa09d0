package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codefolio/internal/observability"
	"github.com/Sumatoshi-tech/codefolio/internal/server"
	"github.com/Sumatoshi-tech/codefolio/internal/watch"
	"github.com/Sumatoshi-tech/codefolio/pkg/loclog"
)

type serveOptions struct {
	addr     string
	log      string
	projects string
	noWatch  bool
}

func newServeCommand(g *globalOptions) *cobra.Command {
	so := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site and reload the change log when it changes",
		Long: `Serve every page over HTTP. The meta page honours ?progress= and
?brush= query parameters, /api/meta and /api/projects return the page models
as JSON, and a local change log is reloaded whenever it is rewritten.`,
		Example: `  codefolio serve --addr :8080
  curl 'localhost:8080/api/meta?progress=50&brush=100,50,400,300'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, g, so)
		},
	}

	cmd.Flags().StringVar(&so.addr, "addr", "", "listen address (default server.addr)")
	cmd.Flags().StringVar(&so.log, "log", "", "change log path or URL (default meta.log)")
	cmd.Flags().StringVar(&so.projects, "projects", "", "projects JSON path or URL (default projects.file)")
	cmd.Flags().BoolVar(&so.noWatch, "no-watch", false, "do not reload the change log on change")

	return cmd
}

func runServe(cmd *cobra.Command, g *globalOptions, so *serveOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(g, observability.ModeServe)
	if err != nil {
		return err
	}
	defer a.close(context.WithoutCancel(ctx))

	source := so.log
	if source == "" {
		source = a.cfg.Meta.Log
	}

	prom, err := observability.NewPrometheus()
	if err != nil {
		return err
	}

	defer func() {
		shutdownErr := prom.Shutdown(context.WithoutCancel(ctx))
		if shutdownErr != nil {
			a.logger.WarnContext(ctx, "metrics shutdown failed", "error", shutdownErr)
		}
	}()

	red, err := observability.NewREDMetrics(prom.Meter)
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	opts := a.cfg.ServerOptions()
	if so.addr != "" {
		opts.Addr = so.addr
	}

	store := watch.NewStore()
	load := watch.Loader(source, a.cfg.Site.RepoURL, a.logger, a.cfg.LoadOptions(a.logger)...)

	srv := server.New(opts, a.cfg.SiteOptions(), store, a.projects(ctx, so.projects),
		server.WithLogger(a.logger),
		server.WithTracer(a.providers.Tracer),
		server.WithMetrics(red, prom.Handler),
		server.WithSceneOptions(a.cfg.SceneOptions()...),
	)

	refreshErr := store.Refresh(ctx, load)
	if refreshErr != nil {
		a.logger.ErrorContext(ctx, "initial change log load failed, serving an empty history",
			"source", source, "error", refreshErr)
	}

	if a.cfg.Server.Watch && !so.noWatch {
		startWatcher(ctx, a.logger, source, store, load, watch.WithDebounce(a.cfg.Server.WatchDebounce))
	}

	return srv.ListenAndServe(ctx)
}

// startWatcher reloads store in the background while ctx lives. Remote
// sources are not watched.
func startWatcher(ctx context.Context, logger *slog.Logger, source string, store *watch.Store,
	load watch.LoadFunc, opts ...watch.Option,
) {
	if loclog.IsRemote(source) {
		logger.DebugContext(ctx, "remote change log, not watching", "source", source)

		return
	}

	w, err := watch.NewWatcher(source, store, load, append(opts, watch.WithLogger(logger))...)
	if err != nil {
		logger.WarnContext(ctx, "change log watcher disabled", "error", err)

		return
	}

	go func() {
		runErr := w.Run(ctx)
		if runErr != nil {
			logger.WarnContext(ctx, "change log watcher stopped", "error", runErr)
		}
	}()
}
