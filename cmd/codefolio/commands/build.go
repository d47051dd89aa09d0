package commands

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codefolio/internal/observability"
	"github.com/Sumatoshi-tech/codefolio/internal/sitegen"
)

// ErrNoOutputDir is returned by build without --output.
var ErrNoOutputDir = errors.New("--output directory is required")

type buildOptions struct {
	output   string
	log      string
	projects string
}

func newBuildCommand(g *globalOptions) *cobra.Command {
	bo := &buildOptions{}

	cmd := &cobra.Command{
		Use:     "build",
		Short:   "Write the static site",
		Long:    "Render the home, projects, meta and contact pages as index.html files under --output.",
		Example: "  codefolio build --output public",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, g, bo)
		},
	}

	cmd.Flags().StringVarP(&bo.output, "output", "o", "", "output directory")
	cmd.Flags().StringVar(&bo.log, "log", "", "change log path or URL (default meta.log)")
	cmd.Flags().StringVar(&bo.projects, "projects", "", "projects JSON path or URL (default projects.file)")

	return cmd
}

func runBuild(cmd *cobra.Command, g *globalOptions, bo *buildOptions) error {
	if bo.output == "" {
		return ErrNoOutputDir
	}

	a, err := setup(g, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer a.close(cmd.Context())

	ctx, span := a.providers.Tracer.Start(cmd.Context(), "codefolio.build")
	defer span.End()

	r := &sitegen.Renderer{
		Site:      a.cfg.SiteOptions(),
		OutputDir: bo.output,
		Logger:    a.logger,
	}

	written, err := r.Build(ctx, a.engine(ctx, bo.log), a.projects(ctx, bo.projects))
	if err != nil {
		return fmt.Errorf("build site: %w", err)
	}

	a.logger.InfoContext(ctx, "site built", "dir", bo.output, "pages", humanize.Comma(int64(len(written))))

	for _, path := range written {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}

	return nil
}
