package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codefolio/internal/observability"
	"github.com/Sumatoshi-tech/codefolio/internal/plotpage"
	"github.com/Sumatoshi-tech/codefolio/pkg/projects"
)

type projectsOptions struct {
	file    string
	query   string
	year    string
	format  string
	output  string
	noColor bool
}

func newProjectsCommand(g *globalOptions) *cobra.Command {
	po := &projectsOptions{}

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Search the project gallery and break it down by year",
		Example: `  codefolio projects --query go
  codefolio projects --year 2023 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProjects(cmd, g, po)
		},
	}

	cmd.Flags().StringVar(&po.file, "file", "", "projects JSON path or URL (default projects.file)")
	cmd.Flags().StringVar(&po.query, "query", "", "case-insensitive search over every field")
	cmd.Flags().StringVar(&po.year, "year", "", "keep only projects from this year")
	cmd.Flags().StringVarP(&po.format, "format", "f", FormatText, "output format: text, json, yaml, html")
	cmd.Flags().StringVarP(&po.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&po.noColor, "no-color", false, "disable colored text output")

	return cmd
}

func runProjects(cmd *cobra.Command, g *globalOptions, po *projectsOptions) error {
	format, err := validateFormat(po.format)
	if err != nil {
		return err
	}

	a, err := setup(g, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer a.close(cmd.Context())

	ctx, span := a.providers.Tracer.Start(cmd.Context(), "codefolio.projects")
	defer span.End()

	list := a.projects(ctx, po.file)
	listing := projects.NewListing(list, po.query, po.year)
	term := textConfig(po.noColor)

	return renderer{
		text:  func(w io.Writer) error { return term.RenderListing(w, listing) },
		model: listing,
		page:  func() *plotpage.Page { return a.cfg.SiteOptions().Projects(list, po.query, po.year) },
	}.write(cmd.OutOrStdout(), format, po.output)
}
