package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codefolio/internal/observability"
	"github.com/Sumatoshi-tech/codefolio/internal/plotpage"
	"github.com/Sumatoshi-tech/codefolio/internal/terminal"
	"github.com/Sumatoshi-tech/codefolio/pkg/meta"
)

type metaOptions struct {
	log      string
	progress string
	brush    string
	format   string
	output   string
	noColor  bool
}

func newMetaCommand(g *globalOptions) *cobra.Command {
	mo := &metaOptions{}

	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Show commit-history stats, type breakdown and brushed commits",
		Long: `Load the line-of-code change log, apply the time-progress cutoff and
an optional brush rectangle in plot pixels, and print the resulting page model.`,
		Example: `  codefolio meta --log meta/loc.csv --progress 60
  codefolio meta --brush 100,50,400,300 --format json
  codefolio meta --format html --output public/meta/index.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMeta(cmd, g, mo)
		},
	}

	cmd.Flags().StringVar(&mo.log, "log", "", "change log path or URL (default meta.log)")
	cmd.Flags().StringVar(&mo.progress, "progress", "", "time progress in percent, 0-100 (default 100)")
	cmd.Flags().StringVar(&mo.brush, "brush", "", "brush rectangle x0,y0,x1,y1 in plot pixels")
	cmd.Flags().StringVarP(&mo.format, "format", "f", FormatText, "output format: text, json, yaml, html")
	cmd.Flags().StringVarP(&mo.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&mo.noColor, "no-color", false, "disable colored text output")

	return cmd
}

func runMeta(cmd *cobra.Command, g *globalOptions, mo *metaOptions) error {
	format, err := validateFormat(mo.format)
	if err != nil {
		return err
	}

	query, err := meta.ParseQuery(mo.progress, mo.brush)
	if err != nil {
		return err
	}

	a, err := setup(g, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer a.close(cmd.Context())

	ctx, span := a.providers.Tracer.Start(cmd.Context(), "codefolio.meta")
	defer span.End()

	eng := a.engine(ctx, mo.log)
	eng.Apply(query)

	model := eng.Model()
	term := textConfig(mo.noColor)

	// The written page is a snapshot of this query.
	site := a.cfg.SiteOptions()
	site.Static = true

	return renderer{
		text:  func(w io.Writer) error { return term.RenderMeta(w, model) },
		model: model,
		page:  func() *plotpage.Page { return site.Meta(eng) },
	}.write(cmd.OutOrStdout(), format, mo.output)
}

// textConfig detects the terminal, honoring --no-color.
func textConfig(noColor bool) terminal.Config {
	cfg := terminal.NewConfig()
	if noColor {
		cfg.NoColor = true
	}

	return cfg
}
