package sitegen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Sumatoshi-tech/codefolio/internal/plotpage"
	"github.com/Sumatoshi-tech/codefolio/pkg/meta"
	"github.com/Sumatoshi-tech/codefolio/pkg/projects"
)

const (
	dirPerm    = 0o750
	tracerName = "codefolio/sitegen"
)

// Renderer writes every page of the site under OutputDir, one
// directory per page, each holding an index.html.
type Renderer struct {
	Site      Site
	OutputDir string
	Logger    *slog.Logger
}

// Build renders the home, projects, commit-history and contact pages.
// It returns the written file paths.
func (r *Renderer) Build(ctx context.Context, eng *meta.Engine, list []projects.Project) ([]string, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "sitegen.Build")
	defer span.End()

	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	site := r.Site
	site.Static = true

	pages := []struct {
		path string
		page *plotpage.Page
	}{
		{HomePath, site.Home(list)},
		{ProjectsPath, site.Projects(list, "", "")},
		{MetaPath, site.Meta(eng)},
		{ContactPath, site.Contact()},
	}

	written := make([]string, 0, len(pages))

	for _, p := range pages {
		out, err := r.writePage(p.path, p.page)
		if err != nil {
			return written, err
		}

		logger.DebugContext(ctx, "page written", "path", out)

		written = append(written, out)
	}

	span.SetAttributes(attribute.Int("sitegen.pages", len(written)))

	return written, nil
}

func (r *Renderer) writePage(rel string, page *plotpage.Page) (string, error) {
	dir := filepath.Join(r.OutputDir, filepath.FromSlash(rel))

	mkErr := os.MkdirAll(dir, dirPerm)
	if mkErr != nil {
		return "", fmt.Errorf("create %s: %w", dir, mkErr)
	}

	outPath := filepath.Join(dir, indexFileName)

	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()

	renderErr := page.Render(f)
	if renderErr != nil {
		return "", fmt.Errorf("render %s: %w", outPath, renderErr)
	}

	return outPath, nil
}
