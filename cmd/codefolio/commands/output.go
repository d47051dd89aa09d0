package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/codefolio/internal/plotpage"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatHTML = "html"
)

const (
	outputDirPerm = 0o750
	jsonIndent    = "  "
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown output format")

var supportedFormats = []string{FormatText, FormatJSON, FormatYAML, FormatHTML}

// validateFormat normalizes format and checks it is supported.
func validateFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if !slices.Contains(supportedFormats, f) {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, format, strings.Join(supportedFormats, ", "))
	}

	return f, nil
}

// openOutput returns stdout, or a file created at path with its parent
// directories.
func openOutput(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}

	err := os.MkdirAll(filepath.Dir(path), outputDirPerm)
	if err != nil {
		return nil, nil, fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}

	return f, f.Close, nil
}

// renderer produces one format of a command's result.
type renderer struct {
	text  func(io.Writer) error
	model any
	page  func() *plotpage.Page
}

// write renders r in format to path (or stdout when path is empty).
func (r renderer) write(stdout io.Writer, format, path string) (err error) {
	w, closeFn, err := openOutput(stdout, path)
	if err != nil {
		return err
	}

	defer func() {
		closeErr := closeFn()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("close output: %w", closeErr)
		}
	}()

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", jsonIndent)

		err = enc.Encode(r.model)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)

		err = enc.Encode(r.model)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return enc.Close()

	case FormatHTML:
		return r.page().Render(w)

	default:
		return r.text(w)
	}
}
