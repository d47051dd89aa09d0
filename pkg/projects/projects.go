// Package projects loads the project gallery and derives its search results
// and per-year pie breakdown.
package projects

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/codefolio/pkg/site"
)

//go:embed schema.json
var schemaJSON string

// Sentinel errors.
var (
	ErrInvalidProjects = errors.New("projects file does not match schema")
	ErrUnexpectedHTTP  = errors.New("unexpected HTTP status")
)

const (
	defaultImage = "images/placeholder.png"
	untitled     = "Untitled project"
)

// Year accepts either a JSON number or a string.
type Year string

// UnmarshalJSON implements json.Unmarshaler.
func (y *Year) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*y = Year(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("year: %w", err)
	}

	*y = Year(n.String())

	return nil
}

// MarshalJSON emits numeric years as numbers.
func (y Year) MarshalJSON() ([]byte, error) {
	if _, err := strconv.Atoi(string(y)); err == nil && y != "" {
		return []byte(y), nil
	}

	return json.Marshal(string(y))
}

// Project is one gallery entry.
type Project struct {
	Title       string `json:"title"                 yaml:"title"`
	Image       string `json:"image,omitempty"       yaml:"image,omitempty"`
	Year        Year   `json:"year,omitempty"        yaml:"year,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string `json:"url,omitempty"         yaml:"url,omitempty"`
}

// DisplayTitle returns the title, or a placeholder when it is empty.
func (p Project) DisplayTitle() string {
	if p.Title == "" {
		return untitled
	}

	return p.Title
}

// DisplayImage returns the image path, or a placeholder when it is empty.
func (p Project) DisplayImage() string {
	if p.Image == "" {
		return defaultImage
	}

	return p.Image
}

func (p Project) values() []string {
	return []string{p.Title, p.Image, string(p.Year), p.Description, p.URL}
}

// Parse validates data against the projects schema and decodes it.
func Parse(data []byte) ([]Project, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate projects: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidProjects, strings.Join(msgs, "; "))
	}

	var list []Project

	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}

	return list, nil
}

// Load reads projects from a path or http(s) URL. Failures are logged and
// yield an empty list.
func Load(ctx context.Context, source string, logger *slog.Logger) []Project {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := read(ctx, source)
	if err == nil {
		var list []Project

		list, err = Parse(data)
		if err == nil {
			logger.DebugContext(ctx, "projects loaded", "source", source, "count", len(list))

			return list
		}
	}

	logger.ErrorContext(ctx, "load projects", "source", source, "error", err)

	return []Project{}
}

func read(ctx context.Context, source string) ([]byte, error) {
	if !site.IsExternal(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}

		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", source, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %w: %s", source, ErrUnexpectedHTTP, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	return data, nil
}
