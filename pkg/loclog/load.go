package loclog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "codefolio/loclog"

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	logger  *slog.Logger
	client  *http.Client
	exclude []string
	maxSize int64
}

// WithLogger sets the logger used to report load failures and skipped rows.
func WithLogger(logger *slog.Logger) LoadOption {
	return func(c *loadConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(client *http.Client) LoadOption {
	return func(c *loadConfig) {
		if client != nil {
			c.client = client
		}
	}
}

// WithExclude drops records whose file path matches any of the globs.
func WithExclude(patterns ...string) LoadOption {
	return func(c *loadConfig) {
		c.exclude = append(c.exclude, patterns...)
	}
}

// WithMaxSize rejects sources larger than limit bytes with ErrLogTooLarge.
// Zero means no cap.
func WithMaxSize(limit int64) LoadOption {
	return func(c *loadConfig) {
		c.maxSize = limit
	}
}

// Load reads the change log at source (a filesystem path or an http(s) URL).
// Any fetch or parse failure is logged and yields an empty sequence; callers
// treat that as a normal "no data" state.
func Load(ctx context.Context, source string, opts ...LoadOption) []LineRecord {
	cfg := loadConfig{logger: slog.Default(), client: http.DefaultClient}

	for _, opt := range opts {
		opt(&cfg)
	}

	result, err := LoadResult(ctx, source, opts...)
	if err != nil {
		cfg.logger.ErrorContext(ctx, "load change log", "source", source, "error", err)

		return []LineRecord{}
	}

	for _, skipped := range result.Skipped {
		cfg.logger.WarnContext(ctx, "skipping malformed change-log row",
			"source", source, "row", skipped.Row, "column", skipped.Column, "error", skipped.Err)
	}

	cfg.logger.DebugContext(ctx, "change log loaded",
		"source", source, "records", len(result.Records),
		"skipped", len(result.Skipped), "excluded", result.Excluded)

	return result.Records
}

// LoadResult is Load with the parse diagnostics and error exposed.
func LoadResult(ctx context.Context, source string, opts ...LoadOption) (Result, error) {
	cfg := loadConfig{logger: slog.Default(), client: http.DefaultClient}

	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "loclog.Load")
	defer span.End()

	span.SetAttributes(attribute.String("loclog.source", source))

	parser, err := NewParser(cfg.exclude...)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return Result{}, err
	}

	body, err := open(ctx, cfg.client, source)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return Result{}, err
	}
	defer body.Close()

	var reader io.Reader = body
	if cfg.maxSize > 0 {
		reader = &cappedReader{r: body, left: cfg.maxSize}
	}

	result, err := parser.Parse(reader)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return Result{}, fmt.Errorf("parse %s: %w", source, err)
	}

	span.SetAttributes(
		attribute.Int("loclog.records", len(result.Records)),
		attribute.Int("loclog.skipped", len(result.Skipped)),
	)

	return result, nil
}

// cappedReader fails once more than left bytes arrive, so an oversized log
// is rejected rather than parsed up to a cut row.
type cappedReader struct {
	r    io.Reader
	left int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.left < 0 {
		return 0, ErrLogTooLarge
	}

	if int64(len(p)) > c.left+1 {
		p = p[:c.left+1]
	}

	n, err := c.r.Read(p)
	c.left -= int64(n)

	if c.left < 0 {
		return 0, ErrLogTooLarge
	}

	return n, err
}

func open(ctx context.Context, client *http.Client, source string) (io.ReadCloser, error) {
	if !IsRemote(source) {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", source, err)
		}

		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", source, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()

		return nil, fmt.Errorf("fetch %s: %w: %s", source, ErrUnexpectedHTTP, resp.Status)
	}

	return resp.Body, nil
}

// IsRemote reports whether source is an http(s) URL rather than a path.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
