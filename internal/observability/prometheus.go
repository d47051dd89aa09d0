package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Prometheus is a pull-based metrics pipeline: instruments created from
// Meter are served by Handler in the Prometheus exposition format.
type Prometheus struct {
	Handler http.Handler
	Meter   metric.Meter

	provider *sdkmetric.MeterProvider
}

// NewPrometheus creates an exporter with its own registry, so several
// instances never collide.
func NewPrometheus() (*Prometheus, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))

	return &Prometheus{
		Handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Meter:    provider.Meter(meterName),
		provider: provider,
	}, nil
}

// Shutdown releases the meter provider.
func (p *Prometheus) Shutdown(ctx context.Context) error {
	return p.provider.Shutdown(ctx)
}
