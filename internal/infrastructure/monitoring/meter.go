package monitoring

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MeterProvider exports OpenTelemetry instruments through a Prometheus
// registry, next to the native collectors
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
}

// NewMeterProvider installs a meter provider reading into reg as the
// global one
func NewMeterProvider(reg prometheus.Registerer) (*MeterProvider, error) {
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	return &MeterProvider{provider: provider}, nil
}

// Shutdown stops the provider
func (m *MeterProvider) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}
