package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	entriesCreated   metric.Int64Counter
	entriesValidated metric.Int64Counter
	postings         metric.Int64Counter
	reports          metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(protocol) {
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", protocol)
	}
}

// New builds the application instruments from the registered provider.
func New(provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter("zinari")

	entriesCreated, err := meter.Int64Counter("ledger_entries_created_total")
	if err != nil {
		return nil, err
	}
	entriesValidated, err := meter.Int64Counter("ledger_entries_validated_total")
	if err != nil {
		return nil, err
	}
	postings, err := meter.Int64Counter("posting_automation_total")
	if err != nil {
		return nil, err
	}
	reports, err := meter.Int64Counter("statement_computations_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		entriesCreated:   entriesCreated,
		entriesValidated: entriesValidated,
		postings:         postings,
		reports:          reports,
	}, nil
}

func (m *Metrics) RecordEntryCreated(ctx context.Context, sourceType string) {
	if m == nil {
		return
	}
	m.entriesCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("source_type", sourceType)))
}

func (m *Metrics) RecordEntryValidated(ctx context.Context) {
	if m == nil {
		return
	}
	m.entriesValidated.Add(ctx, 1)
}

func (m *Metrics) RecordPosting(ctx context.Context, flow string) {
	if m == nil {
		return
	}
	m.postings.Add(ctx, 1, metric.WithAttributes(attribute.String("flow", flow)))
}

func (m *Metrics) RecordReport(ctx context.Context, report string) {
	if m == nil {
		return
	}
	m.reports.Add(ctx, 1, metric.WithAttributes(attribute.String("report", report)))
}
