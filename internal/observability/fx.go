package observability

import (
	"github.com/zinari/zinari/internal/config"
	"github.com/zinari/zinari/internal/observability/metrics"
	"go.uber.org/fx"
)

func newMetricsConfig(cfg config.Config) metrics.Config {
	return metrics.Config{
		Enabled:          cfg.MetricsOn,
		ExporterEndpoint: cfg.OTLPEndpoint,
		ExporterProtocol: cfg.OTLPProtocol,
		ServiceName:      cfg.AppName,
	}
}

var Module = fx.Module("observability",
	fx.Provide(newMetricsConfig),
	fx.Provide(metrics.NewProvider),
	fx.Provide(metrics.New),
)
