package track

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/LerianStudio/lib-sharedref/sharedref/log"
)

// meterName is the instrumentation scope for all lib-sharedref instruments.
const meterName = "github.com/LerianStudio/lib-sharedref"

// Metric describes one instrument.
type Metric struct {
	Name        string
	Description string
	Unit        string
}

// Instruments published by the registry.
var (
	// MetricGroupsConstructed counts every group ever constructed.
	MetricGroupsConstructed = Metric{
		Name:        "sharedref_groups_constructed_total",
		Unit:        "1",
		Description: "Total number of shared ownership groups constructed.",
	}

	// MetricGroupsFinalized counts every group fully torn down.
	MetricGroupsFinalized = Metric{
		Name:        "sharedref_groups_finalized_total",
		Unit:        "1",
		Description: "Total number of shared ownership groups finalized.",
	}

	// MetricGroupsLive tracks the number of currently live groups.
	MetricGroupsLive = Metric{
		Name:        "sharedref_groups_live",
		Unit:        "1",
		Description: "Number of shared ownership groups currently alive.",
	}
)

// attrPayloadType labels construction counts with the payload's Go type.
// Payload types are program constants, so cardinality stays bounded.
const attrPayloadType = "payload_type"

// Metrics records group lifecycle instruments. Instruments that failed to
// build are skipped at record time, so a partially working meter degrades
// instead of breaking tracking.
type Metrics struct {
	constructed metric.Int64Counter
	finalized   metric.Int64Counter
	live        metric.Int64UpDownCounter
}

// NewMetrics builds the instrument set against the given provider. A nil
// provider means the global OpenTelemetry meter provider. Instrument
// creation failures are logged and leave that instrument disabled.
func NewMetrics(provider metric.MeterProvider, logger log.Logger) *Metrics {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}

	if logger == nil {
		logger = log.NewNop()
	}

	meter := provider.Meter(meterName)
	built := &Metrics{}

	var err error

	built.constructed, err = meter.Int64Counter(
		MetricGroupsConstructed.Name,
		metric.WithDescription(MetricGroupsConstructed.Description),
		metric.WithUnit(MetricGroupsConstructed.Unit),
	)
	if err != nil {
		logger.Log(context.Background(), log.LevelError, "failed to create counter metric",
			log.String("metric_name", MetricGroupsConstructed.Name), log.Err(err))
	}

	built.finalized, err = meter.Int64Counter(
		MetricGroupsFinalized.Name,
		metric.WithDescription(MetricGroupsFinalized.Description),
		metric.WithUnit(MetricGroupsFinalized.Unit),
	)
	if err != nil {
		logger.Log(context.Background(), log.LevelError, "failed to create counter metric",
			log.String("metric_name", MetricGroupsFinalized.Name), log.Err(err))
	}

	built.live, err = meter.Int64UpDownCounter(
		MetricGroupsLive.Name,
		metric.WithDescription(MetricGroupsLive.Description),
		metric.WithUnit(MetricGroupsLive.Unit),
	)
	if err != nil {
		logger.Log(context.Background(), log.LevelError, "failed to create updown counter metric",
			log.String("metric_name", MetricGroupsLive.Name), log.Err(err))
	}

	return built
}

// NewNopMetrics returns metrics backed by OpenTelemetry's no-op meter. It is
// safe for use as a fallback when a real meter is unavailable.
func NewNopMetrics() *Metrics {
	return NewMetrics(noop.NewMeterProvider(), log.NewNop())
}

// RecordConstructed counts one new group. An empty payloadType omits the
// type attribute.
func (m *Metrics) RecordConstructed(ctx context.Context, payloadType string) {
	if m == nil {
		return
	}

	if m.constructed != nil {
		if payloadType != "" {
			m.constructed.Add(ctx, 1, metric.WithAttributes(attribute.String(attrPayloadType, payloadType)))
		} else {
			m.constructed.Add(ctx, 1)
		}
	}

	if m.live != nil {
		m.live.Add(ctx, 1)
	}
}

// RecordFinalized counts one torn-down group.
func (m *Metrics) RecordFinalized(ctx context.Context) {
	if m == nil {
		return
	}

	if m.finalized != nil {
		m.finalized.Add(ctx, 1)
	}

	if m.live != nil {
		m.live.Add(ctx, -1)
	}
}
