// Package telemetry holds the instruments the server reports through. Both metrics and
// logs go through the globally installed OpenTelemetry providers, which are no-op unless
// the binary installs real ones.
package telemetry

import (
	"context"
	"log/slog"

	"github.com/indigo-web/flint/http/status"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const Name = "github.com/indigo-web/flint"

// Logger returns the structured logger bridged into the OpenTelemetry logs pipeline.
func Logger() *slog.Logger {
	return otelslog.NewLogger(Name)
}

// Metrics is a set of server-wide instruments. Attribute sets are pre-built for every
// known status code, so recording doesn't allocate.
type Metrics struct {
	requests    metric.Int64Counter
	written     metric.Int64Counter
	parseErrors metric.Int64Counter
	conns       metric.Int64UpDownCounter
	byCode      map[status.Code]metric.MeasurementOption
}

// NewMetrics creates instruments from the meter. A nil meter means the global one.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(Name)
	}

	requests, err := meter.Int64Counter("flint.requests",
		metric.WithDescription("Number of responses sent, by status code"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	written, err := meter.Int64Counter("flint.written",
		metric.WithDescription("Number of bytes transmitted, headers included"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, err
	}

	parseErrors, err := meter.Int64Counter("flint.parse_errors",
		metric.WithDescription("Number of requests refused while parsing, by status code"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	conns, err := meter.Int64UpDownCounter("flint.connections",
		metric.WithDescription("Number of open connections"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}

	byCode := make(map[status.Code]metric.MeasurementOption, len(status.KnownCodes))
	for _, code := range status.KnownCodes {
		byCode[code] = metric.WithAttributeSet(attribute.NewSet(
			attribute.Int("http.response.status_code", int(code)),
		))
	}

	return &Metrics{
		requests:    requests,
		written:     written,
		parseErrors: parseErrors,
		conns:       conns,
		byCode:      byCode,
	}, nil
}

// Served records a transmitted response.
func (m *Metrics) Served(ctx context.Context, code status.Code, n int64) {
	m.requests.Add(ctx, 1, m.attrs(code))
	m.written.Add(ctx, n)
}

// ParseError records a request refused by the parser.
func (m *Metrics) ParseError(ctx context.Context, code status.Code) {
	m.parseErrors.Add(ctx, 1, m.attrs(code))
}

func (m *Metrics) ConnOpened(ctx context.Context) {
	m.conns.Add(ctx, 1)
}

func (m *Metrics) ConnClosed(ctx context.Context) {
	m.conns.Add(ctx, -1)
}

func (m *Metrics) attrs(code status.Code) metric.MeasurementOption {
	if opt, found := m.byCode[code]; found {
		return opt
	}

	return m.byCode[status.InternalServerError]
}
