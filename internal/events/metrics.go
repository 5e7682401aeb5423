package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/simplesurance/ghactivity/internal/logfields"
)

const metricNamespace = "ghactivity_events"

const (
	droppedPayloadsMetricName = "dropped_payloads_total"
	decodedPayloadsMetricName = "decoded_payloads_total"
)

const eventTypeLabel = "event_type"

type metricCollector struct {
	logger          *zap.Logger
	droppedPayloads *prometheus.CounterVec
	decodedPayloads *prometheus.CounterVec
}

var metrics = newMetricCollector()

func newMetricCollector() *metricCollector {
	return &metricCollector{
		logger: zap.L().Named(loggerName).Named("metrics"),
		droppedPayloads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      droppedPayloadsMetricName,
				Help:      "count of event payloads that were discarded because the event type is not supported",
			},
			[]string{eventTypeLabel},
		),
		decodedPayloads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      decodedPayloadsMetricName,
				Help:      "count of successfully decoded event payloads",
			},
			[]string{eventTypeLabel},
		),
	}
}

func (m *metricCollector) logGetMetricFailed(metricName string, err error) {
	m.logger.Warn(
		"could not record metric",
		zap.String("metric", metricName),
		logfields.Event("recording_metric_failed"),
		zap.Error(err),
	)
}

func (m *metricCollector) DroppedPayloadsInc(rawEventType string) {
	cnt, err := m.droppedPayloads.GetMetricWith(prometheus.Labels{eventTypeLabel: rawEventType})
	if err != nil {
		m.logGetMetricFailed(droppedPayloadsMetricName, err)
		return
	}

	cnt.Inc()
}

func (m *metricCollector) DecodedPayloadsInc(t EventType) {
	cnt, err := m.decodedPayloads.GetMetricWith(prometheus.Labels{eventTypeLabel: t.String()})
	if err != nil {
		m.logGetMetricFailed(decodedPayloadsMetricName, err)
		return
	}

	cnt.Inc()
}
