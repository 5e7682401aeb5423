package githubclt

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/simplesurance/ghactivity/internal/logfields"
)

const metricNamespace = "ghactivity_client"

const (
	requestsMetricName  = "requests_total"
	pageItemsMetricName = "page_items_total"
)

const (
	resourceLabel   = "resource"
	statusCodeLabel = "status_code"
)

type metricCollector struct {
	logger    *zap.Logger
	requests  *prometheus.CounterVec
	pageItems *prometheus.CounterVec
}

var metrics = newMetricCollector()

func newMetricCollector() *metricCollector {
	return &metricCollector{
		logger: zap.L().Named(loggerName).Named("metrics"),
		requests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      requestsMetricName,
				Help:      "count of github api requests, status_code is 0 if no response was received",
			},
			[]string{resourceLabel, statusCodeLabel},
		),
		pageItems: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      pageItemsMetricName,
				Help:      "count of items received in list responses",
			},
			[]string{resourceLabel},
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

func (m *metricCollector) RequestsInc(resource string, statusCode int) {
	cnt, err := m.requests.GetMetricWith(prometheus.Labels{
		resourceLabel:   resource,
		statusCodeLabel: strconv.Itoa(statusCode),
	})
	if err != nil {
		m.logGetMetricFailed(requestsMetricName, err)
		return
	}

	cnt.Inc()
}

func (m *metricCollector) PageItemsAdd(resource string, cnt int) {
	c, err := m.pageItems.GetMetricWith(prometheus.Labels{resourceLabel: resource})
	if err != nil {
		m.logGetMetricFailed(pageItemsMetricName, err)
		return
	}

	c.Add(float64(cnt))
}
