package rabbitmq

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the consumer's instrumentation. Metric names are stable for
// scraping and dashboards.
type Metrics struct {
	Processed          prometheus.Counter
	Rejected           prometheus.Counter
	Requeued           prometheus.Counter
	ProcessingDuration prometheus.Histogram
}

// NewMetrics registers the consumer metrics against the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Processed: factory.NewCounter(prometheus.CounterOpts{
			Name: "messages_processed_total",
			Help: "Total number of messages processed",
		}),
		Rejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "messages_rejected_total",
			Help: "Total number of messages rejected",
		}),
		Requeued: factory.NewCounter(prometheus.CounterOpts{
			Name: "messages_requeued_total",
			Help: "Total number of messages requeued",
		}),
		ProcessingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "message_processing_duration_seconds",
			Help:    "Time taken to process a message",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
