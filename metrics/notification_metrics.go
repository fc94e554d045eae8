package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Delivery result labels
const (
	DeliveryResultDelivered = "delivered"
	DeliveryResultExpired   = "expired"
	DeliveryResultTransient = "transient_error"
)

type NotificationMetricsCollector struct {
	DigestsSent         prometheus.Counter
	ImmediateAlertsSent prometheus.Counter
	Deliveries          *prometheus.CounterVec
	SubscriptionsPruned prometheus.Counter
}

var (
	notificationCollector     *NotificationMetricsCollector
	notificationCollectorOnce sync.Once
)

func getNotificationCollector() *NotificationMetricsCollector {
	notificationCollectorOnce.Do(func() {
		notificationCollector = &NotificationMetricsCollector{
			DigestsSent: promauto.NewCounter(prometheus.CounterOpts{
				Name: "calendario_digests_sent_total",
				Help: "The total number of daily digest notifications sent",
			}),
			ImmediateAlertsSent: promauto.NewCounter(prometheus.CounterOpts{
				Name: "calendario_immediate_alerts_sent_total",
				Help: "The total number of immediate alerts sent",
			}),
			Deliveries: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "calendario_push_deliveries_total",
					Help: "Per-device push delivery attempts by result",
				},
				[]string{"result"},
			),
			SubscriptionsPruned: promauto.NewCounter(prometheus.CounterOpts{
				Name: "calendario_push_subscriptions_pruned_total",
				Help: "The total number of expired push registrations removed",
			}),
		}
	})
	return notificationCollector
}

// NotificationMetrics records delivery outcomes for the notification subsystem
type NotificationMetrics struct {
	collector *NotificationMetricsCollector
}

func NewNotificationMetrics() *NotificationMetrics {
	return &NotificationMetrics{collector: getNotificationCollector()}
}

func (m *NotificationMetrics) RecordDigestSent() {
	m.collector.DigestsSent.Inc()
}

func (m *NotificationMetrics) RecordImmediateAlertSent() {
	m.collector.ImmediateAlertsSent.Inc()
}

func (m *NotificationMetrics) RecordDelivery(result string) {
	m.collector.Deliveries.WithLabelValues(result).Inc()
}

func (m *NotificationMetrics) RecordSubscriptionPruned() {
	m.collector.SubscriptionsPruned.Inc()
}
