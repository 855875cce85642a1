package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	DropMalformed = "malformed"
	DropTooLong   = "too_long"
)

var (
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "birdroom_sessions_active",
		Help: "Room sessions currently in the active state.",
	})
	MessagesBroadcast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "birdroom_messages_broadcast_total",
		Help: "Accepted messages handed to fan-out.",
	})
	FramesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "birdroom_frames_dropped_total",
		Help: "Inbound frames rejected before fan-out.",
	}, []string{"reason"})
	Deliveries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "birdroom_deliveries_total",
		Help: "Outbound frames written to a transport. Never reset.",
	})
	DeliveryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "birdroom_delivery_failures_total",
		Help: "Per-recipient enqueue failures during fan-out.",
	})
	RelayPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "birdroom_relay_publish_failures_total",
		Help: "Messages the Redis relay failed to publish.",
	})
	Resets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "birdroom_resets_total",
		Help: "Admin resets performed.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
