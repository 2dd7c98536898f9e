package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RelayMessages counts inbound messages dispatched through the relay,
// by message type (bounded label set; unknown types count as "other").
var RelayMessages = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "relay_messages_total",
	Help: "Messages dispatched through the websocket relay, by type.",
}, []string{"type"})

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// RegisterRelayStats publishes live room/connection gauges backed by
// the given stats func. Call once at startup.
func RegisterRelayStats(stats func() (rooms, conns int)) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "relay_active_rooms",
		Help: "Rooms with at least one live connection.",
	}, func() float64 {
		r, _ := stats()
		return float64(r)
	})
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "relay_active_connections",
		Help: "Live websocket connections across all rooms.",
	}, func() float64 {
		_, c := stats()
		return float64(c)
	})
}
