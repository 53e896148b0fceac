package ws

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Connections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_connections",
			Help: "Currently open notification WebSocket connections",
		},
	)
	DroppedClients = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ws_dropped_clients_total",
			Help: "Clients dropped because their send buffer overflowed",
		},
	)
)

func init() {
	prometheus.MustRegister(Connections)
	prometheus.MustRegister(DroppedClients)
}
