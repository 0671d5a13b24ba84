// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "livecast"

var (
	Connections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connections",
		Help:      "Registered signaling connections.",
	})
	Rooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rooms",
		Help:      "Rooms held by the room directory.",
	})
	LiveBroadcasts = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_broadcasts",
		Help:      "Rooms with an armed countdown.",
	})
	PublicStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "public_streams",
		Help:      "Entries in the public stream directory.",
	})

	ChatMessages = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_messages_total",
		Help:      "Chat messages fanned out.",
	})
	SignalsRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signals_relayed_total",
		Help:      "Negotiation messages delivered to a target.",
	}, []string{"kind"})
	DroppedFrames = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dropped_frames_total",
		Help:      "Outbound frames refused by a full or closed connection.",
	})
	StreamsEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "streams_ended_total",
		Help:      "Broadcasts that reached the ended state.",
	}, []string{"reason"})
	MalformedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "malformed_requests_total",
		Help:      "Inbound messages rejected by validation.",
	}, []string{"type"})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
