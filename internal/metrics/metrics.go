package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RPCRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tower",
		Name:      "rpc_requests_total",
		Help:      "Total daemon RPC calls by method and outcome.",
	}, []string{"method", "outcome"})

	RPCRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tower",
		Name:      "rpc_request_duration_seconds",
		Help:      "Daemon RPC round-trip duration in seconds, including a session renewal retry.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.3, 0.5, 1, 2, 5},
	}, []string{"method"})

	SessionRenewalsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tower",
		Name:      "session_renewals_total",
		Help:      "Total number of session tokens accepted from authorization conflicts.",
	})

	PollFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tower",
		Name:      "poll_failures_total",
		Help:      "Total failed poll attempts by resource.",
	}, []string{"resource"})

	TorrentsTracked = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tower",
		Name:      "torrents_tracked",
		Help:      "Number of torrents in the latest successful listing.",
	})

	DownloadSpeedBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tower",
		Name:      "download_speed_bytes",
		Help:      "Daemon aggregate download speed in bytes per second.",
	})

	UploadSpeedBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tower",
		Name:      "upload_speed_bytes",
		Help:      "Daemon aggregate upload speed in bytes per second.",
	})
)

// Outcome labels for RPCRequestsTotal.
const (
	OutcomeOK        = "ok"
	OutcomeTransport = "transport_error"
	OutcomeProtocol  = "protocol_error"
	OutcomeSession   = "session_exhausted"
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		RPCRequestsTotal,
		RPCRequestDuration,
		SessionRenewalsTotal,
		PollFailuresTotal,
		TorrentsTracked,
		DownloadSpeedBytes,
		UploadSpeedBytes,
	)
}
