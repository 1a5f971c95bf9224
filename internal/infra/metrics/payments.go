package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		initiationsTotal,
		callbacksTotal,
		gatewayLatencyMs,
		confirmedRevenueTotal,
	)
}

var (
	initiationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_initiations_total",
			Help: "Payment initiations by outcome (accepted/rejected/transport_error/invalid).",
		},
		[]string{"outcome"},
	)

	callbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_callbacks_total",
			Help: "Gateway callbacks by outcome (confirmed/received/duplicate/signature_mismatch).",
		},
		[]string{"outcome"},
	)

	gatewayLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wave_gateway_latency_ms",
			Help:    "Outbound gateway call latency distribution in milliseconds.",
			Buckets: []float64{25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
	)

	confirmedRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_confirmed_revenue_total",
			Help: "Total confirmed payment amount, labeled by currency.",
		},
		[]string{"currency"},
	)
)

func IncInitiation(outcome string) {
	initiationsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncCallback(outcome string) {
	callbacksTotal.WithLabelValues(norm(outcome)).Inc()
}

func ObserveGatewayLatency(ms float64) {
	gatewayLatencyMs.Observe(ms)
}

func AddConfirmedRevenue(currency string, amount int64) {
	confirmedRevenueTotal.WithLabelValues(norm(currency)).Add(float64(amount))
}
