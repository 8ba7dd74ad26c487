package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Trading metrics
	tradesMirrored = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirror_bot_trades_mirrored_total",
			Help: "Total number of mirrored trades executed",
		},
		[]string{"side"},
	)

	mirroredSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mirror_bot_trade_size_usd",
			Help:    "Distribution of mirrored trade sizes in USD",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// Pipeline metrics
	pipelineErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirror_bot_errors_total",
			Help: "Total number of pipeline errors by stage",
		},
		[]string{"stage"},
	)

	riskRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirror_bot_risk_rejections_total",
			Help: "Total number of trades rejected by risk checks",
		},
		[]string{"reason"},
	)

	breakerTripped = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mirror_bot_circuit_breaker_tripped",
			Help: "Whether the circuit breaker is currently tripped (0 or 1)",
		},
	)

	dailyVolume = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mirror_bot_daily_volume_usd",
			Help: "USD volume mirrored since the last daily reset",
		},
	)

	queueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mirror_bot_queue_depth",
			Help: "Number of trade events waiting in the shared queue",
		},
	)

	// Transport metrics
	watcherReconnects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirror_bot_watcher_reconnects_total",
			Help: "Total number of websocket reconnects per tracked wallet",
		},
		[]string{"wallet"},
	)
)

func init() {
	prometheus.MustRegister(tradesMirrored)
	prometheus.MustRegister(mirroredSize)
	prometheus.MustRegister(pipelineErrors)
	prometheus.MustRegister(riskRejections)
	prometheus.MustRegister(breakerTripped)
	prometheus.MustRegister(dailyVolume)
	prometheus.MustRegister(queueDepth)
	prometheus.MustRegister(watcherReconnects)
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordMirroredTrade records a successfully executed mirror trade
func RecordMirroredTrade(side string, sizeUSD float64) {
	tradesMirrored.WithLabelValues(side).Inc()
	mirroredSize.Observe(sizeUSD)
}

// RecordPipelineError counts a failure at the given pipeline stage
func RecordPipelineError(stage string) {
	pipelineErrors.WithLabelValues(stage).Inc()
}

// RecordRiskRejection counts a governance rejection by reason
func RecordRiskRejection(reason string) {
	riskRejections.WithLabelValues(reason).Inc()
}

// SetBreakerTripped updates the circuit breaker gauge
func SetBreakerTripped(tripped bool) {
	if tripped {
		breakerTripped.Set(1)
	} else {
		breakerTripped.Set(0)
	}
}

// SetDailyVolume updates the daily volume gauge
func SetDailyVolume(volumeUSD float64) {
	dailyVolume.Set(volumeUSD)
}

// SetQueueDepth updates the shared queue depth gauge
func SetQueueDepth(depth int) {
	queueDepth.Set(float64(depth))
}

// RecordWatcherReconnect counts a websocket reconnect for a wallet
func RecordWatcherReconnect(wallet string) {
	watcherReconnects.WithLabelValues(wallet).Inc()
}
