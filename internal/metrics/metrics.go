// Package metrics exposes Prometheus counters for press and print activity.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Press results, used as the "result" label.
const (
	ResultAccepted  = "accepted"
	ResultCooldown  = "cooldown"
	ResultShortHold = "short_hold"
)

var (
	pressesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oracle_presses_total",
		Help: "Raw button signals by acceptance result.",
	}, []string{"result"})

	printsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oracle_prints_total",
		Help: "Print dispatches by backend and success.",
	}, []string{"method", "success"})
)

// Press counts one raw signal with its acceptance result.
func Press(result string) {
	pressesTotal.WithLabelValues(result).Inc()
}

// Print counts one dispatch outcome. An empty method (total failure) is
// recorded as "none".
func Print(method string, success bool) {
	if method == "" {
		method = "none"
	}
	printsTotal.WithLabelValues(method, strconv.FormatBool(success)).Inc()
}

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
