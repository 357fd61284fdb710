// Package metrics exposes prometheus counters for the trading loop.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "quant_decisions_total", Help: "Trade decisions produced, by instrument and action"},
		[]string{"instrument", "action"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "quant_orders_total", Help: "Orders submitted, by instrument and side"},
		[]string{"instrument", "side"},
	)
	OrderFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "quant_order_failures_total", Help: "Order submissions that returned no confirmation"},
		[]string{"instrument"},
	)
	EvalFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "quant_eval_failures_total", Help: "Per-instrument evaluation failures caught by the scheduler"},
		[]string{"instrument"},
	)
)

func init() {
	prometheus.MustRegister(DecisionsTotal, OrdersTotal, OrderFailures, EvalFailures)
}

// Serve starts a /metrics endpoint on addr in the background and returns the
// server so the caller can shut it down.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
