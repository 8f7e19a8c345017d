// Package metrics exposes the dashboard's Prometheus collectors.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

type metrics struct {
	uploads        *prometheus.CounterVec
	rosterRows     prometheus.Histogram
	activeSessions prometheus.Gauge
	geoFetches     *prometheus.CounterVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		uploads: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "people",
			Name:      "uploads_total",
			Help:      "Total number of roster uploads by result.",
		}, []string{"result"}),
		rosterRows: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "people",
			Name:      "roster_rows",
			Help:      "Rows per successfully loaded roster.",
			Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 50000},
		}),
		activeSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "people",
			Name:      "active_sessions",
			Help:      "Sessions that have not expired, as of the last sweep.",
		}),
		geoFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "people",
			Name:      "geojson_fetch_total",
			Help:      "Upstream GeoJSON fetches by result.",
		}, []string{"result"}),
	}
})

func resultLabel(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// ObserveUpload records one upload attempt and, on success, its row count.
func ObserveUpload(rows int, err error) {
	m := metricsSingleton()
	m.uploads.WithLabelValues(resultLabel(err)).Inc()
	if err == nil {
		m.rosterRows.Observe(float64(rows))
	}
}

func SetActiveSessions(n int) {
	metricsSingleton().activeSessions.Set(float64(n))
}

func ObserveGeoFetch(err error) {
	metricsSingleton().geoFetches.WithLabelValues(resultLabel(err)).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	metricsSingleton()
	return promhttp.Handler()
}
