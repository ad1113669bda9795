package datastore

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var datastoreHistogram = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "datastore_latency",
		Help:    "Latency to access the datastore.",
		Buckets: prometheus.LinearBuckets(0.01, 0.05, 10),
	},
	[]string{"tag", "action"},
)

// Instrument times one datastore operation:
//
//	defer Instrument("add_file", handler.Tag())()
func Instrument(action, tag string) func() time.Duration {
	if tag == "" {
		tag = "Generic"
	}

	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		datastoreHistogram.WithLabelValues(tag, action).Observe(v)
	}))

	return timer.ObserveDuration
}
