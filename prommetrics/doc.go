// Package prommetrics exports clustering metrics to Prometheus.
//
//	collector := prommetrics.New(prometheus.DefaultRegisterer)
//	q := quantize.New(quantize.WithMetricsCollector(collector))
//	http.Handle("/metrics", promhttp.Handler())
package prommetrics
