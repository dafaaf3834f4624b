// Package metric provides a Prometheus metrics registry and HTTP server.
//
// MetricsRegistry wraps a private prometheus.Registry (with Go runtime and process
// collectors attached) and tracks component metrics by "component.metric" key so
// that duplicate registrations surface as classified errors instead of panics.
// Buffers register their counters and gauges here when built with
// buffer.WithMetrics.
//
// Server exposes the registry over HTTP:
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(":9090", "/metrics", registry)
//
//	go func() {
//	    if err := server.Start(); err != nil {
//	        logger.Error("metrics server failed", "error", err)
//	    }
//	}()
//	defer server.Stop(context.Background())
//
// Endpoints:
//   - /metrics: Prometheus exposition (OpenMetrics negotiated)
//   - /health: returns 200 "OK"
//   - /: index page linking both
package metric
