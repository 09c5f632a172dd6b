// Package metrics collects per-route request metrics for the server.
//
// Request middleware sends an Event for every completed request over a
// buffered channel; a single collector goroutine folds the events into:
//   - request counts per route
//   - HTTP status code distribution per route
//   - response time average and percentiles (P50, P95, P99)
//
// Sends are non-blocking, so a full buffer drops events instead of slowing
// down the request path. The collector drains pending events on shutdown.
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.EventChannel() <- metrics.Event{
//		Route:      "hello",
//		StatusCode: 200,
//		Duration:   150 * time.Microsecond,
//	}
//
//	snapshot := collector.Snapshot()
//
// Snapshots are served as JSON by Collector.Handler.
package metrics
