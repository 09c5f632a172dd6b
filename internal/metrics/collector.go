package metrics

import (
	"context"
	"log/slog"
	"time"
)

// Event describes one completed request.
type Event struct {
	Route      string
	Method     string
	StatusCode int
	Duration   time.Duration
	Timestamp  time.Time
}

type Collector struct {
	eventCh chan Event
	metrics *Metrics
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan Event, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

func (c *Collector) EventChannel() chan<- Event {
	return c.eventCh
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Debug("metrics collector started")
	defer c.logger.Debug("metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.metrics.RecordRequest(event.Route, event.Duration, event.StatusCode)
		case <-ctx.Done():
			c.drain()
			return
		}
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.metrics.RecordRequest(event.Route, event.Duration, event.StatusCode)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}
