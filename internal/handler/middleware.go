package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angeloszaimis/hello-server/internal/metrics"
	"github.com/angeloszaimis/hello-server/internal/router"
	"github.com/angeloszaimis/hello-server/pkg/logger"
)

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger attaches a request id and a logger carrying it to every
// request. A well-formed incoming X-Request-Id is reused, otherwise a new
// UUID is generated. It writes no records itself.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := requestIDFrom(r)
			w.Header().Set(RequestIDHeader, requestID)

			log := base.With(slog.String("request_id", requestID))
			next.ServeHTTP(w, r.WithContext(logger.NewContext(r.Context(), log)))
		})
	}
}

func requestIDFrom(r *http.Request) string {
	if id, err := uuid.Parse(r.Header.Get(RequestIDHeader)); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// Metrics reports every completed request to events, labelled with the name
// of the route that served it. Events are dropped when the channel is full.
func Metrics(events chan<- metrics.Event, routes []router.Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			emitEvent(events, metrics.Event{
				Route:      router.RouteName(r, routes),
				Method:     r.Method,
				StatusCode: wrapped.statusCode,
				Duration:   time.Since(start),
				Timestamp:  start,
			})
		})
	}
}

func emitEvent(events chan<- metrics.Event, event metrics.Event) {
	if events == nil {
		return
	}

	select {
	case events <- event:
	default:
	}
}
