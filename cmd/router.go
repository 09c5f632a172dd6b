package main

import (
	"log/slog"
	"net/http"

	"github.com/angeloszaimis/hello-server/internal/handler"
	"github.com/angeloszaimis/hello-server/internal/metrics"
	"github.com/angeloszaimis/hello-server/internal/router"
	"github.com/angeloszaimis/hello-server/pkg/logger"
)

func setupRouter(log *slog.Logger, collector *metrics.Collector) (*router.Table, error) {
	handlerLog := logger.Component(log, "handler")
	h := handler.New(handlerLog)

	routes := []router.Route{
		{Method: http.MethodGet, Path: "/", Name: "root", Handler: h.Root},
		{Method: http.MethodGet, Path: "/hello", Name: "hello", Handler: h.Hello},
	}

	var events chan<- metrics.Event
	if collector != nil {
		events = collector.EventChannel()
	}

	return router.New(routes, h.NotFound,
		handler.RequestLogger(handlerLog),
		handler.Metrics(events, routes),
	)
}

func setupAdminRouter(collector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /metrics", collector.Handler())

	return mux
}
