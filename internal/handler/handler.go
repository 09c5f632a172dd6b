package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/angeloszaimis/hello-server/pkg/logger"
)

const (
	RootBody     = `<h1>Welcome to the Go HTTP Server!</h1><p><a href="/hello">Say Hello</a></p>`
	NotFoundBody = `<h2>404 Not Found</h2><p>Sorry, the page you are looking for does not exist.</p>`
	HelloMessage = "Hello, World from Go!"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json"
)

// HelloResponse is the body served by Hello.
type HelloResponse struct {
	Message string `json:"message"`
}

// Handlers serves the static endpoints. Each handler emits exactly one log
// record, through the request-scoped logger when the request carries one.
type Handlers struct {
	logger *slog.Logger
}

func New(log *slog.Logger) *Handlers {
	return &Handlers{logger: log}
}

func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context(), h.logger).Debug("serving root path response")

	writeHTML(w, http.StatusOK, RootBody)
}

func (h *Handlers) Hello(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context(), h.logger).Info("serving hello world response")

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(HelloResponse{Message: HelloMessage})
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context(), h.logger).Warn("resource not found",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))

	writeHTML(w, http.StatusNotFound, NotFoundBody)
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
