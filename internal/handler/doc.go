// Package handler implements the server's HTTP handlers: the welcome page,
// the hello JSON greeting and the not-found fallback. It also provides the
// middleware that gives each request an id and a request-scoped logger and
// reports completed requests to the metrics collector.
package handler
