// Package httpserver wraps net/http's server with a bind step that is
// separate from serving, so callers can report bind failures and the bound
// address before accepting requests.
package httpserver
