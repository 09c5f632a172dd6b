// Package router holds the server's route table: an immutable, exact-match
// mapping from (method, path) to a handler plus one fallback handler for
// everything else. The table is compiled once into a chi mux.
package router
