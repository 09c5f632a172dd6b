// Package config loads the server configuration from defaults, an optional
// YAML file and environment variables. It covers the listen address, the
// deployment environment, the log filter expression and the optional metrics
// listener, and can watch the file to pick up log filter changes.
package config
