// Package monitoring provides Prometheus metrics for HTTP traffic,
// navigation outcomes, enforcement actions, and collaborator calls.
//
// Each Metrics instance owns its registry, so tests can create them
// freely without collector registration conflicts.
package monitoring
