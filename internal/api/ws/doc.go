// Package ws streams tab-state snapshots to clients over WebSocket.
// Navigation is asynchronous: page loads, faults, and enforcement
// effects land after the HTTP response, and this stream is how a
// client sees them.
package ws
