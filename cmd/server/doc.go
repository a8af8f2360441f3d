// Package main is the entry point for the regulator browser service.
//
// This application serves a simulated national intranet: every site a
// tab visits is produced on demand by an AI collaborator service, and
// the regulator's measures (throttling, blocks, negotiated removals,
// court appeals) are applied to the simulated sites.
//
// Architecture:
//
//	UI (out of scope) → Go Service → AI Collaborator (HTTP/JSON)
//	                              → Site Store (file or sqlite)
//
// The server provides:
//   - REST API for tabs, navigation, and enforcement
//   - WebSocket streaming of tab-state snapshots
//   - Persistent site registry with negotiation transcripts
//   - Rate limiting and metrics
//
// Configuration:
//   - Environment variables (12-factor), .env supported
//   - Optional YAML overlay via -config
//
// Usage:
//
//	./server
//	./server -config config.yaml
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown, flushing the site store
package main
