// Package server provides HTTP server setup and initialization.
//
// This package orchestrates all components:
//   - HTTP routing with Gin framework
//   - Middleware stack (CORS, rate limiting, recovery, metrics)
//   - Site store backend selection (file, sqlite, memory)
//   - AI collaborator client
//   - Domain wiring (navigation, enforcement, negotiation, court)
//
// Server Lifecycle:
//  1. Load configuration from environment and optional YAML overlay
//  2. Initialize logger (production or development)
//  3. Open the site store backend
//  4. Wire domain components around the tab manager
//  5. Setup HTTP routes, WebSocket stream, and middleware
//  6. Start HTTP server
//  7. Graceful shutdown on signal, flushing the store
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.New(cfg, logger)
//	if err := srv.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
package server
