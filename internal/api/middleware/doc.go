// Package middleware provides gin middleware shared across the API:
// CORS for the browser UI and per-IP rate limiting.
package middleware
