// Package logging provides structured logging built on zap.
//
// All components receive a *Logger via constructor injection; tests pass
// NewNop(). Production output is JSON to stdout, development output is a
// colored console encoder.
package logging
