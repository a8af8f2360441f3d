// Package enforcement implements the regulator's actions against a site:
// block (with a chance of escalating to an emergency appeal), throttle,
// and restore. Actions are idempotent at the status level but always
// re-resolve the viewing tab, so a freshly blocked site immediately shows
// the connection-reset fault.
package enforcement
