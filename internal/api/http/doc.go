// Package http provides the gin HTTP handlers for the regulator
// browser API: tab lifecycle, navigation, enforcement actions,
// negotiation, appeal hearings, search, and the site registry view.
package http
