// Package nav implements the navigation controller: the state machine
// that decides what a tab displays for a URL given the site's cached
// content and enforcement status.
//
// Blocked sites short-circuit to a connection-reset fault without ever
// reaching content generation. Cached content is reused (with a longer
// simulated stall for throttled sites). Uncached URLs go to the content
// generator; concurrent generations for the same URL are collapsed into
// one flight. Completions are delivered through per-tab generation
// guards, so a navigation that has been superseded never repaints the
// tab.
package nav
