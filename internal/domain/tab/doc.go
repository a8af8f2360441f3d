// Package tab manages browser tabs: ephemeral navigation sessions with
// their own history stack and a transient snapshot of the site record
// they are viewing.
//
// Tabs live only in memory and are discarded when closed. Each tab
// carries a navigation generation counter; delayed load completions carry
// the generation they were scheduled under and are silently discarded if
// the tab has navigated (or closed) since, so stale content never lands.
package tab
