// Package types defines the core data model shared across the service:
// site records, censorship statuses, negotiation transcripts, search
// results, and court verdicts.
//
// A SiteRecord is the persisted per-URL cache entry. Tabs (see
// internal/domain/tab) hold a transient snapshot of a record's status and
// transcript that can drift from the store until explicitly refreshed.
package types
