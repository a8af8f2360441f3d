// Package site implements the site record store: the durable mapping from
// canonical URL to cached site data (title, generated content, enforcement
// status, negotiation transcript).
//
// Records are created lazily with defaults on first upsert and never
// deleted. Upserts merge at field level (last-writer-wins per field, not
// per record), so a late generation completion cannot clobber a status
// change that landed while it was pending.
//
// Persistence is pluggable: a gzip-compressed JSON file rewritten in full
// after every mutation, an embedded SQLite database, or an in-memory
// backend for tests.
package site
