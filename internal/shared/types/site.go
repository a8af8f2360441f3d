package types

import "time"

// HomeURL is the distinguished start-page URL. It never resolves to a
// SiteRecord and never reaches content generation.
const HomeURL = "about:home"

// Status represents a site's enforcement status
type Status string

const (
	StatusNormal         Status = "normal"
	StatusSlowed         Status = "slowed"
	StatusBlocked        Status = "blocked"
	StatusContentRemoved Status = "content_removed"
	StatusUnderAppeal    Status = "under_appeal"
)

// Valid reports whether s is a known status value
func (s Status) Valid() bool {
	switch s {
	case StatusNormal, StatusSlowed, StatusBlocked, StatusContentRemoved, StatusUnderAppeal:
		return true
	}
	return false
}

// Speaker identifies the author of a transcript entry
type Speaker string

const (
	SpeakerRegulator Speaker = "regulator"
	SpeakerOwner     Speaker = "owner"
)

// Entry is a single negotiation transcript message. Entries are immutable
// once appended; insertion order is significant because the transcript is
// replayed verbatim to the negotiation and adjudication collaborators.
type Entry struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// SiteRecord is the persisted per-URL cache entry. Content is empty until
// the first successful generation; Status and Content are the only fields
// subject to later overwrite.
type SiteRecord struct {
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Content      string    `json:"content,omitempty"`
	Status       Status    `json:"status"`
	Transcript   []Entry   `json:"transcript,omitempty"`
	LastAccessed time.Time `json:"last_accessed"`
}

// HasContent reports whether a generated body is cached
func (r *SiteRecord) HasContent() bool {
	return r.Content != ""
}

// Clone returns a deep copy safe to hand outside the store
func (r *SiteRecord) Clone() *SiteRecord {
	cp := *r
	if r.Transcript != nil {
		cp.Transcript = make([]Entry, len(r.Transcript))
		copy(cp.Transcript, r.Transcript)
	}
	return &cp
}

// Fault is a tab-level load failure code
type Fault string

const (
	// FaultConnectionReset is the deliberate policy effect shown for
	// blocked sites, not a real error.
	FaultConnectionReset Fault = "connection_reset"
	// FaultGeneration covers content-generation failures; the record is
	// left untouched and a manual reload retries from scratch.
	FaultGeneration Fault = "generation_failed"
)

// SearchResult is a transient search hit; never persisted
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}
