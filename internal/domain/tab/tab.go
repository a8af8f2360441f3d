package tab

import (
	"sync"

	"github.com/denis333rus/censornet/internal/shared/types"
)

// HomeTitle is the display title of the start page.
const HomeTitle = "Home"

// Tab is an in-memory browsing session. Status and Transcript are a
// snapshot of the corresponding site record taken at last sync; they can
// drift from the store until SyncRecord is called again.
//
// All exported fields are protected by mu; external packages mutate them
// through Apply and Mutate.
type Tab struct {
	mu sync.Mutex

	ID           string
	Title        string
	CurrentURL   string
	History      []string
	HistoryPos   int
	Loading      bool
	Fault        types.Fault
	Content      string
	Status       types.Status
	Transcript   []types.Entry
	ReplyPending bool

	// gen is the navigation generation counter. Every navigation (and a
	// tab close) bumps it; a delayed completion applies only if the
	// counter has not moved since it was scheduled.
	gen uint64
}

// State is a plain serializable snapshot of a tab.
type State struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	URL          string        `json:"url"`
	History      []string      `json:"history"`
	HistoryPos   int           `json:"history_position"`
	Loading      bool          `json:"loading"`
	Fault        types.Fault   `json:"fault,omitempty"`
	Content      string        `json:"content,omitempty"`
	Status       types.Status  `json:"status,omitempty"`
	Transcript   []types.Entry `json:"transcript,omitempty"`
	ReplyPending bool          `json:"reply_pending"`
}

// BeginNav marks the start of a navigation to url and returns the new
// generation. When push is set the URL is appended to history, first
// truncating any forward branch beyond the current position.
func (t *Tab) BeginNav(url string, push bool) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if push {
		t.pushHistory(url)
	}
	t.CurrentURL = url
	t.Loading = true
	t.Fault = ""
	t.Content = ""
	t.gen++
	return t.gen
}

// GoHome navigates to the start page. Terminal: no record lookup, no
// external call, and any pending completion is discarded.
func (t *Tab) GoHome(push bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if push {
		t.pushHistory(types.HomeURL)
	}
	t.CurrentURL = types.HomeURL
	t.Title = HomeTitle
	t.Loading = false
	t.Fault = ""
	t.Content = ""
	t.Status = ""
	t.Transcript = nil
	t.gen++
}

// pushHistory must be called with mu held.
func (t *Tab) pushHistory(url string) {
	if len(t.History) > 0 {
		t.History = t.History[:t.HistoryPos+1]
	}
	t.History = append(t.History, url)
	t.HistoryPos = len(t.History) - 1
}

// SyncRecord refreshes the tab's record snapshot (title, status,
// transcript) from rec.
func (t *Tab) SyncRecord(rec *types.SiteRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.syncRecordLocked(rec)
}

func (t *Tab) syncRecordLocked(rec *types.SiteRecord) {
	t.Title = rec.Title
	t.Status = rec.Status
	t.Transcript = make([]types.Entry, len(rec.Transcript))
	copy(t.Transcript, rec.Transcript)
}

// Apply runs fn under the tab lock if gen is still current, reporting
// whether it ran. fn must only touch fields, not call Tab methods.
func (t *Tab) Apply(gen uint64, fn func(*Tab)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen {
		return false
	}
	fn(t)
	return true
}

// Mutate runs fn under the tab lock unconditionally.
func (t *Tab) Mutate(fn func(*Tab)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t)
}

// Back moves one step back in history and returns the URL to resolve.
func (t *Tab) Back() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.HistoryPos <= 0 {
		return "", false
	}
	t.HistoryPos--
	return t.History[t.HistoryPos], true
}

// Forward moves one step forward in history and returns the URL to
// resolve.
func (t *Tab) Forward() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.HistoryPos >= len(t.History)-1 {
		return "", false
	}
	t.HistoryPos++
	return t.History[t.HistoryPos], true
}

// SiteURL returns the tab's current URL if it refers to a site (not the
// start page, not an empty fresh tab).
func (t *Tab) SiteURL() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.CurrentURL == "" || t.CurrentURL == types.HomeURL {
		return "", false
	}
	return t.CurrentURL, true
}

// CancelPending invalidates any scheduled completion for this tab.
func (t *Tab) CancelPending() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
}

// Gen returns the current navigation generation.
func (t *Tab) Gen() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

// Snapshot returns a copy of the tab's visible state.
func (t *Tab) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	history := make([]string, len(t.History))
	copy(history, t.History)
	transcript := make([]types.Entry, len(t.Transcript))
	copy(transcript, t.Transcript)

	return State{
		ID:           t.ID,
		Title:        t.Title,
		URL:          t.CurrentURL,
		History:      history,
		HistoryPos:   t.HistoryPos,
		Loading:      t.Loading,
		Fault:        t.Fault,
		Content:      t.Content,
		Status:       t.Status,
		Transcript:   transcript,
		ReplyPending: t.ReplyPending,
	}
}
