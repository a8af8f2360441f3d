package site

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/denis333rus/censornet/internal/infrastructure/logging"
	"github.com/denis333rus/censornet/internal/shared/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(NewMemoryBackend(), logging.NewNop())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s
}

func strPtr(s string) *string { return &s }

func statusPtr(s types.Status) *types.Status { return &s }

func TestUpsertCreatesWithDefaults(t *testing.T) {
	s := newTestStore(t)

	rec := s.Upsert("https://example.com/", Patch{Title: strPtr("example.com")})

	if rec.Status != types.StatusNormal {
		t.Errorf("Expected normal status, got %s", rec.Status)
	}
	if rec.HasContent() {
		t.Error("New record should have no content")
	}
	if len(rec.Transcript) != 0 {
		t.Error("New record should have an empty transcript")
	}
	if rec.LastAccessed.IsZero() {
		t.Error("LastAccessed should be set")
	}
}

func TestUpsertMergesPerField(t *testing.T) {
	s := newTestStore(t)
	url := "https://example.com/"

	s.Upsert(url, Patch{Title: strPtr("example.com")})
	s.Upsert(url, Patch{Content: strPtr("<p>Hello</p>")})
	s.Upsert(url, Patch{Status: statusPtr(types.StatusSlowed)})

	rec, ok := s.Get(url)
	if !ok {
		t.Fatal("Record should exist")
	}
	if rec.Title != "example.com" {
		t.Errorf("Title clobbered: %q", rec.Title)
	}
	if rec.Content != "<p>Hello</p>" {
		t.Errorf("Content clobbered: %q", rec.Content)
	}
	if rec.Status != types.StatusSlowed {
		t.Errorf("Status not applied: %s", rec.Status)
	}
}

func TestUpsertInterleavedWritersDoNotClobber(t *testing.T) {
	// A pending generation completion (content write) must not undo a
	// status change that landed while it was in flight, and vice versa.
	s := newTestStore(t)
	url := "https://example.com/"

	s.Upsert(url, Patch{Status: statusPtr(types.StatusBlocked)})
	s.Upsert(url, Patch{Content: strPtr("<p>late generation</p>")})

	rec, _ := s.Get(url)
	if rec.Status != types.StatusBlocked {
		t.Errorf("Status lost to content write: %s", rec.Status)
	}
	if rec.Content != "<p>late generation</p>" {
		t.Errorf("Content lost: %q", rec.Content)
	}
}

func TestTranscriptAppendOnly(t *testing.T) {
	s := newTestStore(t)
	url := "https://example.com/"
	now := time.Now()

	s.Upsert(url, Patch{AppendTranscript: []types.Entry{
		{Speaker: types.SpeakerRegulator, Text: "remove it", Timestamp: now},
	}})
	s.Upsert(url, Patch{AppendTranscript: []types.Entry{
		{Speaker: types.SpeakerOwner, Text: "no", Timestamp: now.Add(time.Second)},
	}})

	rec, _ := s.Get(url)
	if len(rec.Transcript) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(rec.Transcript))
	}
	if rec.Transcript[0].Speaker != types.SpeakerRegulator || rec.Transcript[1].Speaker != types.SpeakerOwner {
		t.Error("Transcript order not preserved")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := newTestStore(t)
	url := "https://example.com/"
	s.Upsert(url, Patch{Title: strPtr("a"), AppendTranscript: []types.Entry{{Speaker: types.SpeakerRegulator, Text: "x"}}})

	rec, _ := s.Get(url)
	rec.Title = "mutated"
	rec.Transcript[0].Text = "mutated"

	fresh, _ := s.Get(url)
	if fresh.Title != "a" || fresh.Transcript[0].Text != "x" {
		t.Error("Get should return an isolated copy")
	}
}

func TestGetRefreshesLastAccessed(t *testing.T) {
	s := newTestStore(t)
	now := time.Unix(1000, 0)
	s.WithClock(func() time.Time { return now })

	url := "https://example.com/"
	s.Upsert(url, Patch{})

	now = now.Add(time.Hour)
	rec, _ := s.Get(url)
	if !rec.LastAccessed.Equal(now) {
		t.Errorf("Expected last access %v, got %v", now, rec.LastAccessed)
	}
}

func TestGetPersistsLastAccessed(t *testing.T) {
	backend := NewMemoryBackend()
	s, err := NewStore(backend, logging.NewNop())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	now := time.Unix(1000, 0)
	s.WithClock(func() time.Time { return now })

	url := "https://example.com/"
	s.Upsert(url, Patch{})

	// A read-only access must reach the backend, not just memory.
	now = now.Add(time.Hour)
	s.Get(url)

	persisted, err := backend.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !persisted[url].LastAccessed.Equal(now) {
		t.Errorf("Expected persisted last access %v, got %v", now, persisted[url].LastAccessed)
	}
}

func TestFileBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.json.gz")
	backend, err := NewFileBackend(path)
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}

	s, err := NewStore(backend, logging.NewNop())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	s.Upsert("https://example.com/", Patch{
		Title:   strPtr("example.com"),
		Content: strPtr("<p>cached</p>"),
		Status:  statusPtr(types.StatusSlowed),
	})

	reopened, err := NewStore(backend, logging.NewNop())
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	rec, ok := reopened.Get("https://example.com/")
	if !ok {
		t.Fatal("Record should survive a reload")
	}
	if rec.Content != "<p>cached</p>" || rec.Status != types.StatusSlowed {
		t.Errorf("Record not restored: %+v", rec)
	}
}

func TestSQLiteBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.db")
	backend, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("NewSQLiteBackend failed: %v", err)
	}
	defer backend.Close()

	s, err := NewStore(backend, logging.NewNop())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	s.Upsert("https://one.example/", Patch{Title: strPtr("one")})
	s.Upsert("https://two.example/", Patch{
		Status: statusPtr(types.StatusBlocked),
		AppendTranscript: []types.Entry{
			{Speaker: types.SpeakerRegulator, Text: "blocked you"},
		},
	})

	records, err := backend.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records["https://two.example/"].Status != types.StatusBlocked {
		t.Error("Status not persisted")
	}
	if len(records["https://two.example/"].Transcript) != 1 {
		t.Error("Transcript not persisted")
	}
}

func TestAllSortedByURL(t *testing.T) {
	s := newTestStore(t)
	s.Upsert("https://b.example/", Patch{})
	s.Upsert("https://a.example/", Patch{})

	all := s.All()
	if len(all) != 2 || all[0].URL != "https://a.example/" {
		t.Errorf("Expected sorted records, got %+v", all)
	}
}
