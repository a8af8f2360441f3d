package site

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/denis333rus/censornet/internal/infrastructure/logging"
	"github.com/denis333rus/censornet/internal/shared/types"
)

// Backend persists the full URL-to-record mapping. The store rewrites the
// snapshot in full after every mutation; there is no incremental format.
type Backend interface {
	Load() (map[string]*types.SiteRecord, error)
	Flush(records map[string]*types.SiteRecord) error
	Close() error
}

// Patch is a partial site record update. Nil fields are left untouched;
// the merge is a field-level overwrite, never a full-record replace, so an
// in-flight generation completion cannot clobber a concurrent status
// change. AppendTranscript entries are appended in order.
type Patch struct {
	Title            *string
	Content          *string
	Status           *types.Status
	AppendTranscript []types.Entry
}

// Store is the site record repository: a mutable in-memory map flushed to
// a pluggable backend after each mutation. Records are created lazily with
// defaults on first upsert and are never deleted.
type Store struct {
	mu      sync.RWMutex
	records map[string]*types.SiteRecord
	backend Backend
	logger  *logging.Logger
	clock   func() time.Time
}

// NewStore creates a store and loads any persisted snapshot.
func NewStore(backend Backend, logger *logging.Logger) (*Store, error) {
	records, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load site records: %w", err)
	}
	if records == nil {
		records = make(map[string]*types.SiteRecord)
	}
	return &Store{
		records: records,
		backend: backend,
		logger:  logger,
		clock:   time.Now,
	}, nil
}

// WithClock overrides the timestamp source. Used in tests.
func (s *Store) WithClock(clock func() time.Time) *Store {
	s.clock = clock
	return s
}

// Get retrieves a record copy by URL, refreshing its last-access time.
// The refresh is a mutation, so the snapshot is flushed like any other.
func (s *Store) Get(url string) (*types.SiteRecord, bool) {
	s.mu.Lock()

	rec, ok := s.records[url]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	rec.LastAccessed = s.clock()
	out := rec.Clone()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.backend.Flush(snapshot); err != nil {
		s.logger.Error("Failed to flush site records", zap.Error(err), zap.String("url", url))
	}
	return out, true
}

// Upsert merges the patch into the record for url, creating one with
// defaults if absent, and returns a copy of the merged record. The full
// snapshot is flushed to the backend before returning.
func (s *Store) Upsert(url string, patch Patch) *types.SiteRecord {
	s.mu.Lock()

	rec, ok := s.records[url]
	if !ok {
		rec = &types.SiteRecord{
			URL:    url,
			Status: types.StatusNormal,
		}
		s.records[url] = rec
	}

	if patch.Title != nil {
		rec.Title = *patch.Title
	}
	if patch.Content != nil {
		rec.Content = *patch.Content
	}
	if patch.Status != nil {
		rec.Status = *patch.Status
	}
	if len(patch.AppendTranscript) > 0 {
		rec.Transcript = append(rec.Transcript, patch.AppendTranscript...)
	}
	rec.LastAccessed = s.clock()

	merged := rec.Clone()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.backend.Flush(snapshot); err != nil {
		s.logger.Error("Failed to flush site records", zap.Error(err), zap.String("url", url))
	}

	return merged
}

// All returns copies of every record, ordered by URL.
func (s *Store) All() []*types.SiteRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*types.SiteRecord, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec.Clone())
	}
	sort.Slice(records, func(i, j int) bool { return records[i].URL < records[j].URL })
	return records
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close flushes nothing further and releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// snapshotLocked deep-copies the record map; must be called with mu held.
func (s *Store) snapshotLocked() map[string]*types.SiteRecord {
	snapshot := make(map[string]*types.SiteRecord, len(s.records))
	for url, rec := range s.records {
		snapshot[url] = rec.Clone()
	}
	return snapshot
}
