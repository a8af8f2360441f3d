package site

import "github.com/denis333rus/censornet/internal/shared/types"

// MemoryBackend keeps records in memory only. Used in tests and for
// ephemeral runs.
type MemoryBackend struct {
	snapshot map[string]*types.SiteRecord
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Load returns the last flushed snapshot, or an empty map.
func (b *MemoryBackend) Load() (map[string]*types.SiteRecord, error) {
	if b.snapshot == nil {
		return make(map[string]*types.SiteRecord), nil
	}
	return b.snapshot, nil
}

// Flush retains the snapshot.
func (b *MemoryBackend) Flush(records map[string]*types.SiteRecord) error {
	b.snapshot = records
	return nil
}

// Close is a no-op.
func (b *MemoryBackend) Close() error { return nil }
