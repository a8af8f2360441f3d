package negotiation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/denis333rus/censornet/internal/ai"
	"github.com/denis333rus/censornet/internal/domain/site"
	"github.com/denis333rus/censornet/internal/domain/tab"
	"github.com/denis333rus/censornet/internal/infrastructure/logging"
	"github.com/denis333rus/censornet/internal/infrastructure/monitoring"
	"github.com/denis333rus/censornet/internal/shared/types"
)

// Resolver re-resolves a tab's content after a status change.
type Resolver interface {
	Resolve(ctx context.Context, t *tab.Tab)
}

// Engine runs the chat with the simulated site owner. Both sides of an
// exchange are always persisted to the record, even when the owner's
// reply is a degraded connection-error fallback.
type Engine struct {
	store      *site.Store
	tabs       *tab.Manager
	negotiator ai.Negotiator
	resolver   Resolver
	logger     *logging.Logger
	metrics    *monitoring.Metrics
	clock      func() time.Time
}

// NewEngine creates a negotiation engine.
func NewEngine(store *site.Store, tabs *tab.Manager, negotiator ai.Negotiator, resolver Resolver, logger *logging.Logger) *Engine {
	return &Engine{
		store:      store,
		tabs:       tabs,
		negotiator: negotiator,
		resolver:   resolver,
		logger:     logger,
		clock:      time.Now,
	}
}

// WithMetrics adds metrics tracking.
func (e *Engine) WithMetrics(metrics *monitoring.Metrics) *Engine {
	e.metrics = metrics
	return e
}

// WithClock overrides the timestamp source. Used in tests.
func (e *Engine) WithClock(clock func() time.Time) *Engine {
	e.clock = clock
	return e
}

// SendMessage appends the regulator's message, obtains the owner's reply,
// and applies any content-removal agreement. Returns the owner entry, or
// false if the tab has no site to negotiate about.
func (e *Engine) SendMessage(ctx context.Context, t *tab.Tab, text string) (*types.Entry, bool) {
	url, ok := t.SiteURL()
	if !ok {
		return nil, false
	}

	// Optimistic append: the regulator's entry is visible before any
	// reply arrives.
	ask := types.Entry{Speaker: types.SpeakerRegulator, Text: text, Timestamp: e.clock()}
	rec := e.store.Upsert(url, site.Patch{AppendTranscript: []types.Entry{ask}})
	t.SyncRecord(rec)
	t.Mutate(func(t *tab.Tab) { t.ReplyPending = true })
	e.tabs.Publish(t)

	reply, err := e.negotiator.Negotiate(ctx, url, rec.Transcript)
	if err != nil {
		e.logger.Warn("Negotiation call failed, recording fallback reply",
			zap.String("url", url),
			zap.Error(err),
		)
		if e.metrics != nil {
			e.metrics.RecordAICall("negotiate", "fallback")
		}
		reply = ai.FallbackReply()
	} else if e.metrics != nil {
		e.metrics.RecordAICall("negotiate", "ok")
	}

	answer := types.Entry{Speaker: types.SpeakerOwner, Text: reply.Reply, Timestamp: e.clock()}
	patch := site.Patch{AppendTranscript: []types.Entry{answer}}
	if reply.AgreedToRemove {
		// The owner caved: content comes down and the cache is cleared so
		// the next view regenerates the removal scenario.
		removed := types.StatusContentRemoved
		empty := ""
		patch.Status = &removed
		patch.Content = &empty
	}
	rec = e.store.Upsert(url, patch)

	t.SyncRecord(rec)
	t.Mutate(func(t *tab.Tab) { t.ReplyPending = false })
	e.tabs.Publish(t)

	if reply.AgreedToRemove {
		e.resolver.Resolve(ctx, t)
	}
	return &answer, true
}
