package court

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/denis333rus/censornet/internal/ai"
	"github.com/denis333rus/censornet/internal/domain/site"
	"github.com/denis333rus/censornet/internal/domain/tab"
	"github.com/denis333rus/censornet/internal/infrastructure/logging"
	"github.com/denis333rus/censornet/internal/infrastructure/monitoring"
	"github.com/denis333rus/censornet/internal/shared/types"
)

// ErrNotUnderAppeal is returned when a hearing is requested for a site
// whose block was never escalated.
var ErrNotUnderAppeal = errors.New("site is not under appeal")

// Resolver re-resolves a tab after a verdict lands.
type Resolver interface {
	Resolve(ctx context.Context, t *tab.Tab)
}

// Court runs appeal hearings for escalated blocks.
type Court struct {
	store       *site.Store
	tabs        *tab.Manager
	adjudicator ai.Adjudicator
	resolver    Resolver
	logger      *logging.Logger
	metrics     *monitoring.Metrics
}

// NewCourt creates a court over the given adjudicator.
func NewCourt(store *site.Store, tabs *tab.Manager, adjudicator ai.Adjudicator, resolver Resolver, logger *logging.Logger) *Court {
	return &Court{
		store:       store,
		tabs:        tabs,
		adjudicator: adjudicator,
		resolver:    resolver,
		logger:      logger,
	}
}

// WithMetrics attaches metrics collection.
func (c *Court) WithMetrics(metrics *monitoring.Metrics) *Court {
	c.metrics = metrics
	return c
}

// Open convenes a hearing for the site in the tab. The site must be
// under appeal. When the adjudicator cannot be reached the hearing
// still concludes, with the fallback verdict presented to the caller.
func (c *Court) Open(ctx context.Context, t *tab.Tab) (*types.CourtVerdict, error) {
	url, ok := t.SiteURL()
	if !ok {
		return nil, ErrNotUnderAppeal
	}
	rec, ok := c.store.Get(url)
	if !ok || rec.Status != types.StatusUnderAppeal {
		return nil, ErrNotUnderAppeal
	}

	content := rec.Content
	if content == "" {
		content = "(no archived copy of the site is available)"
	}

	verdict, err := c.adjudicator.Adjudicate(ctx, rec.Title, content, rec.Transcript)
	if err != nil {
		c.logger.Warn("Adjudicator unavailable, using fallback verdict",
			zap.String("url", url),
			zap.Error(err))
		if c.metrics != nil {
			c.metrics.RecordAICall("adjudicate", "fallback")
		}
		verdict = ai.FallbackVerdict()
	} else if c.metrics != nil {
		c.metrics.RecordAICall("adjudicate", "ok")
	}

	return verdict, nil
}

// Close applies a verdict to the tab's site: an upheld block becomes
// permanent, an overturned one restores the site.
func (c *Court) Close(ctx context.Context, t *tab.Tab, verdict types.Verdict) (types.Status, bool) {
	if !verdict.Valid() {
		return "", false
	}
	url, ok := t.SiteURL()
	if !ok {
		return "", false
	}
	rec, ok := c.store.Get(url)
	if !ok || rec.Status != types.StatusUnderAppeal {
		return "", false
	}

	status := types.StatusBlocked
	if verdict == types.VerdictOverturn {
		status = types.StatusNormal
	}

	rec = c.store.Upsert(url, site.Patch{Status: &status})
	t.SyncRecord(rec)
	c.tabs.Publish(t)

	c.logger.Info("Appeal concluded",
		zap.String("url", url),
		zap.String("verdict", string(verdict)),
		zap.String("status", string(status)))
	if c.metrics != nil {
		c.metrics.Verdicts.WithLabelValues(string(verdict)).Inc()
	}

	c.resolver.Resolve(ctx, t)
	return status, true
}
