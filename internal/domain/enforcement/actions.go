package enforcement

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

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

// Actions implements the regulator's enforcement operations. Every action
// requires an active non-home tab and silently no-ops otherwise; each one
// updates the site record, refreshes the tab snapshot, and re-resolves
// the tab so the effect is immediately visible.
type Actions struct {
	store    *site.Store
	tabs     *tab.Manager
	resolver Resolver
	logger   *logging.Logger
	metrics  *monitoring.Metrics

	mu           sync.Mutex
	rng          *rand.Rand // Protected by mu
	appealChance float64
}

// NewActions creates the enforcement action set. A zero seed means
// time-seeded randomness.
func NewActions(store *site.Store, tabs *tab.Manager, resolver Resolver, appealChance float64, seed int64, logger *logging.Logger) *Actions {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Actions{
		store:        store,
		tabs:         tabs,
		resolver:     resolver,
		rng:          rand.New(rand.NewSource(seed)),
		appealChance: appealChance,
		logger:       logger,
	}
}

// WithMetrics adds metrics tracking.
func (a *Actions) WithMetrics(metrics *monitoring.Metrics) *Actions {
	a.metrics = metrics
	return a
}

// Block blocks the site the tab is viewing. With the configured
// probability the owner files an emergency appeal instead, escalating the
// site to under-appeal rather than blocked. Returns the resulting status
// and whether the action applied.
func (a *Actions) Block(ctx context.Context, t *tab.Tab) (types.Status, bool) {
	// Guard before rolling: a no-op Block must not advance the seeded
	// escalation sequence.
	if _, ok := t.SiteURL(); !ok {
		return "", false
	}
	outcome := types.StatusBlocked
	if a.roll() < a.appealChance {
		outcome = types.StatusUnderAppeal
	}
	return a.apply(ctx, t, "block", outcome)
}

// Throttle marks the site slowed; subsequent loads use the long delay.
func (a *Actions) Throttle(ctx context.Context, t *tab.Tab) (types.Status, bool) {
	return a.apply(ctx, t, "throttle", types.StatusSlowed)
}

// Restore lifts all enforcement from the site.
func (a *Actions) Restore(ctx context.Context, t *tab.Tab) (types.Status, bool) {
	return a.apply(ctx, t, "restore", types.StatusNormal)
}

func (a *Actions) apply(ctx context.Context, t *tab.Tab, action string, status types.Status) (types.Status, bool) {
	url, ok := t.SiteURL()
	if !ok {
		return "", false
	}

	rec := a.store.Upsert(url, site.Patch{Status: &status})
	t.SyncRecord(rec)
	a.tabs.Publish(t)
	a.resolver.Resolve(ctx, t)

	a.logger.Info("Enforcement action applied",
		zap.String("action", action),
		zap.String("url", url),
		zap.String("status", string(status)),
	)
	if a.metrics != nil {
		a.metrics.Enforcements.WithLabelValues(action, string(status)).Inc()
	}
	return status, true
}

func (a *Actions) roll() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.Float64()
}
