package nav

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/denis333rus/censornet/internal/ai"
	"github.com/denis333rus/censornet/internal/domain/site"
	"github.com/denis333rus/censornet/internal/domain/tab"
	"github.com/denis333rus/censornet/internal/infrastructure/logging"
	"github.com/denis333rus/censornet/internal/infrastructure/monitoring"
	"github.com/denis333rus/censornet/internal/shared/types"
)

// Delays tunes the simulated network stalls.
type Delays struct {
	Normal  time.Duration
	Slowed  time.Duration
	Blocked time.Duration
}

// Controller resolves a requested URL against the site record store and
// the site's enforcement status, driving the tab through loading, fault,
// and content states.
type Controller struct {
	store     *site.Store
	tabs      *tab.Manager
	generator ai.ContentGenerator
	delays    Delays
	timeout   time.Duration
	group     singleflight.Group
	logger    *logging.Logger
	metrics   *monitoring.Metrics
}

// NewController creates a navigation controller.
func NewController(store *site.Store, tabs *tab.Manager, generator ai.ContentGenerator, delays Delays, logger *logging.Logger) *Controller {
	return &Controller{
		store:     store,
		tabs:      tabs,
		generator: generator,
		delays:    delays,
		timeout:   60 * time.Second,
		logger:    logger,
	}
}

// WithMetrics adds metrics tracking to the controller.
func (c *Controller) WithMetrics(metrics *monitoring.Metrics) *Controller {
	c.metrics = metrics
	return c
}

// WithGenerationTimeout overrides the content-generation deadline.
func (c *Controller) WithGenerationTimeout(d time.Duration) *Controller {
	c.timeout = d
	return c
}

// Navigate resolves url in the given tab, pushing a history entry.
func (c *Controller) Navigate(ctx context.Context, t *tab.Tab, rawURL string) {
	c.resolve(ctx, t, rawURL, true)
}

// Back steps one history entry back and re-resolves it. No-op at the
// start of history.
func (c *Controller) Back(ctx context.Context, t *tab.Tab) {
	if url, ok := t.Back(); ok {
		c.resolve(ctx, t, url, false)
	}
}

// Forward steps one history entry forward and re-resolves it. No-op at
// the end of history.
func (c *Controller) Forward(ctx context.Context, t *tab.Tab) {
	if url, ok := t.Forward(); ok {
		c.resolve(ctx, t, url, false)
	}
}

// Reload re-resolves the tab's current URL. Cached content is still
// reused; reload exists to retry after an error, not to bypass the
// cache.
func (c *Controller) Reload(ctx context.Context, t *tab.Tab) {
	c.Resolve(ctx, t)
}

// Resolve re-runs the status branch for the tab's current URL without
// touching history. Enforcement, negotiation and the court use it so a
// status change is immediately reflected in what the tab shows.
func (c *Controller) Resolve(ctx context.Context, t *tab.Tab) {
	current := t.Snapshot().URL
	if current == "" {
		return
	}
	c.resolve(ctx, t, current, false)
}

func (c *Controller) resolve(ctx context.Context, t *tab.Tab, rawURL string, push bool) {
	if rawURL == types.HomeURL {
		t.GoHome(push)
		c.tabs.Publish(t)
		c.countNav("home")
		return
	}

	rec, ok := c.store.Get(rawURL)
	if !ok {
		title := deriveTitle(rawURL)
		rec = c.store.Upsert(rawURL, site.Patch{Title: &title})
	}

	gen := t.BeginNav(rawURL, push)
	t.SyncRecord(rec)
	c.tabs.Publish(t)

	switch {
	case rec.Status == types.StatusBlocked:
		// A blocked site never reaches content generation.
		c.schedule(t, gen, c.delays.Blocked, func(t *tab.Tab) {
			t.Loading = false
			t.Fault = types.FaultConnectionReset
		})
		c.countNav("blocked")

	case rec.HasContent():
		content := rec.Content
		c.schedule(t, gen, c.loadDelay(rec.Status), func(t *tab.Tab) {
			t.Loading = false
			t.Content = content
		})
		c.countNav("cached")

	default:
		// Generation continues even if the caller's request returns
		// first; the result lands on the tab via its generation guard.
		go c.generate(t, gen, rec)
	}
}

func (c *Controller) generate(t *tab.Tab, gen uint64, rec *types.SiteRecord) {
	pageURL := rec.URL
	start := time.Now()

	v, err, _ := c.group.Do(pageURL, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		return c.generator.GeneratePage(ctx, pageURL, rec.Title, rec.Status == types.StatusContentRemoved)
	})

	if c.metrics != nil {
		c.metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		c.logger.Warn("Content generation failed",
			zap.String("url", pageURL),
			zap.Error(err),
		)
		c.countNav("failed")
		// The record is left untouched; reload retries from scratch.
		c.schedule(t, gen, 0, func(t *tab.Tab) {
			t.Loading = false
			t.Fault = types.FaultGeneration
		})
		return
	}

	page := v.(*ai.GeneratedPage)
	patch := site.Patch{Content: &page.HTML}
	if page.Title != "" {
		patch.Title = &page.Title
	}
	// Generation clears stale enforcement state, except for the removed
	// scenario which stays removed until explicitly restored.
	if rec.Status != types.StatusContentRemoved {
		normal := types.StatusNormal
		patch.Status = &normal
	}
	updated := c.store.Upsert(pageURL, patch)
	c.countNav("generated")

	c.schedule(t, gen, c.loadDelay(rec.Status), func(t *tab.Tab) {
		t.Loading = false
		t.Content = updated.Content
		t.Title = updated.Title
		t.Status = updated.Status
	})
}

// schedule queues a delayed completion guarded by the tab's navigation
// generation: if the tab navigated or closed in the meantime, the
// completion is discarded instead of landing stale state.
func (c *Controller) schedule(t *tab.Tab, gen uint64, d time.Duration, fn func(*tab.Tab)) {
	time.AfterFunc(d, func() {
		if t.Apply(gen, fn) {
			c.tabs.Publish(t)
		}
	})
}

func (c *Controller) loadDelay(status types.Status) time.Duration {
	if status == types.StatusSlowed {
		return c.delays.Slowed
	}
	return c.delays.Normal
}

func (c *Controller) countNav(outcome string) {
	if c.metrics != nil {
		c.metrics.Navigations.WithLabelValues(outcome).Inc()
		c.metrics.SitesCached.Set(float64(c.store.Len()))
	}
}

// deriveTitle produces a default display name from the URL hostname.
func deriveTitle(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}
