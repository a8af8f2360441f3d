package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/denis333rus/censornet/internal/ai"
	"github.com/denis333rus/censornet/internal/domain/court"
	"github.com/denis333rus/censornet/internal/domain/enforcement"
	"github.com/denis333rus/censornet/internal/domain/nav"
	"github.com/denis333rus/censornet/internal/domain/negotiation"
	"github.com/denis333rus/censornet/internal/domain/site"
	"github.com/denis333rus/censornet/internal/domain/tab"
	"github.com/denis333rus/censornet/internal/infrastructure/logging"
	"github.com/denis333rus/censornet/internal/shared/types"
	"github.com/denis333rus/censornet/internal/shared/utils"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	store       *site.Store
	tabs        *tab.Manager
	nav         *nav.Controller
	enforcement *enforcement.Actions
	negotiation *negotiation.Engine
	court       *court.Court
	search      ai.SearchProvider
	logger      *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(
	store *site.Store,
	tabs *tab.Manager,
	navController *nav.Controller,
	actions *enforcement.Actions,
	engine *negotiation.Engine,
	appeals *court.Court,
	search ai.SearchProvider,
	logger *logging.Logger,
) *Handlers {
	return &Handlers{
		store:       store,
		tabs:        tabs,
		nav:         navController,
		enforcement: actions,
		negotiation: engine,
		court:       appeals,
		search:      search,
		logger:      logger,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Regulator Browser Service (Go)",
		"version": "0.3.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"tabs_open":    h.tabs.Len(),
		"sites_cached": h.store.Len(),
	})
}

// OpenTab opens a new tab, starting on the home page
func (h *Handlers) OpenTab(c *gin.Context) {
	t := h.tabs.Open()
	c.JSON(http.StatusOK, t.Snapshot())
}

// ListTabs lists all open tabs in creation order
func (h *Handlers) ListTabs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tabs":  h.tabs.List(),
		"count": h.tabs.Len(),
	})
}

// GetTab returns the current state of a tab
func (h *Handlers) GetTab(c *gin.Context) {
	t, ok := h.tab(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, t.Snapshot())
}

// CloseTab closes a tab, cancelling any in-flight load
func (h *Handlers) CloseTab(c *gin.Context) {
	tabID := c.Param("id")
	success := h.tabs.Close(tabID)

	c.JSON(http.StatusOK, gin.H{
		"success": success,
		"tab_id":  tabID,
	})
}

// Navigate points a tab at a URL and starts loading it
func (h *Handlers) Navigate(c *gin.Context) {
	t, ok := h.tab(c)
	if !ok {
		return
	}

	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	// The start page is a first-class navigation target, not a site URL.
	if req.URL != types.HomeURL {
		if err := utils.ValidateURL(req.URL); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	h.nav.Navigate(c.Request.Context(), t, req.URL)
	c.JSON(http.StatusOK, t.Snapshot())
}

// Back moves a tab one step back in its history
func (h *Handlers) Back(c *gin.Context) {
	t, ok := h.tab(c)
	if !ok {
		return
	}
	h.nav.Back(c.Request.Context(), t)
	c.JSON(http.StatusOK, t.Snapshot())
}

// Forward moves a tab one step forward in its history
func (h *Handlers) Forward(c *gin.Context) {
	t, ok := h.tab(c)
	if !ok {
		return
	}
	h.nav.Forward(c.Request.Context(), t)
	c.JSON(http.StatusOK, t.Snapshot())
}

// Reload reloads the tab's current page
func (h *Handlers) Reload(c *gin.Context) {
	t, ok := h.tab(c)
	if !ok {
		return
	}
	h.nav.Reload(c.Request.Context(), t)
	c.JSON(http.StatusOK, t.Snapshot())
}

// Links lists the outbound hyperlinks of the tab's current page, for
// click-to-navigate clients
func (h *Handlers) Links(c *gin.Context) {
	t, ok := h.tab(c)
	if !ok {
		return
	}

	links := []string{}
	if extracted := ai.ExtractLinks(t.Snapshot().Content); extracted != nil {
		links = extracted
	}
	c.JSON(http.StatusOK, gin.H{"links": links})
}

// Block blocks the site in the tab. The block may escalate to an
// appeal; the resulting status is returned.
func (h *Handlers) Block(c *gin.Context) {
	h.enforce(c, h.enforcement.Block)
}

// Throttle slows the site in the tab
func (h *Handlers) Throttle(c *gin.Context) {
	h.enforce(c, h.enforcement.Throttle)
}

// Restore lifts all measures from the site in the tab
func (h *Handlers) Restore(c *gin.Context) {
	h.enforce(c, h.enforcement.Restore)
}

func (h *Handlers) enforce(c *gin.Context, action func(ctx context.Context, t *tab.Tab) (types.Status, bool)) {
	t, ok := h.tab(c)
	if !ok {
		return
	}

	status, applied := action(c.Request.Context(), t)
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"error": "no site to act on"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"tab":    t.Snapshot(),
	})
}

// SendMessage sends a negotiation message to the site owner and
// returns the owner's reply
func (h *Handlers) SendMessage(c *gin.Context) {
	t, ok := h.tab(c)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateMessage(req.Text); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, applied := h.negotiation.SendMessage(c.Request.Context(), t, req.Text)
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"error": "no site to negotiate with"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reply": reply,
		"tab":   t.Snapshot(),
	})
}

// ListMessages returns the negotiation transcript for the tab's site
func (h *Handlers) ListMessages(c *gin.Context) {
	t, ok := h.tab(c)
	if !ok {
		return
	}

	url, onSite := t.SiteURL()
	if !onSite {
		c.JSON(http.StatusOK, gin.H{"messages": []types.Entry{}})
		return
	}

	messages := []types.Entry{}
	if rec, found := h.store.Get(url); found {
		messages = rec.Transcript
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// OpenCourt convenes an appeal hearing for the site in the tab
func (h *Handlers) OpenCourt(c *gin.Context) {
	t, ok := h.tab(c)
	if !ok {
		return
	}

	verdict, err := h.court.Open(c.Request.Context(), t)
	if err != nil {
		if errors.Is(err, court.ErrNotUnderAppeal) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, verdict)
}

// CloseCourt applies a verdict to the site under appeal
func (h *Handlers) CloseCourt(c *gin.Context) {
	t, ok := h.tab(c)
	if !ok {
		return
	}

	var req struct {
		Verdict types.Verdict `json:"verdict" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Verdict.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "verdict must be uphold or overturn"})
		return
	}

	status, applied := h.court.Close(c.Request.Context(), t, req.Verdict)
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"error": "site is not under appeal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"tab":    t.Snapshot(),
	})
}

// Search returns search results for a query. The provider fails
// closed: on error a fixed fallback list is returned.
func (h *Handlers) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if err := utils.ValidateQuery(query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.search.Search(c.Request.Context(), query)
	if err != nil {
		h.logger.Warn("Search provider unavailable, using fallback results",
			zap.String("query", query),
			zap.Error(err))
		results = ai.FallbackSearchResults()
	}
	if len(results) > ai.MaxSearchResults {
		results = results[:ai.MaxSearchResults]
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
	})
}

// ListSites returns every cached site record, sorted by URL
func (h *Handlers) ListSites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sites": h.store.All(),
		"count": h.store.Len(),
	})
}

// tab resolves the :id path parameter to an open tab
func (h *Handlers) tab(c *gin.Context) (*tab.Tab, bool) {
	t, ok := h.tabs.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "tab not found"})
		return nil, false
	}
	return t, true
}
