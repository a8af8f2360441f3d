package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/denis333rus/censornet/internal/infrastructure/resilience"
	"github.com/denis333rus/censornet/internal/shared/types"
)

// Client talks to the external generative service over HTTP/JSON. All
// calls go through a circuit breaker; retries happen at the transport
// level. Callers decide what fallback to apply on failure.
type Client struct {
	resty   *resty.Client
	breaker *resilience.Breaker
}

// NewClient creates a generative-service client for the given base
// address.
func NewClient(addr string, timeout time.Duration) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	rc := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(addr).
		SetTimeout(timeout).
		SetHeader("User-Agent", "censornet/1.0")

	return &Client{
		resty: rc,
		breaker: resilience.New("generative-service", resilience.Settings{
			FailureThreshold: 5,
			Cooldown:         30 * time.Second,
		}),
	}
}

type pageRequest struct {
	URL            string   `json:"url"`
	Title          string   `json:"title"`
	Category       Category `json:"category"`
	ContentRemoved bool     `json:"content_removed"`
}

type pageResponse struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// GeneratePage implements ContentGenerator. The returned markup is
// sanitized before it is handed back.
func (c *Client) GeneratePage(ctx context.Context, pageURL, title string, contentRemoved bool) (*GeneratedPage, error) {
	var out pageResponse
	err := c.post(ctx, "/v1/page", pageRequest{
		URL:            pageURL,
		Title:          title,
		Category:       Categorize(pageURL),
		ContentRemoved: contentRemoved,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("page generation failed: %w", err)
	}
	if out.HTML == "" {
		return nil, fmt.Errorf("page generation returned an empty body for %s", pageURL)
	}

	html := SanitizeHTML(out.HTML)
	pageTitle := out.Title
	if pageTitle == "" {
		pageTitle = ExtractTitle(html)
	}
	if pageTitle == "" {
		pageTitle = title
	}
	return &GeneratedPage{Title: pageTitle, HTML: html}, nil
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type searchResponse struct {
	Results []types.SearchResult `json:"results"`
}

// Search implements SearchProvider.
func (c *Client) Search(ctx context.Context, query string) ([]types.SearchResult, error) {
	var out searchResponse
	if err := c.post(ctx, "/v1/search", searchRequest{Query: query, Limit: MaxSearchResults}, &out); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if len(out.Results) > MaxSearchResults {
		out.Results = out.Results[:MaxSearchResults]
	}
	return out.Results, nil
}

type negotiateRequest struct {
	URL        string        `json:"url"`
	Transcript []types.Entry `json:"transcript"`
}

type negotiateResponse struct {
	Reply          string `json:"reply"`
	AgreedToRemove bool   `json:"agreed_to_remove"`
}

// Negotiate implements Negotiator.
func (c *Client) Negotiate(ctx context.Context, siteURL string, transcript []types.Entry) (*NegotiationReply, error) {
	var out negotiateResponse
	if err := c.post(ctx, "/v1/negotiate", negotiateRequest{URL: siteURL, Transcript: transcript}, &out); err != nil {
		return nil, fmt.Errorf("negotiation failed: %w", err)
	}
	if out.Reply == "" {
		return nil, fmt.Errorf("negotiation returned an empty reply for %s", siteURL)
	}
	return &NegotiationReply{Reply: out.Reply, AgreedToRemove: out.AgreedToRemove}, nil
}

type adjudicateRequest struct {
	Title      string        `json:"title"`
	Content    string        `json:"content"`
	Transcript []types.Entry `json:"transcript"`
}

// Adjudicate implements Adjudicator.
func (c *Client) Adjudicate(ctx context.Context, title, content string, transcript []types.Entry) (*types.CourtVerdict, error) {
	var out types.CourtVerdict
	err := c.post(ctx, "/v1/adjudicate", adjudicateRequest{
		Title:      title,
		Content:    content,
		Transcript: transcript,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("adjudication failed: %w", err)
	}
	if !out.Verdict.Valid() {
		return nil, fmt.Errorf("adjudication returned unknown verdict %q", out.Verdict)
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.breaker.Do(func() error {
		resp, err := c.resty.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(out).
			Post(path)
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("generative service returned %s", resp.Status())
		}
		return nil
	})
}
