package ai

import (
	"context"
	"net/url"
	"strings"

	"github.com/denis333rus/censornet/internal/shared/types"
)

// Category buckets a URL for content generation; the generator uses it to
// pick a page scenario.
type Category string

const (
	CategoryGaming  Category = "gaming"
	CategoryNews    Category = "news"
	CategoryGeneric Category = "generic"
)

// GeneratedPage is a successful content-generation result: renderable
// markup containing hyperlinks for in-page navigation.
type GeneratedPage struct {
	Title string
	HTML  string
}

// NegotiationReply is the site owner's response to a regulator message.
type NegotiationReply struct {
	Reply          string
	AgreedToRemove bool
}

// ContentGenerator produces a page body for a URL. The contentRemoved
// flag requests the "content voluntarily removed" scenario.
type ContentGenerator interface {
	GeneratePage(ctx context.Context, pageURL, title string, contentRemoved bool) (*GeneratedPage, error)
}

// SearchProvider returns up to five results for a query.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]types.SearchResult, error)
}

// Negotiator simulates the site owner's side of a negotiation. The full
// transcript, including the regulator's newest entry, is replayed on
// every call.
type Negotiator interface {
	Negotiate(ctx context.Context, siteURL string, transcript []types.Entry) (*NegotiationReply, error)
}

// Adjudicator simulates the court ruling on an appealed block.
type Adjudicator interface {
	Adjudicate(ctx context.Context, title, content string, transcript []types.Entry) (*types.CourtVerdict, error)
}

var (
	gamingWords = []string{"game", "play", "store", "shop", "arcade", "steam"}
	newsWords   = []string{"news", "daily", "times", "post", "social", "forum", "blog", "chat"}
)

// Categorize buckets a URL by hostname keywords.
func Categorize(rawURL string) Category {
	host := rawURL
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Host != "" {
		host = parsed.Host
	}
	host = strings.ToLower(host)

	for _, w := range gamingWords {
		if strings.Contains(host, w) {
			return CategoryGaming
		}
	}
	for _, w := range newsWords {
		if strings.Contains(host, w) {
			return CategoryNews
		}
	}
	return CategoryGeneric
}
