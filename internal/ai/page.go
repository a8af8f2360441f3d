package ai

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// pagePolicy allows the markup the generator is expected to emit: basic
// formatting plus anchors, so in-page navigation keeps working. Scripts
// and event handlers never survive.
var pagePolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.RequireNoFollowOnLinks(false)
	return p
}()

// SanitizeHTML strips scripts, event handlers and unexpected markup from
// a generated page body.
func SanitizeHTML(raw string) string {
	return pagePolicy.Sanitize(raw)
}

// ExtractTitle pulls a display title out of generated markup: the first
// <title> if present, otherwise the first heading. Returns "" when
// neither exists.
func ExtractTitle(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("h1, h2").First().Text())
}

// ExtractLinks returns the href targets of all anchors in the markup.
func ExtractLinks(raw string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil
	}
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" && !strings.HasPrefix(href, "#") {
			links = append(links, href)
		}
	})
	return links
}
