package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denis333rus/censornet/internal/shared/types"
)

func newFakeService(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestGeneratePageSanitizesBody(t *testing.T) {
	client := newFakeService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/page", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://gamehub.example/", req["url"])
		assert.Equal(t, "gaming", req["category"])

		json.NewEncoder(w).Encode(map[string]string{
			"title": "Game Hub",
			"html":  `<h1>Game Hub</h1><script>evil()</script><a href="https://gamehub.example/top">Top 10</a>`,
		})
	})

	page, err := client.GeneratePage(context.Background(), "https://gamehub.example/", "gamehub.example", false)
	require.NoError(t, err)
	assert.Equal(t, "Game Hub", page.Title)
	assert.NotContains(t, page.HTML, "<script")
	assert.Len(t, ExtractLinks(page.HTML), 1)
}

func TestGeneratePageEmptyBodyIsError(t *testing.T) {
	client := newFakeService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"title": "x", "html": ""})
	})

	_, err := client.GeneratePage(context.Background(), "https://a.example/", "a", false)
	assert.Error(t, err)
}

func TestSearchTruncatesToLimit(t *testing.T) {
	client := newFakeService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/search", r.URL.Path)
		results := make([]types.SearchResult, 8)
		for i := range results {
			results[i] = types.SearchResult{Title: "t", URL: "https://x.example"}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"results": results})
	})

	results, err := client.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Len(t, results, MaxSearchResults)
}

func TestNegotiateCarriesTranscript(t *testing.T) {
	client := newFakeService(t, func(w http.ResponseWriter, r *http.Request) {
		var req negotiateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Transcript, 2)
		assert.Equal(t, types.SpeakerRegulator, req.Transcript[0].Speaker)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"reply":            "Fine, we will take it down.",
			"agreed_to_remove": true,
		})
	})

	reply, err := client.Negotiate(context.Background(), "https://a.example/", []types.Entry{
		{Speaker: types.SpeakerRegulator, Text: "remove it"},
		{Speaker: types.SpeakerOwner, Text: "why"},
	})
	require.NoError(t, err)
	assert.True(t, reply.AgreedToRemove)
}

func TestAdjudicateRejectsUnknownVerdict(t *testing.T) {
	client := newFakeService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"verdict": "shrug"})
	})

	_, err := client.Adjudicate(context.Background(), "Title", "<p>c</p>", nil)
	assert.Error(t, err)
}

func TestServerErrorSurfaces(t *testing.T) {
	client := newFakeService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	_, err := client.Search(context.Background(), "q")
	assert.Error(t, err)
}
