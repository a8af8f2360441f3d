package ai

import "github.com/denis333rus/censornet/internal/shared/types"

// MaxSearchResults caps search output.
const MaxSearchResults = 5

// defaultSearchResults is the fixed list served when the search
// collaborator fails. Deliberately bland official-looking destinations.
var defaultSearchResults = []types.SearchResult{
	{
		Title:   "Citizen Portal",
		URL:     "https://portal.gov.example",
		Snippet: "Official services for approved citizens. All forms now available in triplicate.",
	},
	{
		Title:   "Approved Evening News",
		URL:     "https://news.example",
		Snippet: "Everything is fine. Read more inside.",
	},
	{
		Title:   "Weather Service",
		URL:     "https://weather.example",
		Snippet: "Tomorrow: officially sunny.",
	},
}

// FallbackSearchResults returns a copy of the fixed fallback result list.
func FallbackSearchResults() []types.SearchResult {
	out := make([]types.SearchResult, len(defaultSearchResults))
	copy(out, defaultSearchResults)
	return out
}

// SetFallbackSearchResults replaces the fixed fallback list. Called
// once at startup when the config overlay declares its own list.
func SetFallbackSearchResults(results []types.SearchResult) {
	if len(results) == 0 {
		return
	}
	defaultSearchResults = results
}

// FallbackReply is the owner reply recorded when the negotiation
// collaborator is unreachable.
func FallbackReply() *NegotiationReply {
	return &NegotiationReply{
		Reply:          "[connection error: the site owner could not be reached]",
		AgreedToRemove: false,
	}
}

// FallbackVerdict is the default ruling applied when the adjudication
// collaborator fails; it guarantees an appeal always resolves.
func FallbackVerdict() *types.CourtVerdict {
	return &types.CourtVerdict{
		Verdict:   types.VerdictUphold,
		Reasoning: "The court could not convene. In the absence of argument to the contrary, the block is upheld by default.",
		JudgeName: "Presiding Judge (automated)",
	}
}
