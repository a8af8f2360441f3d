package court

import (
	"context"
	"errors"
	"testing"

	"github.com/denis333rus/censornet/internal/ai"
	"github.com/denis333rus/censornet/internal/domain/site"
	"github.com/denis333rus/censornet/internal/domain/tab"
	"github.com/denis333rus/censornet/internal/infrastructure/logging"
	"github.com/denis333rus/censornet/internal/shared/types"
)

type fakeAdjudicator struct {
	verdict *types.CourtVerdict
	err     error
	content string
}

func (a *fakeAdjudicator) Adjudicate(ctx context.Context, title, content string, transcript []types.Entry) (*types.CourtVerdict, error) {
	a.content = content
	if a.err != nil {
		return nil, a.err
	}
	return a.verdict, nil
}

type stubResolver struct{ calls int }

func (r *stubResolver) Resolve(ctx context.Context, t *tab.Tab) { r.calls++ }

func newFixture(t *testing.T, adj ai.Adjudicator) (*Court, *site.Store, *tab.Manager, *stubResolver) {
	t.Helper()
	store, err := site.NewStore(site.NewMemoryBackend(), logging.NewNop())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	tabs := tab.NewManager()
	resolver := &stubResolver{}
	return NewCourt(store, tabs, adj, resolver, logging.NewNop()), store, tabs, resolver
}

func openUnderAppeal(store *site.Store, tabs *tab.Manager, url string) *tab.Tab {
	status := types.StatusUnderAppeal
	store.Upsert(url, site.Patch{Status: &status})
	tb := tabs.Open()
	tb.BeginNav(url, true)
	return tb
}

func TestOpenRequiresAppeal(t *testing.T) {
	court, store, tabs, _ := newFixture(t, &fakeAdjudicator{})

	tb := tabs.Open()
	if _, err := court.Open(context.Background(), tb); !errors.Is(err, ErrNotUnderAppeal) {
		t.Errorf("Home tab: expected ErrNotUnderAppeal, got %v", err)
	}

	status := types.StatusBlocked
	store.Upsert("https://plain.example/", site.Patch{Status: &status})
	tb.BeginNav("https://plain.example/", true)
	if _, err := court.Open(context.Background(), tb); !errors.Is(err, ErrNotUnderAppeal) {
		t.Errorf("Plain block: expected ErrNotUnderAppeal, got %v", err)
	}
}

func TestOpenReturnsVerdict(t *testing.T) {
	adj := &fakeAdjudicator{verdict: &types.CourtVerdict{
		Verdict:   types.VerdictOverturn,
		Reasoning: "The block was disproportionate.",
		JudgeName: "Judge Halvorsen",
	}}
	court, store, tabs, _ := newFixture(t, adj)
	tb := openUnderAppeal(store, tabs, "https://appealed.example/")

	verdict, err := court.Open(context.Background(), tb)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if verdict.Verdict != types.VerdictOverturn || verdict.JudgeName != "Judge Halvorsen" {
		t.Errorf("Unexpected verdict: %+v", verdict)
	}
	if adj.content == "" {
		t.Error("Adjudicator must receive site content, or a placeholder")
	}
}

func TestOpenFallsBackWhenAdjudicatorFails(t *testing.T) {
	court, store, tabs, _ := newFixture(t, &fakeAdjudicator{err: errors.New("no quorum")})
	tb := openUnderAppeal(store, tabs, "https://appealed.example/")

	verdict, err := court.Open(context.Background(), tb)
	if err != nil {
		t.Fatalf("Open must conclude with the fallback, got error: %v", err)
	}
	if verdict.Verdict != types.VerdictUphold {
		t.Errorf("Fallback must uphold, got %s", verdict.Verdict)
	}

	// The fallback of the hearing itself does not touch the record.
	rec, _ := store.Get("https://appealed.example/")
	if rec.Status != types.StatusUnderAppeal {
		t.Errorf("Open must not change status, got %s", rec.Status)
	}
}

func TestCloseAppliesVerdict(t *testing.T) {
	court, store, tabs, resolver := newFixture(t, &fakeAdjudicator{})

	cases := []struct {
		verdict types.Verdict
		want    types.Status
	}{
		{types.VerdictUphold, types.StatusBlocked},
		{types.VerdictOverturn, types.StatusNormal},
	}
	for _, tc := range cases {
		url := "https://" + string(tc.verdict) + ".example/"
		tb := openUnderAppeal(store, tabs, url)

		status, ok := court.Close(context.Background(), tb, tc.verdict)
		if !ok {
			t.Fatalf("%s: Close should apply", tc.verdict)
		}
		if status != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.verdict, tc.want, status)
		}
		rec, _ := store.Get(url)
		if rec.Status != tc.want {
			t.Errorf("%s: record status %s", tc.verdict, rec.Status)
		}
		if tb.Snapshot().Status != tc.want {
			t.Errorf("%s: tab snapshot not synced", tc.verdict)
		}
	}
	if resolver.calls != 2 {
		t.Errorf("Each verdict should re-resolve the tab, got %d calls", resolver.calls)
	}
}

func TestCloseGuards(t *testing.T) {
	court, store, tabs, _ := newFixture(t, &fakeAdjudicator{})
	tb := openUnderAppeal(store, tabs, "https://appealed.example/")

	if _, ok := court.Close(context.Background(), tb, types.Verdict("split")); ok {
		t.Error("Invalid verdict must be rejected")
	}
	rec, _ := store.Get("https://appealed.example/")
	if rec.Status != types.StatusUnderAppeal {
		t.Error("Rejected verdict must not change status")
	}

	normal := tabs.Open()
	normal.BeginNav("https://plain.example/", true)
	status := types.StatusNormal
	store.Upsert("https://plain.example/", site.Patch{Status: &status})
	if _, ok := court.Close(context.Background(), normal, types.VerdictUphold); ok {
		t.Error("Close on a site not under appeal must be a no-op")
	}
}
