package enforcement

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/denis333rus/censornet/internal/domain/site"
	"github.com/denis333rus/censornet/internal/domain/tab"
	"github.com/denis333rus/censornet/internal/infrastructure/logging"
	"github.com/denis333rus/censornet/internal/shared/types"
)

type stubResolver struct {
	calls int64
}

func (r *stubResolver) Resolve(ctx context.Context, t *tab.Tab) {
	atomic.AddInt64(&r.calls, 1)
}

func newFixture(t *testing.T, seed int64) (*Actions, *site.Store, *tab.Manager, *stubResolver) {
	t.Helper()
	store, err := site.NewStore(site.NewMemoryBackend(), logging.NewNop())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	tabs := tab.NewManager()
	resolver := &stubResolver{}
	actions := NewActions(store, tabs, resolver, 0.4, seed, logging.NewNop())
	return actions, store, tabs, resolver
}

func openOn(t *testing.T, tabs *tab.Manager, url string) *tab.Tab {
	t.Helper()
	tb := tabs.Open()
	tb.BeginNav(url, true)
	return tb
}

func TestThrottleSetsSlowedAndResolves(t *testing.T) {
	actions, store, tabs, resolver := newFixture(t, 1)
	tb := openOn(t, tabs, "https://slow.example/")

	status, ok := actions.Throttle(context.Background(), tb)
	if !ok || status != types.StatusSlowed {
		t.Fatalf("Throttle failed: %s %v", status, ok)
	}

	rec, _ := store.Get("https://slow.example/")
	if rec.Status != types.StatusSlowed {
		t.Errorf("Record status not updated: %s", rec.Status)
	}
	if tb.Snapshot().Status != types.StatusSlowed {
		t.Errorf("Tab snapshot not refreshed: %s", tb.Snapshot().Status)
	}
	if atomic.LoadInt64(&resolver.calls) != 1 {
		t.Error("Throttle should re-resolve the tab")
	}
}

func TestRestoreIsIdempotent(t *testing.T) {
	actions, store, tabs, _ := newFixture(t, 1)
	tb := openOn(t, tabs, "https://fine.example/")

	actions.Restore(context.Background(), tb)
	actions.Restore(context.Background(), tb)

	rec, _ := store.Get("https://fine.example/")
	if rec.Status != types.StatusNormal {
		t.Errorf("Expected normal status, got %s", rec.Status)
	}
}

func TestActionsNoOpOnHomeTab(t *testing.T) {
	actions, store, tabs, resolver := newFixture(t, 1)
	tb := tabs.Open() // stays on the start page

	if _, ok := actions.Block(context.Background(), tb); ok {
		t.Error("Block on a home tab must be a no-op")
	}
	if store.Len() != 0 {
		t.Error("No record should be created by a no-op action")
	}
	if atomic.LoadInt64(&resolver.calls) != 0 {
		t.Error("No-op action must not resolve")
	}
}

func TestNoOpBlockKeepsEscalationSequence(t *testing.T) {
	// A Block that no-ops on a home tab must not consume a roll, so two
	// runs with the same seed produce the same escalation outcomes
	// whether or not no-ops are interleaved.
	const seed = 99
	withNoOps, _, tabsA, _ := newFixture(t, seed)
	control, _, tabsB, _ := newFixture(t, seed)

	home := tabsA.Open() // stays on the start page
	for i := 0; i < 20; i++ {
		if _, ok := withNoOps.Block(context.Background(), home); ok {
			t.Fatal("Block on a home tab should be a no-op")
		}

		url := fmt.Sprintf("https://site%d.example/", i)
		got, _ := withNoOps.Block(context.Background(), openOn(t, tabsA, url))
		want, _ := control.Block(context.Background(), openOn(t, tabsB, url))
		if got != want {
			t.Fatalf("Sequence diverged at %d: %s vs %s", i, got, want)
		}
	}
}

func TestBlockEscalationRate(t *testing.T) {
	// Over many trials with a fixed seed, roughly 40% of blocks escalate
	// to an emergency appeal.
	actions, _, tabs, _ := newFixture(t, 42)

	const trials = 1000
	appeals := 0
	for i := 0; i < trials; i++ {
		tb := openOn(t, tabs, fmt.Sprintf("https://site%d.example/", i))
		status, ok := actions.Block(context.Background(), tb)
		if !ok {
			t.Fatal("Block should apply")
		}
		switch status {
		case types.StatusUnderAppeal:
			appeals++
		case types.StatusBlocked:
		default:
			t.Fatalf("Unexpected outcome %s", status)
		}
		tabs.Close(tb.ID)
	}

	ratio := float64(appeals) / trials
	if ratio < 0.35 || ratio > 0.45 {
		t.Errorf("Appeal ratio %f outside [0.35, 0.45]", ratio)
	}
}
