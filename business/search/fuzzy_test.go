//go:build !integration

package search

import (
	"context"
	"math"
	"testing"
)

func TestApproximateSearchInRangeScoresFull(t *testing.T) {
	svc := NewSearchService(testRepo())

	results, err := svc.ApproximateSearch(context.Background(), ApproximateSearchRequest{
		Ranges: []PropertyRange{{PropertyKey: "P4433", Min: 60, Max: 70}},
	})
	if err != nil {
		t.Fatalf("approximate search: %v", err)
	}

	// N-001 (65) is inside the window; N-002 (100) and N-003 (125) are
	// sharply over and fall below zero after the linear decay
	for _, r := range results {
		if r.Product.NART == "N-001" {
			if r.Score != 100 {
				t.Errorf("expected full score for in-range product, got %g", r.Score)
			}
			if r.PropertyScores["P4433"] != 100 {
				t.Errorf("expected property score 100, got %g", r.PropertyScores["P4433"])
			}
			return
		}
	}
	t.Fatal("N-001 missing from results")
}

func TestApproximateSearchDropsOutOfWindow(t *testing.T) {
	svc := NewSearchService(testRepo())

	// window [60, 70] with 10% tolerance keeps [59, 71]; only N-001 survives
	results, err := svc.ApproximateSearch(context.Background(), ApproximateSearchRequest{
		Ranges:         []PropertyRange{{PropertyKey: "P4433", Min: 60, Max: 70}},
		ToleranceRatio: 0.1,
	})
	if err != nil {
		t.Fatalf("approximate search: %v", err)
	}
	if len(results) != 1 || results[0].Product.NART != "N-001" {
		t.Fatalf("expected only N-001 inside the tolerance window, got %+v", results)
	}
}

func TestApproximateSearchOvershootDecay(t *testing.T) {
	svc := NewSearchService(testRepo())

	// window [60, 95] with 20% tolerance keeps values up to 102; N-002 at
	// 100 overshoots by 5 over max 95, score 100*(1 - 5/95)
	results, err := svc.ApproximateSearch(context.Background(), ApproximateSearchRequest{
		Ranges:         []PropertyRange{{PropertyKey: "P4433", Min: 60, Max: 95}},
		ToleranceRatio: 0.2,
	})
	if err != nil {
		t.Fatalf("approximate search: %v", err)
	}

	want := 100 * (1 - 5.0/95.0)
	for _, r := range results {
		if r.Product.NART == "N-002" {
			if math.Abs(r.Score-want) > 1e-9 {
				t.Errorf("expected overshoot score %g, got %g", want, r.Score)
			}
			return
		}
	}
	t.Fatal("N-002 missing from results")
}

func TestApproximateSearchRanksByScore(t *testing.T) {
	svc := NewSearchService(testRepo())

	results, err := svc.ApproximateSearch(context.Background(), ApproximateSearchRequest{
		Ranges:         []PropertyRange{{PropertyKey: "P4433", Min: 60, Max: 95}},
		ToleranceRatio: 1,
	})
	if err != nil {
		t.Fatalf("approximate search: %v", err)
	}
	if len(results) < 2 {
		t.Fatalf("expected at least 2 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted by score at %d", i)
		}
	}
	if results[0].Product.NART != "N-001" {
		t.Errorf("expected in-range N-001 ranked first, got %s", results[0].Product.NART)
	}
}

func TestApproximateSearchMissingPropertyKeepsProduct(t *testing.T) {
	svc := NewSearchService(testRepo())

	// N-003 has no open side peel adhesion row; it stays in the result set
	// with an empty score
	results, err := svc.ApproximateSearch(context.Background(), ApproximateSearchRequest{
		Ranges: []PropertyRange{{PropertyKey: "P4006", Min: 3, Max: 5}},
	})
	if err != nil {
		t.Fatalf("approximate search: %v", err)
	}

	found := false
	for _, r := range results {
		if r.Product.NART == "N-003" {
			found = true
			if r.Score != 0 {
				t.Errorf("expected zero score for product without the property, got %g", r.Score)
			}
			if len(r.PropertyScores) != 0 {
				t.Errorf("expected no property scores, got %+v", r.PropertyScores)
			}
		}
	}
	if !found {
		t.Fatal("expected N-003 to remain in the results")
	}
}

func TestApproximateSearchLimit(t *testing.T) {
	svc := NewSearchService(testRepo())

	results, err := svc.ApproximateSearch(context.Background(), ApproximateSearchRequest{
		Ranges: []PropertyRange{{PropertyKey: "P4433", Min: 0, Max: 200}},
		Limit:  2,
	})
	if err != nil {
		t.Fatalf("approximate search: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected limit to cap results at 2, got %d", len(results))
	}
}

func TestApproximateSearchValidation(t *testing.T) {
	svc := NewSearchService(testRepo())

	cases := []ApproximateSearchRequest{
		{},
		{Ranges: []PropertyRange{{PropertyKey: "P4433", Min: 10, Max: 5}}},
		{Ranges: []PropertyRange{{PropertyKey: "P4433", Min: 0, Max: 10}}, ToleranceRatio: -0.1},
	}

	for i, req := range cases {
		if _, err := svc.ApproximateSearch(context.Background(), req); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestMatchScore(t *testing.T) {
	if got := matchScore(50, 40, 60); got != 100 {
		t.Errorf("in-range: expected 100, got %g", got)
	}
	if got := matchScore(40, 40, 60); got != 100 {
		t.Errorf("lower bound: expected 100, got %g", got)
	}

	// undershoot of 4 against min 40 decays by 10%
	if got := matchScore(36, 40, 60); math.Abs(got-90) > 1e-9 {
		t.Errorf("undershoot: expected 90, got %g", got)
	}

	// far overshoot floors at zero
	if got := matchScore(200, 40, 60); got != 0 {
		t.Errorf("far overshoot: expected 0, got %g", got)
	}
}
