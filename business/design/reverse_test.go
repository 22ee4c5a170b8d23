//go:build !integration

package design

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/taomoai/tesa-PDA/domain"
)

// fakeMaterialRepo serves a fixed catalog, filtering the way the SQL
// BETWEEN queries do.
type fakeMaterialRepo struct {
	backings  []domain.Material
	adhesives []domain.Material
}

func (f *fakeMaterialRepo) FindActiveByCategory(ctx context.Context, category string) ([]domain.Material, error) {
	switch category {
	case domain.MaterialCategoryBacking:
		return f.backings, nil
	case domain.MaterialCategoryAdhesive:
		return f.adhesives, nil
	}
	return nil, nil
}

func (f *fakeMaterialRepo) FindBackingsByThickness(ctx context.Context, value, tolerance float64) ([]domain.Material, error) {
	var out []domain.Material
	for _, m := range f.backings {
		if math.Abs(m.Thickness-value) <= tolerance {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMaterialRepo) FindAdhesivesByPeelAdhesion(ctx context.Context, value, tolerance float64) ([]domain.Material, error) {
	var out []domain.Material
	for _, m := range f.adhesives {
		if math.Abs(m.PeelAdhesion-value) <= tolerance {
			out = append(out, m)
		}
	}
	return out, nil
}

func testCatalog() *fakeMaterialRepo {
	return &fakeMaterialRepo{
		backings: []domain.Material{
			catalogMat(domain.MaterialCategoryBacking, "B-050", 50, 0),
			catalogMat(domain.MaterialCategoryBacking, "B-0503", 50.3, 0),
			catalogMat(domain.MaterialCategoryBacking, "B-100", 100, 0),
		},
		adhesives: []domain.Material{
			catalogMat(domain.MaterialCategoryAdhesive, "A-040", 0, 4),
			catalogMat(domain.MaterialCategoryAdhesive, "A-0405", 0, 4.05),
			catalogMat(domain.MaterialCategoryAdhesive, "A-060", 0, 6),
		},
	}
}

func TestBackingByThicknessListsMatchesClosestFirst(t *testing.T) {
	lookup := NewReverseLookup(testCatalog())

	got, err := lookup.BackingByThickness(context.Background(), 50.2)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	// both 50.3 and 50 are within 0.5; 50.3 is closer
	if len(got) != 2 {
		t.Fatalf("expected 2 matches within tolerance, got %d", len(got))
	}
	if got[0].NART != "B-0503" || got[1].NART != "B-050" {
		t.Errorf("expected closest-first order [B-0503, B-050], got [%s, %s]", got[0].NART, got[1].NART)
	}
}

func TestBackingByThicknessNoMatch(t *testing.T) {
	lookup := NewReverseLookup(testCatalog())

	_, err := lookup.BackingByThickness(context.Background(), 75)
	if !errors.Is(err, domain.ErrNoMatchFound) {
		t.Fatalf("expected ErrNoMatchFound, got %v", err)
	}
}

func TestAdhesiveByPeelAdhesionListsMatchesClosestFirst(t *testing.T) {
	lookup := NewReverseLookup(testCatalog())

	got, err := lookup.AdhesiveByPeelAdhesion(context.Background(), 4.04)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	// both 4.05 and 4 are within 0.1; 4.05 is closer
	if len(got) != 2 {
		t.Fatalf("expected 2 matches within tolerance, got %d", len(got))
	}
	if got[0].NART != "A-0405" || got[1].NART != "A-040" {
		t.Errorf("expected closest-first order [A-0405, A-040], got [%s, %s]", got[0].NART, got[1].NART)
	}
}

func TestAdhesiveByPeelAdhesionNoMatch(t *testing.T) {
	lookup := NewReverseLookup(testCatalog())

	_, err := lookup.AdhesiveByPeelAdhesion(context.Background(), 5)
	if !errors.Is(err, domain.ErrNoMatchFound) {
		t.Fatalf("expected ErrNoMatchFound, got %v", err)
	}
}
