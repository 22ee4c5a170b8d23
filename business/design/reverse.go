package design

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/taomoai/tesa-PDA/domain"
)

// Tolerances for mapping solved feature values back to catalog rows.
const (
	backingThicknessTolerance = 0.5
	adhesivePATolerance       = 0.1
)

// MaterialRepository is the catalog access the design pipeline needs.
type MaterialRepository interface {
	FindActiveByCategory(ctx context.Context, category string) ([]domain.Material, error)
	FindBackingsByThickness(ctx context.Context, value, tolerance float64) ([]domain.Material, error)
	FindAdhesivesByPeelAdhesion(ctx context.Context, value, tolerance float64) ([]domain.Material, error)
}

// ReverseLookup resolves numeric feature values to concrete material NARTs.
type ReverseLookup struct {
	materialRepo MaterialRepository
}

func NewReverseLookup(materialRepo MaterialRepository) *ReverseLookup {
	return &ReverseLookup{materialRepo: materialRepo}
}

// BackingByThickness returns every catalog backing within tolerance of the
// given thickness, closest first.
func (r *ReverseLookup) BackingByThickness(ctx context.Context, thickness float64) ([]domain.Material, error) {
	rows, err := r.materialRepo.FindBackingsByThickness(ctx, thickness, backingThicknessTolerance)
	if err != nil {
		return nil, fmt.Errorf("lookup backings: %w", err)
	}

	return byDistance(rows, thickness, func(m domain.Material) float64 { return m.Thickness })
}

// AdhesiveByPeelAdhesion returns every catalog adhesive within tolerance of
// the given peel adhesion, closest first.
func (r *ReverseLookup) AdhesiveByPeelAdhesion(ctx context.Context, peelAdhesion float64) ([]domain.Material, error) {
	rows, err := r.materialRepo.FindAdhesivesByPeelAdhesion(ctx, peelAdhesion, adhesivePATolerance)
	if err != nil {
		return nil, fmt.Errorf("lookup adhesives: %w", err)
	}

	return byDistance(rows, peelAdhesion, func(m domain.Material) float64 { return m.PeelAdhesion })
}

// byDistance orders matches by distance to the requested value; the stable
// sort keeps catalog order for equidistant rows.
func byDistance(rows []domain.Material, value float64, attr func(domain.Material) float64) ([]domain.Material, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: value %g", domain.ErrNoMatchFound, value)
	}

	sorted := make([]domain.Material, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(attr(sorted[i])-value) < math.Abs(attr(sorted[j])-value)
	})

	return sorted, nil
}
