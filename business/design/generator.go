package design

import (
	"math"
	"sort"

	"github.com/taomoai/tesa-PDA/domain"
)

// FeatureSpace holds the per-feature value domains candidates are drawn from.
type FeatureSpace struct {
	BackingThickness []float64
	OpenAdhesivePA   []float64
	CoverAdhesivePA  []float64
	CoatingWeights   []float64
}

// buildFeatureSpace derives the candidate domains from the material catalog
// and the config grid settings. Backing thickness uses catalog values unless
// the target requests a bounded range, which is gridded instead.
func buildFeatureSpace(
	target domain.DesignTarget,
	backings []domain.Material,
	openAdhesives []domain.Material,
	coverAdhesives []domain.Material,
	cfg Config,
) FeatureSpace {
	fs := FeatureSpace{
		OpenAdhesivePA: distinctValues(openAdhesives, func(m domain.Material) float64 { return m.PeelAdhesion }),
		CoatingWeights: coatingWeightGrid(cfg),
	}

	if target.BackingThicknessMax > target.BackingThicknessMin && target.BackingThicknessMin > 0 {
		fs.BackingThickness = gridValues(target.BackingThicknessMin, target.BackingThicknessMax, cfg.GridPoints)
	} else {
		fs.BackingThickness = distinctValues(backings, func(m domain.Material) float64 { return m.Thickness })
	}

	if target.ProductType == domain.ProductTypeDoubleLiner {
		fs.CoverAdhesivePA = distinctValues(coverAdhesives, func(m domain.Material) float64 { return m.PeelAdhesion })
	}

	return fs
}

// Enumerate produces the full cartesian product of the feature space in a
// fixed order, so identical inputs always yield the same candidate sequence.
func (fs FeatureSpace) Enumerate(productType string) []domain.CandidateFeatureVector {
	var out []domain.CandidateFeatureVector

	for _, bt := range fs.BackingThickness {
		for _, opa := range fs.OpenAdhesivePA {
			for _, ocw := range fs.CoatingWeights {
				if productType != domain.ProductTypeDoubleLiner {
					out = append(out, domain.CandidateFeatureVector{
						domain.FeatureBackingThickness:  bt,
						domain.FeatureOpenAdhesivePA:    opa,
						domain.FeatureOpenCoatingWeight: ocw,
					})
					continue
				}

				for _, cpa := range fs.CoverAdhesivePA {
					for _, ccw := range fs.CoatingWeights {
						out = append(out, domain.CandidateFeatureVector{
							domain.FeatureBackingThickness:  bt,
							domain.FeatureOpenAdhesivePA:    opa,
							domain.FeatureOpenCoatingWeight: ocw,
							domain.FeatureCoverAdhesivePA:   cpa,
							domain.FeatureCoverCoatingWght:  ccw,
						})
					}
				}
			}
		}
	}

	return out
}

// distinctValues collects the unique attribute values of a material list,
// sorted ascending.
func distinctValues(materials []domain.Material, attr func(domain.Material) float64) []float64 {
	seen := make(map[float64]struct{}, len(materials))
	out := make([]float64, 0, len(materials))

	for _, m := range materials {
		v := attr(m)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	sort.Float64s(out)
	return out
}

// gridValues spreads n evenly spaced points over [min, max].
func gridValues(min, max float64, n int) []float64 {
	if n <= 1 || min >= max {
		return []float64{min}
	}

	out := make([]float64, 0, n)
	step := (max - min) / float64(n-1)
	for i := 0; i < n; i++ {
		out = append(out, min+float64(i)*step)
	}
	return out
}

// coatingWeightGrid spreads grid points across the configured coating weight
// range, snapped to step multiples and deduplicated.
func coatingWeightGrid(cfg Config) []float64 {
	raw := gridValues(cfg.CoatingWeightMin, cfg.CoatingWeightMax, cfg.GridPoints)

	seen := make(map[float64]struct{}, len(raw))
	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		snapped := snapToStep(v, cfg.CoatingWeightStep, cfg.CoatingWeightMin, cfg.CoatingWeightMax)
		if _, ok := seen[snapped]; ok {
			continue
		}
		seen[snapped] = struct{}{}
		out = append(out, snapped)
	}

	sort.Float64s(out)
	return out
}

// stepRange lists every step multiple in [min, max]. The optimizer's integer
// coating weight variable ranges over this, unlike the reduced enumeration
// grid.
func stepRange(min, max, step float64) []float64 {
	if step <= 0 || min > max {
		return nil
	}

	out := make([]float64, 0, int((max-min)/step)+1)
	for v := min; v <= max+1e-9; v += step {
		out = append(out, v)
	}
	return out
}

// snapToStep rounds v to the nearest step multiple, clamped to [min, max].
func snapToStep(v, step, min, max float64) float64 {
	if step <= 0 {
		return v
	}

	snapped := math.Round(v/step) * step
	if snapped < min {
		snapped = min
	}
	if snapped > max {
		snapped = max
	}
	return snapped
}
