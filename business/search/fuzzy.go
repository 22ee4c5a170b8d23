package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/taomoai/tesa-PDA/domain"
	"github.com/taomoai/tesa-PDA/pkg/logger"
)

// PropertyRange is one approximate-search criterion. The accepted window is
// [Min, Max] extended by the request's tolerance ratio on both sides.
type PropertyRange struct {
	PropertyKey string  `json:"property_key"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
}

type ApproximateSearchRequest struct {
	Ranges         []PropertyRange `json:"ranges"`
	ToleranceRatio float64         `json:"tolerance_ratio,omitempty"`
	Limit          int             `json:"limit,omitempty"`
}

// ScoredProduct carries the per-property match scores (0..100) and their
// mean as the product score.
type ScoredProduct struct {
	Product        domain.TapeProduct `json:"product"`
	PropertyScores map[string]float64 `json:"property_scores"`
	Score          float64            `json:"score"`
}

// ApproximateSearch keeps products whose property values fall inside the
// tolerance-extended ranges and grades how well each one matches. Products
// with no value for a criterion are kept; the missing property simply does
// not contribute to the score.
func (s *searchService) ApproximateSearch(ctx context.Context, req ApproximateSearchRequest) ([]ScoredProduct, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when searching products")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if len(req.Ranges) == 0 {
		return nil, errors.New("at least one property range is required")
	}
	for _, r := range req.Ranges {
		if r.Min > r.Max {
			return nil, fmt.Errorf("invalid range for %s: min greater than max", r.PropertyKey)
		}
	}
	if req.ToleranceRatio < 0 {
		return nil, errors.New("tolerance ratio cannot be negative")
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("failed to load products", err)
		return nil, err
	}

	keys := make([]string, 0, len(req.Ranges))
	for _, r := range req.Ranges {
		keys = append(keys, r.PropertyKey)
	}

	propsByNART, err := s.loadProperties(ctx, keys)
	if err != nil {
		return nil, err
	}

	results := make([]ScoredProduct, 0)

	for _, p := range products {
		props := propsByNART[p.NART]

		scores := make(map[string]float64, len(req.Ranges))
		keep := true

		for _, r := range req.Ranges {
			row, ok := props[r.PropertyKey]
			if !ok || row.Value == nil {
				continue
			}

			v := *row.Value
			ext := (r.Max - r.Min) * req.ToleranceRatio

			if v < r.Min-ext || v > r.Max+ext {
				keep = false
				break
			}

			scores[r.PropertyKey] = matchScore(v, r.Min, r.Max)
		}

		if !keep {
			continue
		}

		results = append(results, ScoredProduct{
			Product:        p,
			PropertyScores: scores,
			Score:          meanScore(scores),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}

	return results, nil
}

// matchScore grades a value against the requested range: 100 inside, and a
// linear decay on the relative overshoot outside, floored at 0.
func matchScore(v, min, max float64) float64 {
	if v >= min && v <= max {
		return 100
	}

	var ratio float64
	if v < min {
		ratio = (min - v) / math.Max(math.Abs(min), 1e-12)
	} else {
		ratio = (v - max) / math.Max(math.Abs(max), 1e-12)
	}

	return math.Max(0, 100*(1-ratio))
}

func meanScore(scores map[string]float64) float64 {
	if len(scores) == 0 {
		return 0
	}

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
