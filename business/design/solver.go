package design

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/taomoai/tesa-PDA/domain"
)

// MaterialOption is one selectable material with the attribute value the
// models consume (thickness for backings, peel adhesion for adhesives).
type MaterialOption struct {
	NART  string
	Value float64
}

// Problem is the mixed-integer formulation of one inverse-design request:
// a one-hot binary selection per material slot (exactly one backing, one
// adhesive per side), an integer coating weight per side drawn from
// CoatingWeights, the absolute thickness deviation linearized as
// d >= t - target and d >= target - t, peel adhesion penalized only for
// underage, and a weighted sum of the penalties as the minimize objective.
// Predicted thickness must cover the target (hard constraint).
type Problem struct {
	Backings       []MaterialOption
	OpenAdhesives  []MaterialOption
	CoverAdhesives []MaterialOption
	CoatingWeights []float64

	Target domain.DesignTarget

	WThickness    float64
	WPeelAdhesion float64

	Predict func(itemNo string, c domain.CandidateFeatureVector) (float64, error)
}

// Solution is the best feasible assignment found by a solver.
type Solution struct {
	Backing       MaterialOption
	OpenAdhesive  MaterialOption
	CoverAdhesive MaterialOption

	OpenCoatingWeight  float64
	CoverCoatingWeight float64

	PredictedThickness float64
	PredictedOpenPA    float64
	PredictedCoverPA   float64

	Objective float64
}

// Solver turns a Problem into its best feasible Solution. Implementations
// must be deterministic for identical problems and honor ctx cancellation.
type Solver interface {
	Solve(ctx context.Context, p Problem) (Solution, error)
}

// BranchBoundSolver solves the program exactly by deterministic search over
// the discrete assignment space, skipping the peel adhesion models for any
// candidate whose thickness penalty alone already exceeds the incumbent
// objective.
type BranchBoundSolver struct {
	Budget time.Duration
}

func NewBranchBoundSolver(budget time.Duration) *BranchBoundSolver {
	return &BranchBoundSolver{Budget: budget}
}

func (s *BranchBoundSolver) Solve(ctx context.Context, p Problem) (Solution, error) {
	if len(p.Backings) == 0 || len(p.OpenAdhesives) == 0 || len(p.CoatingWeights) == 0 {
		return Solution{}, fmt.Errorf("%w: empty material domain", domain.ErrInfeasible)
	}

	doubleLiner := p.Target.ProductType == domain.ProductTypeDoubleLiner
	if doubleLiner && len(p.CoverAdhesives) == 0 {
		return Solution{}, fmt.Errorf("%w: no cover adhesives available", domain.ErrInfeasible)
	}

	if s.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Budget)
		defer cancel()
	}

	// cover side collapses to a single no-op assignment for single liner
	coverAdhesives := p.CoverAdhesives
	coverWeights := p.CoatingWeights
	if !doubleLiner {
		coverAdhesives = []MaterialOption{{}}
		coverWeights = []float64{0}
	}

	best := Solution{Objective: math.Inf(1)}
	found := false

	for _, backing := range p.Backings {
		for _, ocw := range p.CoatingWeights {
			for _, ccw := range coverWeights {
				if err := ctx.Err(); err != nil {
					return s.finish(best, found, err)
				}

				c := domain.CandidateFeatureVector{
					domain.FeatureBackingThickness:  backing.Value,
					domain.FeatureOpenCoatingWeight: ocw,
				}
				if doubleLiner {
					c[domain.FeatureCoverCoatingWght] = ccw
				}

				for _, openAdh := range p.OpenAdhesives {
					for _, coverAdh := range coverAdhesives {
						cand := withAdhesives(c, openAdh, coverAdh, doubleLiner)

						// thickness may carry adhesive terms, so the hard
						// constraint holds per full assignment
						t, err := p.Predict(domain.ItemNoTotalThickness, cand)
						if err != nil {
							return Solution{}, err
						}
						if t < 0 || t < p.Target.Thickness {
							continue
						}

						// peel adhesion penalties are non-negative, so the
						// thickness penalty is a valid lower bound
						thicknessPenalty := p.WThickness * math.Abs(t-p.Target.Thickness)
						if thicknessPenalty >= best.Objective {
							continue
						}

						openPA, err := p.Predict(domain.ItemNoOpenPA, cand)
						if err != nil {
							return Solution{}, err
						}

						obj := thicknessPenalty + p.WPeelAdhesion*underage(openPA, p.Target.OpenPA)

						coverPA := 0.0
						if doubleLiner {
							coverPA, err = p.Predict(domain.ItemNoCoverPA, cand)
							if err != nil {
								return Solution{}, err
							}
							obj += p.WPeelAdhesion * underage(coverPA, p.Target.CoverPA)
						}

						if obj < best.Objective {
							best = Solution{
								Backing:            backing,
								OpenAdhesive:       openAdh,
								CoverAdhesive:      coverAdh,
								OpenCoatingWeight:  ocw,
								CoverCoatingWeight: ccw,
								PredictedThickness: t,
								PredictedOpenPA:    openPA,
								PredictedCoverPA:   coverPA,
								Objective:          obj,
							}
							found = true
						}
					}
				}
			}
		}
	}

	return s.finish(best, found, nil)
}

// finish returns the incumbent if one exists, otherwise the infeasible
// failure. A deadline hit with an incumbent still yields the best-so-far.
func (s *BranchBoundSolver) finish(best Solution, found bool, ctxErr error) (Solution, error) {
	if found {
		return best, nil
	}
	if ctxErr != nil {
		return Solution{}, fmt.Errorf("%w: solver budget exhausted: %v", domain.ErrInfeasible, ctxErr)
	}
	return Solution{}, fmt.Errorf("%w: no assignment satisfies the thickness constraint", domain.ErrInfeasible)
}

// underage is the one-sided peel adhesion penalty: only falling short of the
// target is penalized.
func underage(pred, target float64) float64 {
	if pred >= target {
		return 0
	}
	return target - pred
}

func withAdhesives(base domain.CandidateFeatureVector, open, cover MaterialOption, doubleLiner bool) domain.CandidateFeatureVector {
	c := make(domain.CandidateFeatureVector, len(base)+2)
	for k, v := range base {
		c[k] = v
	}
	c[domain.FeatureOpenAdhesivePA] = open.Value
	if doubleLiner {
		c[domain.FeatureCoverAdhesivePA] = cover.Value
	}
	return c
}
