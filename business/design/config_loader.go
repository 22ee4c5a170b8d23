package design

import (
	"context"
	"time"
)

// read config for a product type from repo, falling back to defaultCfg for
// anything missing or unreadable.
func (s *DesignService) loadConfig(ctx context.Context, productType string) Config {
	if s.cfgRepo == nil {
		return s.defaultCfg
	}

	row, ok, err := s.cfgRepo.GetConfig(ctx, productType)
	if err != nil || !ok {
		return s.defaultCfg
	}

	// start from defaults to keep sane fallbacks for any zero fields
	cfg := s.defaultCfg

	if row.WThickness > 0 {
		cfg.WThickness = row.WThickness
	}
	if row.WPeelAdhesion > 0 {
		cfg.WPeelAdhesion = row.WPeelAdhesion
	}

	if row.CoatingWeightMin > 0 {
		cfg.CoatingWeightMin = row.CoatingWeightMin
	}
	if row.CoatingWeightMax > 0 {
		cfg.CoatingWeightMax = row.CoatingWeightMax
	}
	if row.CoatingWeightStep > 0 {
		cfg.CoatingWeightStep = row.CoatingWeightStep
	}

	if row.GridPoints > 0 {
		cfg.GridPoints = row.GridPoints
	}
	if row.DefaultNBest > 0 {
		cfg.DefaultNBest = row.DefaultNBest
	}
	if row.SolverBudgetMs > 0 {
		cfg.SolverBudget = time.Duration(row.SolverBudgetMs) * time.Millisecond
	}

	return cfg
}
