package design

import (
	"context"
	"time"

	"github.com/taomoai/tesa-PDA/domain"
)

// Config carries the tunables of the inverse-design pipeline for one
// product type.
type Config struct {
	// objective weights for the optimizer
	WThickness    float64
	WPeelAdhesion float64

	// coating weight domain (g per unit area, multiples of step)
	CoatingWeightMin  float64
	CoatingWeightMax  float64
	CoatingWeightStep float64

	// how many grid points per continuous feature range
	GridPoints int

	// how many ranked proposals to return when the request leaves it unset
	DefaultNBest int

	SolverBudget time.Duration
}

const (
	defaultWThickness        = 1.0
	defaultWPeelAdhesion     = 1.0
	defaultCoatingWeightMin  = 1000.0
	defaultCoatingWeightMax  = 60000.0
	defaultCoatingWeightStep = 1000.0
	defaultGridPoints        = 10
	defaultNBest             = 5
	defaultSolverBudget      = 5 * time.Second
)

func DefaultConfig() Config {
	return Config{
		WThickness:    defaultWThickness,
		WPeelAdhesion: defaultWPeelAdhesion,

		CoatingWeightMin:  defaultCoatingWeightMin,
		CoatingWeightMax:  defaultCoatingWeightMax,
		CoatingWeightStep: defaultCoatingWeightStep,

		GridPoints:   defaultGridPoints,
		DefaultNBest: defaultNBest,
		SolverBudget: defaultSolverBudget,
	}
}

// read per-product-type design config from DB.
type ConfigRepository interface {
	GetConfig(ctx context.Context, productType string) (domain.DesignConfigRow, bool, error)
	UpsertConfig(ctx context.Context, cfg domain.DesignConfigRow) error
}
