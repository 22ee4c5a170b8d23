package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Feature names the predictive models are trained on. Candidate vectors are
// keyed by these.
const (
	FeatureBackingThickness  = "backing_thickness"
	FeatureOpenAdhesivePA    = "open_adhesive_pa"
	FeatureCoverAdhesivePA   = "cover_adhesive_pa"
	FeatureOpenCoatingWeight = "open_coating_weight"
	FeatureCoverCoatingWght  = "cover_coating_weight"
)

// DesignTarget is the performance spec a proposal must approach. When
// BackingThicknessMin/Max are set the generator grids that range instead of
// using catalog values.
type DesignTarget struct {
	ProductType         string  `json:"product_type"`
	Thickness           float64 `json:"thickness"`
	OpenPA              float64 `json:"open_pa"`
	CoverPA             float64 `json:"cover_pa"`
	NBest               int     `json:"n_best"`
	BackingThicknessMin float64 `json:"backing_thickness_min,omitempty"`
	BackingThicknessMax float64 `json:"backing_thickness_max,omitempty"`
}

// CandidateFeatureVector is one trial combination of material attribute
// values, generated per request and never persisted.
type CandidateFeatureVector map[string]float64

// EvaluationDetail is the per-metric record attached to a scored candidate.
type EvaluationDetail struct {
	EvalType     string  `json:"eval_type"`
	ExpectValue  float64 `json:"expect_value"`
	PredictValue float64 `json:"predict_value"`
	Score        float64 `json:"score"`
	Notes        string  `json:"notes"`
}

// PredictedProduct is one ranked proposal: predicted properties, the catalog
// materials resolved for the winning feature values, and the evaluation
// breakdown.
type PredictedProduct struct {
	PredictBackingThickness  float64            `json:"predict_backing_thickness"`
	AvailableBackingNART     []string           `json:"available_backing_nart"`
	PredictOpenAdhesivePA    float64            `json:"predict_open_adhesive_pa"`
	AvailableOpenAdhNART     []string           `json:"available_open_adhesive_nart"`
	PredictOpenCoatingWeight float64            `json:"predict_open_coating_weight"`
	PredictCoverAdhesivePA   float64            `json:"predict_cover_adhesive_pa,omitempty"`
	AvailableCoverAdhNART    []string           `json:"available_cover_adhesive_nart,omitempty"`
	PredictCoverCoatingWght  float64            `json:"predict_cover_coating_weight,omitempty"`
	EvalDetails              []EvaluationDetail `json:"eval_details"`
	OverallScore             float64            `json:"overall_score"`
}

// OptimizationResult is the optimizer's single terminal answer.
type OptimizationResult struct {
	BackingNART        string  `json:"backing_nart"`
	OpenAdhesiveNART   string  `json:"open_adhesive_nart"`
	CoverAdhesiveNART  string  `json:"cover_adhesive_nart,omitempty"`
	OpenCoatingWeight  float64 `json:"open_coating_weight"`
	CoverCoatingWeight float64 `json:"cover_coating_weight,omitempty"`
	PredictedThickness float64 `json:"predicted_thickness"`
	PredictedOpenPA    float64 `json:"predicted_open_pa"`
	PredictedCoverPA   float64 `json:"predicted_cover_pa,omitempty"`
	Objective          float64 `json:"objective"`
}

// CREATE TABLE public.design_runs (
//     id              UUID PRIMARY KEY,
//     run_type        TEXT NOT NULL,
//     product_type    TEXT NOT NULL,
//     request         JSONB,
//     result          JSONB,
//     status          TEXT NOT NULL,
//     objective       NUMERIC,
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );

type DesignRun struct {
	ID          string         `gorm:"column:id;primaryKey" json:"id"`
	RunType     string         `gorm:"column:run_type;not null" json:"run_type"`
	ProductType string         `gorm:"column:product_type;not null" json:"product_type"`
	Request     datatypes.JSON `gorm:"column:request;type:jsonb" json:"request"`
	Result      datatypes.JSON `gorm:"column:result;type:jsonb" json:"result"`
	Status      string         `gorm:"column:status;not null" json:"status"`
	Objective   float64        `gorm:"column:objective;type:numeric" json:"objective"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (DesignRun) TableName() string {
	return "design_runs"
}
