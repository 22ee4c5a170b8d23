package design

import (
	"encoding/json"
	"fmt"

	"github.com/taomoai/tesa-PDA/domain"

	"gonum.org/v1/gonum/mat"
)

// LinearModel is one trained regression with its standardization parameters.
// Prediction is intercept + coef . ((x - mean) / scale).
type LinearModel struct {
	itemNo    string
	target    string
	features  []string
	coef      *mat.VecDense
	mean      []float64
	scale     []float64
	intercept float64
}

func newLinearModel(row domain.RegressionModel) (*LinearModel, error) {
	var features []string
	if err := json.Unmarshal(row.FeatureNames, &features); err != nil {
		return nil, fmt.Errorf("model %s: decode feature names: %w", row.ItemNo, err)
	}

	var coef, mean, scale []float64
	if err := json.Unmarshal(row.Coefficients, &coef); err != nil {
		return nil, fmt.Errorf("model %s: decode coefficients: %w", row.ItemNo, err)
	}
	if err := json.Unmarshal(row.FeatureMean, &mean); err != nil {
		return nil, fmt.Errorf("model %s: decode feature mean: %w", row.ItemNo, err)
	}
	if err := json.Unmarshal(row.FeatureScale, &scale); err != nil {
		return nil, fmt.Errorf("model %s: decode feature scale: %w", row.ItemNo, err)
	}

	n := len(features)
	if n == 0 || len(coef) != n || len(mean) != n || len(scale) != n {
		return nil, fmt.Errorf("model %s: feature/coefficient dimension mismatch", row.ItemNo)
	}
	for i, s := range scale {
		if s == 0 {
			return nil, fmt.Errorf("model %s: zero scale for feature %s", row.ItemNo, features[i])
		}
	}

	return &LinearModel{
		itemNo:    row.ItemNo,
		target:    row.TargetName,
		features:  features,
		coef:      mat.NewVecDense(n, coef),
		mean:      mean,
		scale:     scale,
		intercept: row.Intercept,
	}, nil
}

// Predict evaluates the model on a candidate feature vector. Features the
// model was trained on but the candidate does not carry (cover side values
// of a single liner) default to zero before standardization.
func (m *LinearModel) Predict(c domain.CandidateFeatureVector) (float64, error) {
	n := len(m.features)
	z := mat.NewVecDense(n, nil)

	for i, name := range m.features {
		x := c[name]
		z.SetVec(i, (x-m.mean[i])/m.scale[i])
	}

	return m.intercept + mat.Dot(m.coef, z), nil
}

// ModelBank is the explicit registry mapping item numbers to validated
// models. A bank is immutable once built; reloads swap in a new one.
type ModelBank struct {
	models map[string]*LinearModel
}

func NewModelBank(rows []domain.RegressionModel) (*ModelBank, error) {
	models := make(map[string]*LinearModel, len(rows))

	for _, row := range rows {
		if _, ok := models[row.ItemNo]; ok {
			return nil, fmt.Errorf("duplicate model registration for %s", row.ItemNo)
		}

		m, err := newLinearModel(row)
		if err != nil {
			return nil, err
		}
		models[row.ItemNo] = m
	}

	return &ModelBank{models: models}, nil
}

func (b *ModelBank) Has(itemNo string) bool {
	_, ok := b.models[itemNo]
	return ok
}

func (b *ModelBank) Predict(itemNo string, c domain.CandidateFeatureVector) (float64, error) {
	m, ok := b.models[itemNo]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrModelNotFound, itemNo)
	}

	return m.Predict(c)
}
