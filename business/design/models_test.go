//go:build !integration

package design

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/taomoai/tesa-PDA/domain"

	"gorm.io/datatypes"
)

func modelRow(t *testing.T, itemNo, target string, features []string, coef, mean, scale []float64, intercept float64) domain.RegressionModel {
	t.Helper()

	mustJSON := func(v interface{}) datatypes.JSON {
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal model field: %v", err)
		}
		return datatypes.JSON(raw)
	}

	return domain.RegressionModel{
		ItemNo:       itemNo,
		TargetName:   target,
		FeatureNames: mustJSON(features),
		Coefficients: mustJSON(coef),
		FeatureMean:  mustJSON(mean),
		FeatureScale: mustJSON(scale),
		Intercept:    intercept,
	}
}

// fixed linear models for the whole test package: thickness is backing plus
// a thousandth of the open coating weight, peel adhesion passes the adhesive
// value through.
func testModelRows(t *testing.T) []domain.RegressionModel {
	t.Helper()
	return []domain.RegressionModel{
		modelRow(t, domain.ItemNoTotalThickness, "total thickness",
			[]string{domain.FeatureBackingThickness, domain.FeatureOpenCoatingWeight},
			[]float64{1, 0.001}, []float64{0, 0}, []float64{1, 1}, 0),
		modelRow(t, domain.ItemNoOpenPA, "open peel adhesion",
			[]string{domain.FeatureOpenAdhesivePA},
			[]float64{1}, []float64{0}, []float64{1}, 0),
		modelRow(t, domain.ItemNoCoverPA, "cover peel adhesion",
			[]string{domain.FeatureCoverAdhesivePA},
			[]float64{1}, []float64{0}, []float64{1}, 0),
	}
}

func testBank(t *testing.T) *ModelBank {
	t.Helper()
	bank, err := NewModelBank(testModelRows(t))
	if err != nil {
		t.Fatalf("build bank: %v", err)
	}
	return bank
}

func TestModelBankPredict(t *testing.T) {
	bank := testBank(t)

	c := domain.CandidateFeatureVector{
		domain.FeatureBackingThickness:  50,
		domain.FeatureOpenCoatingWeight: 2000,
		domain.FeatureOpenAdhesivePA:    4.5,
	}

	thickness, err := bank.Predict(domain.ItemNoTotalThickness, c)
	if err != nil {
		t.Fatalf("predict thickness: %v", err)
	}
	if math.Abs(thickness-52) > 1e-9 {
		t.Errorf("expected thickness 52, got %g", thickness)
	}

	pa, err := bank.Predict(domain.ItemNoOpenPA, c)
	if err != nil {
		t.Fatalf("predict peel adhesion: %v", err)
	}
	if math.Abs(pa-4.5) > 1e-9 {
		t.Errorf("expected peel adhesion 4.5, got %g", pa)
	}
}

func TestModelBankStandardization(t *testing.T) {
	row := modelRow(t, "P9999", "scaled",
		[]string{domain.FeatureBackingThickness},
		[]float64{2}, []float64{100}, []float64{50}, 10)

	bank, err := NewModelBank([]domain.RegressionModel{row})
	if err != nil {
		t.Fatalf("build bank: %v", err)
	}

	// z = (150 - 100) / 50 = 1, prediction = 10 + 2*1
	got, err := bank.Predict("P9999", domain.CandidateFeatureVector{domain.FeatureBackingThickness: 150})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if math.Abs(got-12) > 1e-9 {
		t.Errorf("expected 12, got %g", got)
	}
}

func TestModelBankRejectsDuplicates(t *testing.T) {
	rows := testModelRows(t)
	rows = append(rows, rows[0])

	if _, err := NewModelBank(rows); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestModelBankRejectsDimensionMismatch(t *testing.T) {
	row := modelRow(t, "P0001", "broken",
		[]string{domain.FeatureBackingThickness, domain.FeatureOpenCoatingWeight},
		[]float64{1}, []float64{0, 0}, []float64{1, 1}, 0)

	if _, err := NewModelBank([]domain.RegressionModel{row}); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestModelBankRejectsZeroScale(t *testing.T) {
	row := modelRow(t, "P0002", "broken",
		[]string{domain.FeatureBackingThickness},
		[]float64{1}, []float64{0}, []float64{0}, 0)

	if _, err := NewModelBank([]domain.RegressionModel{row}); err == nil {
		t.Fatal("expected zero scale error")
	}
}

func TestPredictUnknownModel(t *testing.T) {
	bank := testBank(t)

	_, err := bank.Predict("P0000", domain.CandidateFeatureVector{})
	if !errors.Is(err, domain.ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}

func TestPredictAbsentFeatureDefaultsToZero(t *testing.T) {
	bank := testBank(t)

	// no coating weight in the vector: the term contributes nothing
	got, err := bank.Predict(domain.ItemNoTotalThickness, domain.CandidateFeatureVector{
		domain.FeatureBackingThickness: 50,
	})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if got != 50 {
		t.Errorf("expected 50, got %g", got)
	}
}

func TestPredictFullFeatureListOnSingleLinerCandidate(t *testing.T) {
	// a model trained on all five features must still evaluate a candidate
	// that carries no cover side values
	row := modelRow(t, domain.ItemNoTotalThickness, "total thickness",
		[]string{
			domain.FeatureBackingThickness,
			domain.FeatureOpenAdhesivePA,
			domain.FeatureCoverAdhesivePA,
			domain.FeatureOpenCoatingWeight,
			domain.FeatureCoverCoatingWght,
		},
		[]float64{1, 1, 1, 0.001, 0.001},
		[]float64{0, 0, 0, 0, 0},
		[]float64{1, 1, 1, 1, 1},
		0)

	bank, err := NewModelBank([]domain.RegressionModel{row})
	if err != nil {
		t.Fatalf("build bank: %v", err)
	}

	got, err := bank.Predict(domain.ItemNoTotalThickness, domain.CandidateFeatureVector{
		domain.FeatureBackingThickness:  50,
		domain.FeatureOpenAdhesivePA:    4,
		domain.FeatureOpenCoatingWeight: 2000,
	})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if got != 56 {
		t.Errorf("expected 56 (cover terms defaulted to zero), got %g", got)
	}
}
