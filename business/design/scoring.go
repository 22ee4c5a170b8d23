package design

import (
	"math"
	"sort"

	"github.com/taomoai/tesa-PDA/domain"
)

const (
	notesCloseMatch     = "close match to target"
	notesLargeDeviation = "large deviation from target"

	// thresholds on match percent, (1 - ratio) * 100
	closeMatchPercent     = 90.0
	largeDeviationPercent = 70.0
)

type scoredCandidate struct {
	features    domain.CandidateFeatureVector
	predictions map[string]float64
	details     []domain.EvaluationDetail
	overall     float64
}

// deviationRatio is the relative distance between prediction and target.
func deviationRatio(pred, target float64) float64 {
	diff := math.Abs(pred - target)
	if target == 0 {
		return diff
	}
	return diff / math.Abs(target)
}

// deviationScore maps a deviation ratio into (0, 1], decreasing.
func deviationScore(ratio float64) float64 {
	return 1.0 / (1.0 + ratio)
}

func matchNotes(ratio float64) string {
	percent := (1 - ratio) * 100
	switch {
	case percent >= closeMatchPercent:
		return notesCloseMatch
	case percent < largeDeviationPercent:
		return notesLargeDeviation
	default:
		return ""
	}
}

// violatesHardConstraints reports whether a candidate must be excluded before
// scoring: the predicted total thickness has to cover the target and be
// physically meaningful.
func violatesHardConstraints(predictions map[string]float64, target domain.DesignTarget) bool {
	t, ok := predictions[domain.ItemNoTotalThickness]
	if !ok {
		return true
	}
	return t < 0 || t < target.Thickness
}

// evaluateCandidate builds the per-metric details and the overall score for
// a candidate that already passed the hard constraints.
func evaluateCandidate(predictions map[string]float64, target domain.DesignTarget) ([]domain.EvaluationDetail, float64) {
	type metric struct {
		itemNo string
		name   string
		expect float64
	}

	metrics := []metric{
		{itemNo: domain.ItemNoTotalThickness, name: "total thickness", expect: target.Thickness},
		{itemNo: domain.ItemNoOpenPA, name: "open side peel adhesion", expect: target.OpenPA},
	}
	if target.ProductType == domain.ProductTypeDoubleLiner {
		metrics = append(metrics, metric{itemNo: domain.ItemNoCoverPA, name: "cover side peel adhesion", expect: target.CoverPA})
	}

	details := make([]domain.EvaluationDetail, 0, len(metrics))
	ratioSum := 0.0

	for _, m := range metrics {
		pred := predictions[m.itemNo]
		ratio := deviationRatio(pred, m.expect)
		score := deviationScore(ratio)

		details = append(details, domain.EvaluationDetail{
			EvalType:     m.name,
			ExpectValue:  m.expect,
			PredictValue: pred,
			Score:        score,
			Notes:        matchNotes(ratio),
		})

		ratioSum += ratio
	}

	overall := deviationScore(ratioSum / float64(len(metrics)))
	return details, overall
}

// rankCandidates orders candidates by score descending. The sort is stable,
// so candidates with equal scores keep their generation order.
func rankCandidates(list []scoredCandidate) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].overall > list[j].overall
	})
}
