package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ConfidencePlaces is the number of decimals the confidence is rounded to
const ConfidencePlaces = 4

// Postprocess picks the highest score and maps it through labels
func Postprocess(scores []float32, labels LabelTable) (*Prediction, error) {
	if len(scores) == 0 {
		return nil, errors.New("model returned an empty score vector")
	}
	if len(scores) != len(labels) {
		return nil, fmt.Errorf("%w: %d scores for %d labels", ErrLabelMismatch, len(scores), len(labels))
	}

	maxIdx := 0
	maxVal := scores[0]
	for i, val := range scores {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil, fmt.Errorf("model returned a non-finite score at index %d", i)
		}
		if val > maxVal {
			maxVal = val
			maxIdx = i
		}
	}

	label, err := labels.Label(maxIdx)
	if err != nil {
		return nil, err
	}

	return &Prediction{
		PredictedClass: label,
		Confidence:     RoundConfidence(maxVal),
		Scores:         scores,
	}, nil
}

// RoundConfidence rounds the exact value of v to ConfidencePlaces decimals.
// The float32 is widened first so 0.66685f (really 0.66684997...) gives 0.6668.
func RoundConfidence(v float32) float64 {
	return decimal.NewFromFloat(float64(v)).Round(ConfidencePlaces).InexactFloat64()
}

// Softmax turns raw logits into probabilities
func Softmax(logits []float32) []float32 {
	if len(logits) == 0 {
		return nil
	}

	maxVal := float64(logits[0])
	for _, v := range logits[1:] {
		maxVal = math.Max(maxVal, float64(v))
	}

	exps := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		exps[i] = math.Exp(float64(v) - maxVal)
		sum += exps[i]
	}

	out := make([]float32, len(logits))
	for i, e := range exps {
		out[i] = float32(e / sum)
	}
	return out
}
