// Package scorer estimates an obesity category from lifestyle and body
// measurements using a fixed additive risk score. It holds no state and is
// safe for concurrent use.
package scorer

import "math"

const (
	confidenceCenter = 10
	confidenceBase   = 90
	confidenceMin    = 75
	confidenceMax    = 95
)

// PredictionResult is the outcome of scoring one InputRecord.
type PredictionResult struct {
	Category   Category `json:"category" yaml:"category"`
	BMI        float64  `json:"bmi" yaml:"bmi"`
	RiskScore  int      `json:"risk_score" yaml:"risk_score"`
	Confidence int      `json:"confidence" yaml:"confidence"`
}

// Contribution is the delta a single rule added to the risk score.
type Contribution struct {
	Rule  string `json:"rule" yaml:"rule"`
	Delta int    `json:"delta" yaml:"delta"`
}

// BMI computes body-mass index from height in centimetres and weight in
// kilograms, without rounding.
func BMI(heightCM, weightKG float64) float64 {
	m := heightCM / 100
	return weightKG / (m * m)
}

// Predict scores in. It performs no validation; use Evaluate for untrusted
// input.
func Predict(in InputRecord) PredictionResult {
	bmi := BMI(in.Height, in.Weight)
	risk := riskScore(in, bmi)

	return PredictionResult{
		Category:   resolveCategory(bmi, risk),
		BMI:        roundTenth(bmi),
		RiskScore:  risk,
		Confidence: Confidence(risk),
	}
}

// Evaluate validates in and scores it.
func Evaluate(in InputRecord) (PredictionResult, error) {
	if err := in.Validate(); err != nil {
		return PredictionResult{}, err
	}
	return Predict(in), nil
}

// Explain lists the non-zero rule contributions in evaluation order. Their
// deltas sum to the risk score returned by Predict.
func Explain(in InputRecord) []Contribution {
	bmi := BMI(in.Height, in.Weight)
	out := make([]Contribution, 0, len(riskRules))
	for _, r := range riskRules {
		if d := r.delta(in, bmi); d != 0 {
			out = append(out, Contribution{Rule: r.name, Delta: d})
		}
	}
	return out
}

// Confidence maps a risk score to a display percentage in [75, 95].
func Confidence(risk int) int {
	dist := risk - confidenceCenter
	if dist < 0 {
		dist = -dist
	}
	c := confidenceBase - dist
	if c < confidenceMin {
		return confidenceMin
	}
	if c > confidenceMax {
		return confidenceMax
	}
	return c
}

func riskScore(in InputRecord, bmi float64) int {
	score := 0
	for _, r := range riskRules {
		score += r.delta(in, bmi)
	}
	return score
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
