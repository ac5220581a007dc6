// Package estimate provides a public API for scoring survey records
// programmatically. It lets other applications estimate an obesity category
// without running the weighin server or CLI.
//
// The main functionality includes:
//   - Scoring typed records or loosely typed values such as form posts and
//     decoded JSON
//   - Explaining which risk rules contributed to a score
//   - Looking up category metadata and recommendations
//
// Example usage:
//
//	values := map[string]any{
//		"age": 25, "gender": "male", "height": 170, "weight": 110,
//		// ... the remaining survey fields
//	}
//
//	est, err := estimate.FromValues(values, estimate.WithExplanation())
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(est.Metadata.Label, est.Result.BMI)
package estimate

import (
	"github.com/lacquerai/weighin/internal/scorer"
)

// Record is one survey response. See the field tags for the accepted keys.
type Record = scorer.InputRecord

// Result is the category, BMI, risk score and confidence of a record.
type Result = scorer.PredictionResult

// Category is one of the six ordinal obesity classifications.
type Category = scorer.Category

// Metadata is the display information attached to a category.
type Metadata = scorer.CategoryMetadata

// Contribution is the delta a single risk rule added to the score.
type Contribution = scorer.Contribution

// ValidationError lists every field of a record that failed validation.
// Returned errors can be matched with errors.As.
type ValidationError = scorer.ValidationError

// Estimate is the full answer for one record.
type Estimate struct {
	Result          Result         `json:"result" yaml:"result"`
	Metadata        Metadata       `json:"metadata" yaml:"metadata"`
	Recommendations []string       `json:"recommendations" yaml:"recommendations"`
	Contributions   []Contribution `json:"contributions,omitempty" yaml:"contributions,omitempty"`
}

type options struct {
	explain bool
}

// Option configures how a record is estimated.
type Option func(*options)

// WithExplanation fills Estimate.Contributions with the delta of every risk
// rule that applied.
func WithExplanation() Option {
	return func(o *options) {
		o.explain = true
	}
}

// FromRecord validates and scores record.
//
// Returns a *ValidationError when any field is outside its domain.
func FromRecord(record Record, opts ...Option) (*Estimate, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	result, err := scorer.Evaluate(record)
	if err != nil {
		return nil, err
	}

	meta, _ := scorer.MetadataFor(result.Category)
	est := &Estimate{
		Result:          result,
		Metadata:        meta,
		Recommendations: scorer.Recommendations(string(result.Category)),
	}
	if o.explain {
		est.Contributions = scorer.Explain(record)
	}
	return est, nil
}

// FromValues decodes loosely typed values into a Record and scores it. Keys
// are matched case insensitively and numeric strings are accepted, so form
// posts and decoded JSON or YAML can be passed directly.
//
// Missing fields, unconvertible values and out of range values are all
// reported through a *ValidationError.
func FromValues(values map[string]any, opts ...Option) (*Estimate, error) {
	record, err := scorer.DecodeRecord(values)
	if err != nil {
		return nil, err
	}
	return FromRecord(record, opts...)
}

// Categories returns every category from least to most severe.
func Categories() []Category {
	return scorer.Categories()
}

// MetadataFor returns the display metadata for a category.
func MetadataFor(c Category) (Metadata, bool) {
	return scorer.MetadataFor(c)
}

// Recommendations returns the advice for a category key. Unknown keys yield
// an empty list.
func Recommendations(key string) []string {
	return scorer.Recommendations(key)
}

// BMI computes body-mass index from height in centimetres and weight in
// kilograms, unrounded.
func BMI(heightCM, weightKG float64) float64 {
	return scorer.BMI(heightCM, weightKG)
}
