package scorer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNonPositiveHeight is returned when a record's height cannot produce a
// finite BMI.
var ErrNonPositiveHeight = errors.New("height must be greater than zero")

// InputRecord holds the sixteen answers collected by the form. Height is in
// centimetres and weight in kilograms.
type InputRecord struct {
	Age           int       `json:"age" yaml:"age" mapstructure:"age" jsonschema:"minimum=10,maximum=100" jsonschema_description:"Age in years"`
	Gender        Gender    `json:"gender" yaml:"gender" mapstructure:"gender" jsonschema:"enum=male,enum=female"`
	Height        float64   `json:"height" yaml:"height" mapstructure:"height" jsonschema:"minimum=100,maximum=250" jsonschema_description:"Height in centimetres"`
	Weight        float64   `json:"weight" yaml:"weight" mapstructure:"weight" jsonschema:"minimum=30,maximum=200" jsonschema_description:"Weight in kilograms"`
	FAVC          YesNo     `json:"favc" yaml:"favc" mapstructure:"favc" jsonschema:"enum=no,enum=yes" jsonschema_description:"Frequent consumption of high calorie food"`
	FCVC          int       `json:"fcvc" yaml:"fcvc" mapstructure:"fcvc" jsonschema:"minimum=1,maximum=3" jsonschema_description:"Vegetable consumption frequency"`
	NCP           int       `json:"ncp" yaml:"ncp" mapstructure:"ncp" jsonschema:"minimum=1,maximum=4" jsonschema_description:"Number of main meals per day"`
	CAEC          Frequency `json:"caec" yaml:"caec" mapstructure:"caec" jsonschema:"enum=never,enum=sometimes,enum=frequently,enum=always" jsonschema_description:"Eating between meals"`
	SCC           YesNo     `json:"scc" yaml:"scc" mapstructure:"scc" jsonschema:"enum=no,enum=yes" jsonschema_description:"Monitors calorie intake"`
	Smoke         YesNo     `json:"smoke" yaml:"smoke" mapstructure:"smoke" jsonschema:"enum=no,enum=yes"`
	CH2O          int       `json:"ch2o" yaml:"ch2o" mapstructure:"ch2o" jsonschema:"minimum=1,maximum=3" jsonschema_description:"Daily water intake"`
	CALC          Frequency `json:"calc" yaml:"calc" mapstructure:"calc" jsonschema:"enum=never,enum=sometimes,enum=frequently,enum=always" jsonschema_description:"Alcohol consumption"`
	FamilyHistory YesNo     `json:"family_history" yaml:"family_history" mapstructure:"family_history" jsonschema:"enum=no,enum=yes" jsonschema_description:"Family history of overweight"`
	FAF           int       `json:"faf" yaml:"faf" mapstructure:"faf" jsonschema:"minimum=0,maximum=4" jsonschema_description:"Physical activity days per week"`
	TUE           int       `json:"tue" yaml:"tue" mapstructure:"tue" jsonschema:"minimum=0,maximum=3" jsonschema_description:"Time using technology devices"`
	MTRANS        Transport `json:"mtrans" yaml:"mtrans" mapstructure:"mtrans" jsonschema:"enum=walking,enum=public,enum=private_car" jsonschema_description:"Usual transportation"`
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field '%s': %s", e.Field, e.Message)
}

// ValidationError aggregates every field that failed validation.
type ValidationError struct {
	Errors []*FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Error())
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the height sentinel so callers can match it with errors.Is.
func (e *ValidationError) Unwrap() []error {
	var errs []error
	for _, fe := range e.Errors {
		if fe.Field == "height" && fe.Message == ErrNonPositiveHeight.Error() {
			errs = append(errs, ErrNonPositiveHeight)
		}
	}
	return errs
}

func (e *ValidationError) add(field, message string, value any) {
	e.Errors = append(e.Errors, &FieldError{Field: field, Message: message, Value: value})
}

func (e *ValidationError) intRange(field string, v, lo, hi int) {
	if v < lo || v > hi {
		e.add(field, fmt.Sprintf("must be between %d and %d", lo, hi), v)
	}
}

func (e *ValidationError) floatRange(field string, v, lo, hi float64) {
	if v < lo || v > hi {
		e.add(field, fmt.Sprintf("must be between %.1f and %.1f", lo, hi), v)
	}
}

// Validate checks every field against its enumerated domain. The returned
// error is a *ValidationError listing all failures, or nil.
func (r InputRecord) Validate() error {
	verr := &ValidationError{}

	verr.intRange("age", r.Age, 10, 100)
	if !r.Gender.Valid() {
		verr.add("gender", "must be one of male, female", string(r.Gender))
	}
	if r.Height <= 0 {
		verr.add("height", ErrNonPositiveHeight.Error(), r.Height)
	} else {
		verr.floatRange("height", r.Height, 100, 250)
	}
	verr.floatRange("weight", r.Weight, 30, 200)
	checkYesNo(verr, "favc", r.FAVC)
	verr.intRange("fcvc", r.FCVC, 1, 3)
	verr.intRange("ncp", r.NCP, 1, 4)
	checkFrequency(verr, "caec", r.CAEC)
	checkYesNo(verr, "scc", r.SCC)
	checkYesNo(verr, "smoke", r.Smoke)
	verr.intRange("ch2o", r.CH2O, 1, 3)
	checkFrequency(verr, "calc", r.CALC)
	checkYesNo(verr, "family_history", r.FamilyHistory)
	verr.intRange("faf", r.FAF, 0, 4)
	verr.intRange("tue", r.TUE, 0, 3)
	if !r.MTRANS.Valid() {
		verr.add("mtrans", "must be one of walking, public, private_car", string(r.MTRANS))
	}

	if len(verr.Errors) == 0 {
		return nil
	}
	return verr
}

func checkYesNo(verr *ValidationError, field string, v YesNo) {
	if !v.Valid() {
		verr.add(field, "must be one of no, yes", string(v))
	}
}

func checkFrequency(verr *ValidationError, field string, v Frequency) {
	if !v.Valid() {
		verr.add(field, "must be one of never, sometimes, frequently, always", string(v))
	}
}
