package estimate

import (
	"errors"
	"testing"

	"github.com/lacquerai/weighin/internal/scorer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioValues() map[string]any {
	return map[string]any{
		"age": 25, "gender": "male", "height": 170, "weight": 110,
		"family_history": "yes", "favc": "yes", "fcvc": 1, "ncp": 4,
		"caec": "frequently", "smoke": "no", "ch2o": 1, "scc": "no",
		"faf": 0, "tue": 3, "calc": "never", "mtrans": "private_car",
	}
}

func TestFromValues(t *testing.T) {
	est, err := FromValues(scenarioValues())
	require.NoError(t, err)

	assert.Equal(t, scorer.ObesityTypeIII, est.Result.Category)
	assert.Equal(t, 38.1, est.Result.BMI)
	assert.Equal(t, 26, est.Result.RiskScore)
	assert.Equal(t, 75, est.Result.Confidence)
	assert.Equal(t, "Obesity Type III", est.Metadata.Label)
	assert.NotEmpty(t, est.Recommendations)
	assert.Nil(t, est.Contributions)
}

func TestFromValues_WithExplanation(t *testing.T) {
	est, err := FromValues(scenarioValues(), WithExplanation())
	require.NoError(t, err)
	require.NotEmpty(t, est.Contributions)

	total := 0
	for _, c := range est.Contributions {
		total += c.Delta
	}
	assert.Equal(t, est.Result.RiskScore, total)
}

func TestFromValues_Invalid(t *testing.T) {
	values := scenarioValues()
	values["age"] = 120
	delete(values, "mtrans")

	_, err := FromValues(values)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "mtrans", verr.Errors[0].Field)
}

func TestFromRecord_OutOfRange(t *testing.T) {
	est, err := FromValues(scenarioValues())
	require.NoError(t, err)
	require.NotNil(t, est)

	record, err := scorer.DecodeRecord(scenarioValues())
	require.NoError(t, err)
	record.Age = 120

	_, err = FromRecord(record)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "age", verr.Errors[0].Field)
}

func TestCatalog(t *testing.T) {
	categories := Categories()
	require.Len(t, categories, 6)

	for _, c := range categories {
		meta, ok := MetadataFor(c)
		assert.True(t, ok)
		assert.Equal(t, c, meta.Category)
		assert.NotEmpty(t, Recommendations(string(c)))
	}
	assert.Empty(t, Recommendations("nope"))
}

func TestBMI(t *testing.T) {
	assert.InDelta(t, 38.06, BMI(170, 110), 0.01)
}
