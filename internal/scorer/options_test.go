package scorer

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseOptions(t *testing.T) {
	g, err := ParseGender(" Male ")
	require.NoError(t, err)
	assert.Equal(t, Male, g)

	yn, err := ParseYesNo("Ya")
	require.NoError(t, err)
	assert.Equal(t, Yes, yn)

	yn, err = ParseYesNo("tidak")
	require.NoError(t, err)
	assert.Equal(t, No, yn)

	freq, err := ParseFrequency("no")
	require.NoError(t, err)
	assert.Equal(t, Never, freq)

	freq, err = ParseFrequency("Frequently")
	require.NoError(t, err)
	assert.Equal(t, Frequently, freq)

	tr, err := ParseTransport("Public_Transportation")
	require.NoError(t, err)
	assert.Equal(t, Public, tr)

	tr, err = ParseTransport("private car")
	require.NoError(t, err)
	assert.Equal(t, PrivateCar, tr)

	tr, err = ParseTransport("Automobile")
	require.NoError(t, err)
	assert.Equal(t, PrivateCar, tr)
}

func TestParseOptions_Unknown(t *testing.T) {
	_, err := ParseGender("other")
	assert.True(t, errors.Is(err, ErrUnknownOption))
	assert.Contains(t, err.Error(), `gender "other"`)

	_, err = ParseYesNo("maybe")
	assert.True(t, errors.Is(err, ErrUnknownOption))

	_, err = ParseFrequency("")
	assert.True(t, errors.Is(err, ErrUnknownOption))

	_, err = ParseTransport("teleport")
	assert.True(t, errors.Is(err, ErrUnknownOption))
}

func TestInputRecord_UnmarshalJSON(t *testing.T) {
	body := `{
		"age": 25, "gender": "Male", "height": 170, "weight": 110,
		"favc": "yes", "fcvc": 1, "ncp": 4, "caec": "Frequently",
		"scc": "no", "smoke": "no", "ch2o": 1, "calc": "no",
		"family_history": "yes", "faf": 0, "tue": 3, "mtrans": "Automobile"
	}`

	var in InputRecord
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	assert.Equal(t, scenario(), in)
}

func TestInputRecord_UnmarshalJSON_UnknownOption(t *testing.T) {
	var in InputRecord
	err := json.Unmarshal([]byte(`{"gender": "robot"}`), &in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownOption))
}

func TestInputRecord_UnmarshalYAML(t *testing.T) {
	body := `
age: 25
gender: male
height: 170
weight: 110
favc: yes
fcvc: 1
ncp: 4
caec: frequently
scc: no
smoke: no
ch2o: 1
calc: never
family_history: yes
faf: 0
tue: 3
mtrans: private_car
`
	var in InputRecord
	require.NoError(t, yaml.Unmarshal([]byte(body), &in))
	assert.Equal(t, scenario(), in)
}

func TestCategory(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 6)
	for i, c := range cats {
		assert.Equal(t, i, c.Rank())
		parsed, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	assert.Equal(t, -1, Category("Skinny").Rank())
	assert.False(t, Category("Skinny").Valid())
	_, err := ParseCategory("normal_weight")
	assert.True(t, errors.Is(err, ErrUnknownOption))

	cats[0] = "mutated"
	assert.Equal(t, NormalWeight, Categories()[0])
}
