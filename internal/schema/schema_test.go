package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRecord = `age: 25
gender: male
height: 170
weight: 110
favc: "yes"
fcvc: 1
ncp: 4
caec: frequently
scc: "no"
smoke: "no"
ch2o: 1
calc: never
family_history: "yes"
faf: 0
tue: 3
mtrans: private_car
`

func TestGenerate(t *testing.T) {
	data, err := Generate()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, ID, doc["$id"])
	assert.Len(t, doc["required"], 16)

	props := doc["properties"].(map[string]any)
	assert.Contains(t, props, "family_history")
	gender := props["gender"].(map[string]any)
	assert.Equal(t, []any{"male", "female"}, gender["enum"])
	age := props["age"].(map[string]any)
	assert.Equal(t, float64(10), age["minimum"])
}

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator()
	require.NoError(t, err)
	return v
}

func TestValidateBytes_Valid(t *testing.T) {
	result, err := newValidator(t).ValidateBytes([]byte(validRecord))
	require.NoError(t, err)
	assert.True(t, result.Valid, "%+v", result.Errors)
}

func TestValidateBytes_JSON(t *testing.T) {
	doc := `{"age": 25, "gender": "female", "height": 160, "weight": 55, "favc": "no", "fcvc": 3,
"ncp": 3, "caec": "never", "scc": "yes", "smoke": "no", "ch2o": 2, "calc": "never",
"family_history": "no", "faf": 3, "tue": 1, "mtrans": "walking"}`

	result, err := newValidator(t).ValidateBytes([]byte(doc))
	require.NoError(t, err)
	assert.True(t, result.Valid, "%+v", result.Errors)
}

func TestValidateBytes_Violations(t *testing.T) {
	doc := `age: 7
gender: other
height: 170
weight: 110
favc: "yes"
fcvc: 1
ncp: 4
caec: frequently
scc: "no"
smoke: "no"
ch2o: 1
calc: never
family_history: "yes"
faf: 0
tue: 3
mtrans: private_car
`
	result, err := newValidator(t).ValidateBytes([]byte(doc))
	require.NoError(t, err)
	require.False(t, result.Valid)

	paths := map[string]bool{}
	for _, e := range result.Errors {
		paths[e.Path] = true
	}
	assert.True(t, paths["/age"])
	assert.True(t, paths["/gender"])
}

func TestValidateBytes_MissingField(t *testing.T) {
	result, err := newValidator(t).ValidateBytes([]byte("age: 25\n"))
	require.NoError(t, err)
	require.False(t, result.Valid)
	assert.Equal(t, "/", result.Errors[0].Path)
	assert.Contains(t, result.Errors[0].Message, "missing properties")
}

func TestValidateBytes_ParseError(t *testing.T) {
	result, err := newValidator(t).ValidateBytes([]byte("age: [1,\n"))
	require.NoError(t, err)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0].Message, "YAML parsing error")
}

func TestValidateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validRecord), 0o644))

	result, err := newValidator(t).ValidateFile(path)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	_, err = newValidator(t).ValidateFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
