package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/lacquerai/weighin/internal/scorer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioYAML = `age: 25
gender: male
height: 170
weight: 110
family_history: "yes"
favc: "yes"
fcvc: 1
ncp: 4
caec: frequently
smoke: "no"
ch2o: 1
scc: "no"
faf: 0
tue: 3
calc: never
mtrans: private_car
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunPredict_Text(t *testing.T) {
	values, err := loadRecordValues(writeFile(t, "record.yaml", scenarioYAML))
	require.NoError(t, err)

	runCtx, stdout, _ := bufferContext()
	require.NoError(t, runPredict(runCtx, values, "text", true))

	text := ansi.Strip(stdout.String())
	assert.Contains(t, text, "Obesity Type III")
	assert.Contains(t, text, "BMI 38.1 (Obese)")
	snaps.MatchSnapshot(t, text)
}

func TestRunPredict_JSON(t *testing.T) {
	values, err := loadRecordValues(writeFile(t, "record.yaml", scenarioYAML))
	require.NoError(t, err)

	runCtx, stdout, _ := bufferContext()
	require.NoError(t, runPredict(runCtx, values, "json", false))

	var out PredictOutput
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, scorer.ObesityTypeIII, out.Result.Category)
	assert.Equal(t, 38.1, out.Result.BMI)
	assert.Equal(t, 26, out.Result.RiskScore)
	assert.Equal(t, 75, out.Result.Confidence)
	assert.Equal(t, scorer.PrivateCar, out.Input.MTRANS)
	assert.Empty(t, out.Contributions)
}

func TestRunPredict_InvalidRecord(t *testing.T) {
	runCtx, stdout, stderr := bufferContext()
	err := runPredict(runCtx, map[string]any{"age": 30}, "text", false)

	var verr *scorer.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, stdout.String())
	assert.Contains(t, ansi.Strip(stderr.String()), "Invalid record")
	assert.Contains(t, stderr.String(), "weight: is required")
}

func TestLoadRecordValues_JSON(t *testing.T) {
	path := writeFile(t, "record.json", `{"age": 40, "gender": "female"}`)
	values, err := loadRecordValues(path)
	require.NoError(t, err)
	assert.Equal(t, float64(40), values["age"])
	assert.Equal(t, "female", values["gender"])
}

func TestLoadRecordValues_Errors(t *testing.T) {
	_, err := loadRecordValues(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read record file")

	_, err = loadRecordValues(writeFile(t, "bad.json", `{"age": `))
	assert.ErrorContains(t, err, "failed to parse")
}

func TestPredictCommand_FlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "record.yaml", scenarioYAML)

	out, _, err := executeCommand(t, "predict", "--file", path, "--weight", "60", "--output", "json")
	require.NoError(t, err)

	var result PredictOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 60.0, result.Input.Weight)
	assert.Equal(t, 20.8, result.Result.BMI)
}

func TestPredictCommand_FlagsOnly(t *testing.T) {
	out, _, err := executeCommand(t, "predict",
		"--age", "25", "--gender", "male", "--height", "170", "--weight", "110",
		"--family-history", "yes", "--favc", "yes", "--fcvc", "1", "--ncp", "4",
		"--caec", "frequently", "--smoke", "no", "--ch2o", "1", "--scc", "no",
		"--faf", "0", "--tue", "3", "--calc", "never", "--mtrans", "private_car",
		"--output", "yaml",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "category: Obesity_Type_III")
}

func TestPredictCommand_MissingFields(t *testing.T) {
	_, stderr, err := executeCommand(t, "predict", "--age", "25")
	require.Error(t, err)
	assert.Contains(t, stderr, "gender: is required")
}
