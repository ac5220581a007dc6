package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/lacquerai/weighin/internal/dataset"
	"github.com/lacquerai/weighin/internal/profiler"
	"github.com/lacquerai/weighin/internal/schema"
	"github.com/lacquerai/weighin/internal/scorer"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generatedCSV(t *testing.T, rows int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, dataset.Generate(context.Background(), &buf, dataset.Options{Rows: rows, Seed: 4}))
	return writeFile(t, "data.csv", buf.String())
}

func TestRunGenerate_File(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sample.csv")

	runCtx, stdout, stderr := bufferContext()
	require.NoError(t, runGenerate(runCtx, out, dataset.Options{Rows: 20, Seed: 3}))

	assert.Empty(t, stdout.String())
	assert.Contains(t, ansi.Strip(stderr.String()), "Wrote 20 records to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 21)
	assert.Equal(t, strings.Join(dataset.Header, ","), lines[0])
}

func TestRunGenerate_Stdout(t *testing.T) {
	runCtx, stdout, _ := bufferContext()
	require.NoError(t, runGenerate(runCtx, "", dataset.Options{Rows: 5, Seed: 3}))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	assert.Len(t, lines, 6)
}

func TestRunGenerate_Quiet(t *testing.T) {
	viper.Set("quiet", true)
	t.Cleanup(func() { viper.Set("quiet", false) })

	runCtx, _, stderr := bufferContext()
	require.NoError(t, runGenerate(runCtx, "", dataset.Options{Rows: 5, Seed: 3}))
	assert.Empty(t, stderr.String())
}

func TestRunProfile_Text(t *testing.T) {
	t.Setenv("WEIGHIN_TEST", "true")
	path := generatedCSV(t, 30)

	runCtx, stdout, stderr := bufferContext()
	require.NoError(t, runProfile(runCtx, path, profiler.DefaultTarget, "", "text"))

	assert.Contains(t, stderr.String(), "[SPINNER START]")
	assert.Contains(t, stderr.String(), "[SPINNER STOP]")
	assert.Contains(t, ansi.Strip(stdout.String()), profiler.DefaultTarget)
}

func TestRunProfile_JSONWithCharts(t *testing.T) {
	t.Setenv("WEIGHIN_TEST", "true")
	path := generatedCSV(t, 30)
	chartDir := filepath.Join(t.TempDir(), "charts")

	runCtx, stdout, stderr := bufferContext()
	require.NoError(t, runProfile(runCtx, path, profiler.DefaultTarget, chartDir, "json"))

	var report profiler.Report
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, 30, report.Rows)
	assert.NotEmpty(t, report.ClassDistribution)

	_, err := os.Stat(filepath.Join(chartDir, "countplot.svg"))
	assert.NoError(t, err)
	assert.Contains(t, ansi.Strip(stderr.String()), "chart(s) to "+chartDir)
}

func TestRunProfile_UnknownTarget(t *testing.T) {
	t.Setenv("WEIGHIN_TEST", "true")
	path := generatedCSV(t, 5)

	runCtx, _, _ := bufferContext()
	err := runProfile(runCtx, path, "missing", "", "text")
	assert.ErrorIs(t, err, profiler.ErrUnknownColumn)
}

func TestListCategories(t *testing.T) {
	runCtx, stdout, _ := bufferContext()
	require.NoError(t, listCategories(runCtx, "text"))

	text := ansi.Strip(stdout.String())
	for _, c := range scorer.Categories() {
		assert.Contains(t, text, string(c))
	}
}

func TestListCategories_JSON(t *testing.T) {
	runCtx, stdout, _ := bufferContext()
	require.NoError(t, listCategories(runCtx, "json"))

	var entries []CategoryEntry
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &entries))
	require.Len(t, entries, len(scorer.Categories()))
	assert.Equal(t, string(scorer.NormalWeight), entries[0].Category)
	assert.Equal(t, 5, entries[5].Rank)
}

func TestShowRecommendations(t *testing.T) {
	runCtx, stdout, _ := bufferContext()
	require.NoError(t, showRecommendations(runCtx, "Obesity_Type_I", "text"))

	text := ansi.Strip(stdout.String())
	assert.Contains(t, text, "Obesity Type I")
	for _, rec := range scorer.Recommendations("Obesity_Type_I") {
		assert.Contains(t, text, rec)
	}

	err := showRecommendations(runCtx, "Heavy", "text")
	assert.ErrorIs(t, err, scorer.ErrUnknownOption)
}

func TestSchemaCommand(t *testing.T) {
	out, _, err := executeCommand(t, "schema")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, schema.ID, doc["$id"])
}

func TestServerConfig_Defaults(t *testing.T) {
	config, err := serverConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, 30*time.Minute, config.SessionTTL)
}

func TestServerConfig_Overrides(t *testing.T) {
	viper.Set("serve.port", 9191)
	viper.Set("serve.session-ttl", "45m")
	t.Cleanup(func() {
		viper.Set("serve.port", nil)
		viper.Set("serve.session-ttl", nil)
	})

	config, err := serverConfig()
	require.NoError(t, err)
	assert.Equal(t, 9191, config.Port)
	assert.Equal(t, 45*time.Minute, config.SessionTTL)
	assert.Equal(t, "localhost", config.Host)
}

func TestServerConfig_Invalid(t *testing.T) {
	viper.Set("serve.history-size", 0)
	t.Cleanup(func() { viper.Set("serve.history-size", nil) })

	_, err := serverConfig()
	assert.ErrorContains(t, err, "history-size must be positive")
}
