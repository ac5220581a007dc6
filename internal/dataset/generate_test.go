package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	_ "github.com/lacquerai/weighin/internal/testhelper"

	"github.com/lacquerai/weighin/internal/profiler"
	"github.com/lacquerai/weighin/internal/scorer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, opts Options) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Generate(context.Background(), &buf, opts))
	return buf.String()
}

func TestGenerate_Deterministic(t *testing.T) {
	a := generate(t, Options{Rows: 50, Seed: 11})
	b := generate(t, Options{Rows: 50, Seed: 11})
	c := generate(t, Options{Rows: 50, Seed: 12})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGenerate_Layout(t *testing.T) {
	out := generate(t, Options{Rows: 25, Seed: 1})

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 26)
	assert.Equal(t, Header, rows[0])

	for _, row := range rows[1:] {
		require.Len(t, row, len(Header))
		assert.Contains(t, []string{"Male", "Female"}, row[0])
		assert.Contains(t, []string{"no", "Sometimes", "Frequently", "Always"}, row[8])
		assert.Contains(t, []string{"no", "Sometimes", "Frequently", "Always"}, row[14])
		assert.Contains(t, []string{"Walking", "Public_Transportation", "Automobile"}, row[15])

		category, err := scorer.ParseCategory(row[16])
		require.NoError(t, err)
		assert.NotEqual(t, scorer.OverweightLevelII, category)
	}
}

func TestGenerator_RecordsAreValid(t *testing.T) {
	gen := NewGenerator(5)
	for i := 0; i < 500; i++ {
		rec := gen.Record()
		assert.NoError(t, rec.Validate(), "record %d: %+v", i, rec)
	}
}

func TestSample_LabelMatchesScorer(t *testing.T) {
	gen := NewGenerator(9)
	for i := 0; i < 100; i++ {
		s := gen.Sample()
		assert.Equal(t, scorer.Predict(s.Record), s.Result)
	}
}

func TestRow_Tokens(t *testing.T) {
	s := Sample{
		Record: scorer.InputRecord{
			Age: 35, Gender: scorer.Male, Height: 172, Weight: 112.7,
			FAVC: scorer.Yes, FCVC: 1, NCP: 4, CAEC: scorer.Never, SCC: scorer.No,
			Smoke: scorer.Yes, CH2O: 1, CALC: scorer.Frequently, FamilyHistory: scorer.Yes,
			FAF: 0, TUE: 3, MTRANS: scorer.Public,
		},
		Result: scorer.PredictionResult{Category: scorer.ObesityTypeIII},
	}

	assert.Equal(t, []string{
		"Male", "35", "1.72", "112.7", "yes", "yes", "1", "4", "no", "yes", "1",
		"no", "0", "3", "Frequently", "Public_Transportation", "Obesity_Type_III",
	}, Row(s))
}

func TestGenerate_ReadableByProfiler(t *testing.T) {
	out := generate(t, Options{Rows: 40, Seed: 3})

	ds, err := profiler.Read(strings.NewReader(out))
	require.NoError(t, err)

	report, err := profiler.Profile(ds, profiler.DefaultTarget)
	require.NoError(t, err)
	assert.Equal(t, 40, report.Rows)
	assert.Equal(t, len(Header), report.Columns)

	total := 0
	for _, c := range report.ClassDistribution {
		total += c.Count
	}
	assert.Equal(t, 40, total)
}

func TestGenerate_Progress(t *testing.T) {
	var progress bytes.Buffer
	generate(t, Options{Rows: 10, Seed: 1, Progress: &progress})
	assert.Contains(t, progress.String(), "generating records")
}

func TestGenerate_InvalidRows(t *testing.T) {
	err := Generate(context.Background(), &bytes.Buffer{}, Options{Rows: 0})
	assert.Error(t, err)
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Generate(ctx, &bytes.Buffer{}, Options{Rows: 10})
	assert.ErrorIs(t, err, context.Canceled)
}
