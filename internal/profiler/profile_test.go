package profiler

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Gender,Age,Height,Weight,FAVC,NObeyesdad
Female,21,1.62,64,no,Normal_Weight
Female,21,1.52,56,no,Normal_Weight
Male,23,1.8,77,yes,Normal_Weight
Male,27,1.8,87,yes,Overweight_Level_I
Male,22,1.78,89.8,NA,Overweight_Level_II
Female,29,1.62,53,yes,Normal_Weight
Female,23,1.5,55,yes,Normal_Weight
Male,22,1.64,53,no,
Female,21,1.52,56,no,Normal_Weight
Male,61,1.85,120,yes,Obesity_Type_II
`

func loadSample(t *testing.T) *Dataset {
	t.Helper()
	ds, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return ds
}

func TestRead(t *testing.T) {
	ds := loadSample(t)

	assert.Equal(t, []string{"Gender", "Age", "Height", "Weight", "FAVC", "NObeyesdad"}, ds.Columns)
	assert.Len(t, ds.Rows, 10)
	assert.Len(t, ds.Head(5), 5)
	assert.Len(t, ds.Head(50), 10)
}

func TestRead_Empty(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrEmptyDataset))
}

func TestRead_RaggedRow(t *testing.T) {
	_, err := Read(strings.NewReader("a,b\n1,2\n3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse row")
}

func TestRead_StripsBOM(t *testing.T) {
	ds, err := Read(strings.NewReader("\ufeffGender,Age\nMale,20\n"))
	require.NoError(t, err)
	assert.Equal(t, "Gender", ds.Columns[0])
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, ds.Source)
}

func TestProfile(t *testing.T) {
	report, err := Profile(loadSample(t), DefaultTarget)
	require.NoError(t, err)

	assert.Equal(t, 10, report.Rows)
	assert.Equal(t, 6, report.Columns)
	assert.Len(t, report.Head, HeadRows)

	info := map[string]ColumnInfo{}
	for _, c := range report.Info {
		info[c.Name] = c
	}
	assert.Equal(t, DTypeObject, info["Gender"].DType)
	assert.Equal(t, DTypeInt, info["Age"].DType)
	assert.Equal(t, DTypeFloat, info["Height"].DType)
	assert.Equal(t, DTypeFloat, info["Weight"].DType)
	assert.Equal(t, 1, info["FAVC"].Missing)
	assert.Equal(t, 9, info["FAVC"].NonNull)
	assert.Equal(t, 1, info["NObeyesdad"].Missing)
	assert.Equal(t, 2, info["Gender"].Unique)
	assert.Equal(t, 4, info["NObeyesdad"].Unique)

	assert.Equal(t, 1, report.Duplicates)

	assert.Equal(t, []ClassCount{
		{Class: "Normal_Weight", Count: 6},
		{Class: "Obesity_Type_II", Count: 1},
		{Class: "Overweight_Level_I", Count: 1},
		{Class: "Overweight_Level_II", Count: 1},
	}, report.ClassDistribution)
}

func TestProfile_NumericSummary(t *testing.T) {
	report, err := Profile(loadSample(t), "")
	require.NoError(t, err)
	assert.Empty(t, report.ClassDistribution)

	var age NumericSummary
	for _, n := range report.Numeric {
		if n.Column == "Age" {
			age = n
		}
	}
	require.Equal(t, "Age", age.Column)

	// 21 21 21 22 22 23 23 27 29 61
	assert.Equal(t, 10, age.Count)
	assert.InDelta(t, 27.0, age.Mean, 1e-9)
	assert.InDelta(t, 12.2474, age.Std, 1e-3)
	assert.Equal(t, 21.0, age.Min)
	assert.Equal(t, 21.25, age.Q25)
	assert.Equal(t, 22.5, age.Median)
	assert.Equal(t, 26.0, age.Q75)
	assert.Equal(t, 61.0, age.Max)

	// fences 14.125 and 33.125
	assert.Equal(t, []float64{61}, age.Box.Outliers)
	assert.Equal(t, 1, age.Outliers)
	assert.Equal(t, 21.0, age.Box.LowerWhisker)
	assert.Equal(t, 29.0, age.Box.UpperWhisker)
}

func TestProfile_CategoricalSummary(t *testing.T) {
	report, err := Profile(loadSample(t), DefaultTarget)
	require.NoError(t, err)

	cats := map[string]CategoricalSummary{}
	for _, c := range report.Categorical {
		cats[c.Column] = c
	}

	assert.Equal(t, CategoricalSummary{Column: "Gender", Count: 10, Unique: 2, Top: "Female", Freq: 5}, cats["Gender"])
	assert.Equal(t, CategoricalSummary{Column: "FAVC", Count: 9, Unique: 2, Top: "yes", Freq: 5}, cats["FAVC"])
	assert.Equal(t, "Normal_Weight", cats["NObeyesdad"].Top)
}

func TestProfile_UnknownTarget(t *testing.T) {
	_, err := Profile(loadSample(t), "Class")
	assert.True(t, errors.Is(err, ErrUnknownColumn))
}

func TestProfile_AllMissingColumn(t *testing.T) {
	ds, err := Read(strings.NewReader("a,b\n1,\n2,NA\n"))
	require.NoError(t, err)

	report, err := Profile(ds, "")
	require.NoError(t, err)
	assert.Equal(t, DTypeFloat, report.Info[1].DType)
	assert.Equal(t, 2, report.Info[1].Missing)
	assert.Equal(t, 0, report.Numeric[1].Count)
}

func TestQuantile(t *testing.T) {
	assert.Equal(t, 5.0, quantile([]float64{5}, 0.25))
	assert.Equal(t, 1.75, quantile([]float64{1, 2, 3, 4}, 0.25))
	assert.Equal(t, 2.5, quantile([]float64{1, 2, 3, 4}, 0.5))
	assert.Equal(t, 3.25, quantile([]float64{1, 2, 3, 4}, 0.75))
}

func TestWriteText(t *testing.T) {
	report, err := Profile(loadSample(t), DefaultTarget)
	require.NoError(t, err)

	var out bytes.Buffer
	WriteText(&out, report)
	text := ansi.Strip(out.String())

	for _, heading := range []string{
		"First rows", "Dataset info", "Descriptive statistics", "Shape",
		"Missing values per column", "Unique values per column", "Duplicate rows",
		"Class distribution (NObeyesdad)", "Boxplots",
	} {
		assert.Contains(t, text, heading)
	}
	assert.Contains(t, text, "10 rows, 6 columns")
	assert.Contains(t, text, "(1 outliers)")

	snaps.MatchSnapshot(t, text)
}

func TestWriteCharts(t *testing.T) {
	report, err := Profile(loadSample(t), DefaultTarget)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "charts")
	paths, err := WriteCharts(dir, report)
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
	assert.Equal(t, []string{"countplot.svg", "boxplot_age.svg", "boxplot_height.svg", "boxplot_weight.svg"}, names)
}

func TestProfile_NumericCellsCompareByValue(t *testing.T) {
	ds, err := Read(strings.NewReader("Gender,Age,Weight\nMale,2,70\nMale,2.0,70.0\nFemale,02,65\nfemale,2,65\n"))
	require.NoError(t, err)

	report, err := Profile(ds, "")
	require.NoError(t, err)

	unique := map[string]int{}
	for _, info := range report.Info {
		unique[info.Name] = info.Unique
	}
	assert.Equal(t, 3, unique["Gender"])
	assert.Equal(t, 1, unique["Age"])
	assert.Equal(t, 2, unique["Weight"])
	assert.Equal(t, 1, report.Duplicates)
}
