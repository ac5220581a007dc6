package profiler

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lacquerai/weighin/internal/chart"
)

// DefaultTarget is the class column of the obesity dataset.
const DefaultTarget = "NObeyesdad"

// HeadRows is the number of leading rows shown in a report.
const HeadRows = 5

// DType is the inferred storage type of a column.
type DType string

const (
	DTypeInt    DType = "int64"
	DTypeFloat  DType = "float64"
	DTypeObject DType = "object"
)

// ColumnInfo is the per column summary of the info section.
type ColumnInfo struct {
	Name    string `json:"name" yaml:"name"`
	DType   DType  `json:"dtype" yaml:"dtype"`
	NonNull int    `json:"non_null" yaml:"non_null"`
	Missing int    `json:"missing" yaml:"missing"`
	Unique  int    `json:"unique" yaml:"unique"`
}

// NumericSummary describes a numeric column.
type NumericSummary struct {
	Column   string         `json:"column" yaml:"column"`
	Count    int            `json:"count" yaml:"count"`
	Mean     float64        `json:"mean" yaml:"mean"`
	Std      float64        `json:"std" yaml:"std"`
	Min      float64        `json:"min" yaml:"min"`
	Q25      float64        `json:"q25" yaml:"q25"`
	Median   float64        `json:"median" yaml:"median"`
	Q75      float64        `json:"q75" yaml:"q75"`
	Max      float64        `json:"max" yaml:"max"`
	Box      chart.BoxStats `json:"box" yaml:"box"`
	Outliers int            `json:"outliers" yaml:"outliers"`
}

// CategoricalSummary describes a non numeric column.
type CategoricalSummary struct {
	Column string `json:"column" yaml:"column"`
	Count  int    `json:"count" yaml:"count"`
	Unique int    `json:"unique" yaml:"unique"`
	Top    string `json:"top" yaml:"top"`
	Freq   int    `json:"freq" yaml:"freq"`
}

// ClassCount is the number of rows of one target class.
type ClassCount struct {
	Class string `json:"class" yaml:"class"`
	Count int    `json:"count" yaml:"count"`
}

// Report is the full exploratory summary of a dataset.
type Report struct {
	Source            string               `json:"source,omitempty" yaml:"source,omitempty"`
	Rows              int                  `json:"rows" yaml:"rows"`
	Columns           int                  `json:"columns" yaml:"columns"`
	Header            []string             `json:"header" yaml:"header"`
	Head              [][]string           `json:"head" yaml:"head"`
	Info              []ColumnInfo         `json:"info" yaml:"info"`
	Numeric           []NumericSummary     `json:"numeric" yaml:"numeric"`
	Categorical       []CategoricalSummary `json:"categorical" yaml:"categorical"`
	Duplicates        int                  `json:"duplicates" yaml:"duplicates"`
	Target            string               `json:"target,omitempty" yaml:"target,omitempty"`
	ClassDistribution []ClassCount         `json:"class_distribution,omitempty" yaml:"class_distribution,omitempty"`
}

// Profile summarises ds. When target is non-empty it must name a column,
// whose class distribution is included.
func Profile(ds *Dataset, target string) (*Report, error) {
	report := &Report{
		Source:  ds.Source,
		Rows:    len(ds.Rows),
		Columns: len(ds.Columns),
		Header:  ds.Columns,
		Head:    ds.Head(HeadRows),
	}

	targetIdx := -1
	if target != "" {
		idx, err := ds.ColumnIndex(target)
		if err != nil {
			return nil, err
		}
		targetIdx = idx
		report.Target = target
	}

	numeric := make([]bool, len(ds.Columns))
	for i, name := range ds.Columns {
		values := presentValues(ds.Column(i))
		dtype := inferDType(values)
		numeric[i] = dtype != DTypeObject
		info := ColumnInfo{
			Name:    name,
			DType:   dtype,
			NonNull: len(values),
			Missing: len(ds.Rows) - len(values),
			Unique:  len(countValues(normalizeValues(values, numeric[i]))),
		}
		report.Info = append(report.Info, info)

		if info.DType == DTypeObject {
			report.Categorical = append(report.Categorical, summarizeCategorical(name, values))
		} else {
			report.Numeric = append(report.Numeric, summarizeNumeric(name, values))
		}
	}

	report.Duplicates = countDuplicates(ds.Rows, numeric)
	if targetIdx >= 0 {
		report.ClassDistribution = classDistribution(ds.Column(targetIdx))
	}
	return report, nil
}

// CountBars converts the class distribution into chart bars.
func (r *Report) CountBars() []chart.Bar {
	bars := make([]chart.Bar, 0, len(r.ClassDistribution))
	for _, c := range r.ClassDistribution {
		bars = append(bars, chart.Bar{Label: c.Class, Value: float64(c.Count)})
	}
	return bars
}

func presentValues(cells []string) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		if !IsMissing(c) {
			out = append(out, strings.TrimSpace(c))
		}
	}
	return out
}

func inferDType(values []string) DType {
	if len(values) == 0 {
		return DTypeFloat
	}
	isInt := true
	for _, v := range values {
		if isInt {
			if _, err := strconv.ParseInt(v, 10, 64); err == nil {
				continue
			}
			isInt = false
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return DTypeObject
		}
	}
	if isInt {
		return DTypeInt
	}
	return DTypeFloat
}

// normalizeValues rewrites numeric cells in their shortest form so that 2
// and 2.0 compare equal.
func normalizeValues(values []string, numeric bool) []string {
	if !numeric {
		return values
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = numericKey(v)
	}
	return out
}

func numericKey(v string) string {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func countValues(values []string) map[string]int {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	return counts
}

func summarizeCategorical(name string, values []string) CategoricalSummary {
	s := CategoricalSummary{Column: name, Count: len(values)}
	counts := countValues(values)
	s.Unique = len(counts)
	for v, n := range counts {
		if n > s.Freq || (n == s.Freq && v < s.Top) {
			s.Top, s.Freq = v, n
		}
	}
	return s
}

func summarizeNumeric(name string, values []string) NumericSummary {
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			nums = append(nums, f)
		}
	}
	sort.Float64s(nums)

	s := NumericSummary{Column: name, Count: len(nums)}
	if len(nums) == 0 {
		return s
	}

	sum := 0.0
	for _, v := range nums {
		sum += v
	}
	s.Mean = sum / float64(len(nums))
	if len(nums) > 1 {
		ss := 0.0
		for _, v := range nums {
			ss += (v - s.Mean) * (v - s.Mean)
		}
		s.Std = math.Sqrt(ss / float64(len(nums)-1))
	}
	s.Min = nums[0]
	s.Max = nums[len(nums)-1]
	s.Q25 = quantile(nums, 0.25)
	s.Median = quantile(nums, 0.5)
	s.Q75 = quantile(nums, 0.75)
	s.Box = boxStats(nums, s)
	s.Outliers = len(s.Box.Outliers)
	return s
}

// quantile uses linear interpolation between the closest ranks of a sorted
// slice.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func boxStats(sorted []float64, s NumericSummary) chart.BoxStats {
	iqr := s.Q75 - s.Q25
	lowFence := s.Q25 - 1.5*iqr
	highFence := s.Q75 + 1.5*iqr

	box := chart.BoxStats{
		Min:          s.Min,
		Q1:           s.Q25,
		Median:       s.Median,
		Q3:           s.Q75,
		Max:          s.Max,
		LowerWhisker: s.Q25,
		UpperWhisker: s.Q75,
	}
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			box.Outliers = append(box.Outliers, v)
			continue
		}
		box.LowerWhisker = math.Min(box.LowerWhisker, v)
		box.UpperWhisker = math.Max(box.UpperWhisker, v)
	}
	return box
}

// countDuplicates counts rows equal to an earlier row. Cells of numeric
// columns compare by value.
func countDuplicates(rows [][]string, numeric []bool) int {
	seen := make(map[string]bool, len(rows))
	dups := 0
	for _, row := range rows {
		key := rowKey(row, numeric)
		if seen[key] {
			dups++
			continue
		}
		seen[key] = true
	}
	return dups
}

func rowKey(row []string, numeric []bool) string {
	cells := make([]string, len(row))
	for i, c := range row {
		switch {
		case IsMissing(c):
			cells[i] = "\x00"
		case i < len(numeric) && numeric[i]:
			cells[i] = numericKey(strings.TrimSpace(c))
		default:
			cells[i] = strings.TrimSpace(c)
		}
	}
	return strings.Join(cells, "\x1f")
}

func classDistribution(cells []string) []ClassCount {
	counts := countValues(presentValues(cells))
	out := make([]ClassCount, 0, len(counts))
	for class, n := range counts {
		out = append(out, ClassCount{Class: class, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Class < out[j].Class
	})
	return out
}
