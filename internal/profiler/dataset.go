package profiler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrEmptyDataset is returned when a file has no header row.
	ErrEmptyDataset = errors.New("dataset is empty")
	// ErrUnknownColumn is returned when a requested column is not in the header.
	ErrUnknownColumn = errors.New("unknown column")
)

// missingTokens are the cell values read as missing, matching the usual
// spreadsheet and dataframe conventions.
var missingTokens = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-NaN":     true,
	"-nan":     true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// Dataset is a CSV table held in memory as strings.
type Dataset struct {
	Source  string
	Columns []string
	Rows    [][]string
}

// Load reads a CSV file with a header row.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	ds.Source = path
	return ds, nil
}

// Read parses CSV from r. Every row must have as many fields as the header.
func Read(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	ds := &Dataset{Columns: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse row: %w", err)
		}
		ds.Rows = append(ds.Rows, record)
	}
	return ds, nil
}

// ColumnIndex returns the position of name in the header.
func (ds *Dataset) ColumnIndex(name string) (int, error) {
	for i, c := range ds.Columns {
		if c == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// Column returns every cell of column i.
func (ds *Dataset) Column(i int) []string {
	out := make([]string, len(ds.Rows))
	for r, row := range ds.Rows {
		out[r] = row[i]
	}
	return out
}

// Head returns up to n leading rows.
func (ds *Dataset) Head(n int) [][]string {
	if n > len(ds.Rows) {
		n = len(ds.Rows)
	}
	return ds.Rows[:n]
}

// IsMissing reports whether a cell counts as a missing value.
func IsMissing(cell string) bool {
	return missingTokens[strings.TrimSpace(cell)]
}
