// Package dataset synthesises survey records in the layout of the public
// obesity levels dataset and labels them with the scorer.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/jaswdr/faker"
	"github.com/lacquerai/weighin/internal/scorer"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

// DefaultRows is the row count of the original dataset.
const DefaultRows = 2111

// Header is the column layout of the original dataset. Height is in metres.
var Header = []string{
	"Gender", "Age", "Height", "Weight", "family_history_with_overweight",
	"FAVC", "FCVC", "NCP", "CAEC", "SMOKE", "CH2O", "SCC", "FAF", "TUE",
	"CALC", "MTRANS", "NObeyesdad",
}

// Options controls a generation run.
type Options struct {
	Rows int
	Seed int64
	// Progress receives a progress bar when non-nil.
	Progress io.Writer
}

// Sample is one generated record and the label the scorer gave it.
type Sample struct {
	Record scorer.InputRecord
	Result scorer.PredictionResult
}

// Generator produces records from a seeded faker so runs are reproducible.
type Generator struct {
	fake faker.Faker
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{fake: faker.NewWithSeed(rand.NewSource(seed))}
}

// Record draws one record inside the form's domains. Weight is derived from a
// drawn BMI so the body measurements stay plausible.
func (g *Generator) Record() scorer.InputRecord {
	f := g.fake

	gender := scorer.Genders[f.IntBetween(0, len(scorer.Genders)-1)]
	var height float64
	if gender == scorer.Male {
		height = f.Float64(1, 160, 195)
	} else {
		height = f.Float64(1, 148, 180)
	}
	bmi := f.Float64(1, 16, 48)
	meters := height / 100
	weight := math.Round(bmi*meters*meters*10) / 10
	weight = math.Max(30, math.Min(200, weight))

	return scorer.InputRecord{
		Age:           f.IntBetween(14, 61),
		Gender:        gender,
		Height:        height,
		Weight:        weight,
		FAVC:          pick(f, scorer.YesNoOptions),
		FCVC:          f.IntBetween(1, 3),
		NCP:           f.IntBetween(1, 4),
		CAEC:          pick(f, scorer.Frequencies),
		SCC:           pick(f, scorer.YesNoOptions),
		Smoke:         pick(f, scorer.YesNoOptions),
		CH2O:          f.IntBetween(1, 3),
		CALC:          pick(f, scorer.Frequencies),
		FamilyHistory: pick(f, scorer.YesNoOptions),
		FAF:           f.IntBetween(0, 4),
		TUE:           f.IntBetween(0, 3),
		MTRANS:        pick(f, scorer.Transports),
	}
}

// Sample draws a record and labels it.
func (g *Generator) Sample() Sample {
	rec := g.Record()
	return Sample{Record: rec, Result: scorer.Predict(rec)}
}

func pick[T any](f faker.Faker, options []T) T {
	return options[f.IntBetween(0, len(options)-1)]
}

// Generate writes opts.Rows labelled records as CSV to w, header first.
func Generate(ctx context.Context, w io.Writer, opts Options) error {
	if opts.Rows <= 0 {
		return fmt.Errorf("rows must be positive, got %d", opts.Rows)
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(opts.Rows,
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("generating records"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(opts.Progress)
			}),
		)
	}

	out := csv.NewWriter(w)
	if err := out.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	gen := NewGenerator(opts.Seed)
	counts := make(map[scorer.Category]int)
	for i := 0; i < opts.Rows; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		s := gen.Sample()
		counts[s.Result.Category]++
		if err := out.Write(Row(s)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	event := log.Debug().Int("rows", opts.Rows).Int64("seed", opts.Seed)
	for _, c := range scorer.Categories() {
		event = event.Int(string(c), counts[c])
	}
	event.Msg("Dataset generated")
	return nil
}

// Row renders a sample with the original dataset's tokens.
func Row(s Sample) []string {
	r := s.Record
	return []string{
		titleCase(string(r.Gender)),
		strconv.Itoa(r.Age),
		strconv.FormatFloat(r.Height/100, 'f', 2, 64),
		strconv.FormatFloat(r.Weight, 'f', 1, 64),
		string(r.FamilyHistory),
		string(r.FAVC),
		strconv.Itoa(r.FCVC),
		strconv.Itoa(r.NCP),
		frequencyToken(r.CAEC),
		string(r.Smoke),
		strconv.Itoa(r.CH2O),
		string(r.SCC),
		strconv.Itoa(r.FAF),
		strconv.Itoa(r.TUE),
		frequencyToken(r.CALC),
		transportToken(r.MTRANS),
		string(s.Result.Category),
	}
}

func frequencyToken(f scorer.Frequency) string {
	if f == scorer.Never {
		return "no"
	}
	return titleCase(string(f))
}

func transportToken(t scorer.Transport) string {
	switch t {
	case scorer.Public:
		return "Public_Transportation"
	case scorer.PrivateCar:
		return "Automobile"
	default:
		return titleCase(string(t))
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
