package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lacquerai/weighin/internal/chart"
	"github.com/lacquerai/weighin/internal/execcontext"
	"github.com/lacquerai/weighin/internal/scorer"
	"github.com/lacquerai/weighin/internal/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

var (
	predictFile    string
	predictExplain bool
)

// predictFields are the record fields that can be given as flags. Flag names
// use dashes, record keys use underscores.
var predictFields = []struct {
	name    string
	usage   string
	numeric bool
}{
	{"age", "age in years (10-100)", true},
	{"gender", "male or female", false},
	{"height", "height in cm (100-250)", false},
	{"weight", "weight in kg (30-200)", false},
	{"family-history", "family history of overweight (yes/no)", false},
	{"favc", "frequent high calorie food (yes/no)", false},
	{"fcvc", "vegetables with meals (1-3)", true},
	{"ncp", "main meals per day (1-4)", true},
	{"caec", "eating between meals (never, sometimes, frequently, always)", false},
	{"smoke", "smoker (yes/no)", false},
	{"ch2o", "daily water (1-3)", true},
	{"scc", "monitors calories (yes/no)", false},
	{"faf", "active days per week (0-4)", true},
	{"tue", "screen time (0-3)", true},
	{"calc", "alcohol (never, sometimes, frequently, always)", false},
	{"mtrans", "transportation (walking, public, private_car)", false},
}

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Estimate the obesity category of one record",
	Long: `Estimate the obesity category of one survey record.

The record is read from a YAML or JSON file, from flags, or both; flags override
values from the file. Every field is required.`,
	Example: `
  weighin predict --file record.yaml
  weighin predict --file record.yaml --weight 82
  weighin predict --age 25 --gender male --height 170 --weight 110 \
    --family-history yes --favc yes --fcvc 1 --ncp 4 --caec frequently \
    --smoke no --ch2o 1 --scc no --faf 0 --tue 3 --calc never --mtrans private_car
  weighin predict --file record.yaml --output json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runCtx := execcontext.RunContext{
			Context: cmd.Context(),
			StdOut:  cmd.OutOrStdout(),
			StdErr:  cmd.ErrOrStderr(),
		}

		values, err := loadRecordValues(predictFile)
		if err != nil {
			return err
		}
		cmd.Flags().Visit(func(f *pflag.Flag) {
			if isPredictField(f.Name) {
				values[strings.ReplaceAll(f.Name, "-", "_")] = f.Value.String()
			}
		})

		return runPredict(runCtx, values, currentFormat(), predictExplain)
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringVarP(&predictFile, "file", "f", "", "YAML or JSON file holding the record")
	predictCmd.Flags().BoolVar(&predictExplain, "explain", false, "show the contribution of each risk rule")
	for _, field := range predictFields {
		if field.numeric {
			predictCmd.Flags().Int(field.name, 0, field.usage)
		} else {
			predictCmd.Flags().String(field.name, "", field.usage)
		}
	}
}

func isPredictField(name string) bool {
	for _, field := range predictFields {
		if field.name == name {
			return true
		}
	}
	return false
}

// PredictOutput is the structured result of the predict command.
type PredictOutput struct {
	Input           scorer.InputRecord      `json:"input" yaml:"input"`
	Result          scorer.PredictionResult `json:"result" yaml:"result"`
	Metadata        scorer.CategoryMetadata `json:"metadata" yaml:"metadata"`
	Recommendations []string                `json:"recommendations" yaml:"recommendations"`
	Contributions   []scorer.Contribution   `json:"contributions,omitempty" yaml:"contributions,omitempty"`
}

// loadRecordValues reads a record file into loosely typed values. An empty
// filename yields an empty map.
func loadRecordValues(filename string) (map[string]any, error) {
	values := map[string]any{}
	if filename == "" {
		return values, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(filename), ".json") {
		err = json.Unmarshal(data, &values)
	} else {
		err = yaml.Unmarshal(data, &values)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	if values == nil {
		values = map[string]any{}
	}
	return values, nil
}

func runPredict(runCtx execcontext.RunContext, values map[string]any, format string, explain bool) error {
	record, err := scorer.DecodeRecord(values)
	if err == nil {
		_, err = scorer.Evaluate(record)
	}
	if err != nil {
		var verr *scorer.ValidationError
		if errors.As(err, &verr) {
			style.Error(runCtx.StdErr, "Invalid record")
			for _, fe := range verr.Errors {
				fmt.Fprintf(runCtx.StdErr, "  %s: %s\n", fe.Field, fe.Message)
			}
		}
		return err
	}

	result := scorer.Predict(record)
	meta, _ := scorer.MetadataFor(result.Category)
	out := PredictOutput{
		Input:           record,
		Result:          result,
		Metadata:        meta,
		Recommendations: scorer.Recommendations(string(result.Category)),
	}
	if explain {
		out.Contributions = scorer.Explain(record)
	}

	log.Debug().
		Str("category", string(result.Category)).
		Int("risk_score", result.RiskScore).
		Msg("Record scored")

	return writeOutput(runCtx.StdOut, format, out, func() {
		printPrediction(runCtx, out)
	})
}

func printPrediction(runCtx execcontext.RunContext, out PredictOutput) {
	w := runCtx.StdOut

	var body strings.Builder
	fmt.Fprintf(&body, "%s %s\n\n", out.Metadata.Icon, style.CategoryStyle(out.Result.Category).Render(out.Metadata.Label))
	fmt.Fprintf(&body, "%s%.1f\n", style.LabelStyle.Render("BMI"), out.Result.BMI)
	fmt.Fprintf(&body, "%s%d\n", style.LabelStyle.Render("Risk score"), out.Result.RiskScore)
	fmt.Fprintf(&body, "%s%d%%", style.LabelStyle.Render("Confidence"), out.Result.Confidence)
	fmt.Fprintln(w, style.ResultBoxStyle.Render(body.String()))

	fmt.Fprintln(w, chart.TerminalBMI(out.Result.BMI, 48))
	fmt.Fprintln(w)

	fmt.Fprintln(w, style.TitleStyle.Render("Recommendations"))
	for _, rec := range out.Recommendations {
		fmt.Fprintf(w, "  • %s\n", rec)
	}

	if len(out.Contributions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, style.TitleStyle.Render("Risk factors"))
		rows := make([][]string, 0, len(out.Contributions))
		for _, c := range out.Contributions {
			rows = append(rows, []string{c.Rule, fmt.Sprintf("%+d", c.Delta)})
		}
		printTable(w, []string{"Rule", "Delta"}, rows)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, style.MutedStyle.Render("This estimate is informational and not a medical diagnosis."))
}
