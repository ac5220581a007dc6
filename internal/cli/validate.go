package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lacquerai/weighin/internal/execcontext"
	"github.com/lacquerai/weighin/internal/schema"
	"github.com/lacquerai/weighin/internal/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate record files against the input schema",
	Long: `Validate YAML or JSON record files against the input record JSON schema.

This command checks:
- YAML or JSON syntax validity
- that every field is present
- field types, enumerated options and numeric ranges

Examples:
  weighin validate record.yaml                  # Validate single file
  weighin validate records/*.yaml               # Validate multiple files
  weighin validate --recursive ./records        # Validate directory recursively
  weighin validate --output json record.yaml    # JSON output for CI/CD`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runCtx := execcontext.RunContext{
			Context: cmd.Context(),
			StdOut:  cmd.OutOrStdout(),
			StdErr:  cmd.ErrOrStderr(),
		}
		summary, err := validateRecords(runCtx, args, recursive, currentFormat())
		if err != nil {
			return err
		}
		if summary.Invalid > 0 {
			return fmt.Errorf("%d of %d record file(s) failed validation", summary.Invalid, summary.Total)
		}
		return nil
	},
}

var (
	recursive bool
	showAll   bool
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "recursively validate files in directories")
	validateCmd.Flags().BoolVar(&showAll, "show-all", false, "show all validation results, including successful ones")
}

// ValidationResult represents the result of validating a record file
type ValidationResult struct {
	File     string        `json:"file" yaml:"file"`
	Valid    bool          `json:"valid" yaml:"valid"`
	Duration time.Duration `json:"duration_ms" yaml:"duration_ms"`
	Errors   []string      `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ValidationSummary represents the summary of all validation results
type ValidationSummary struct {
	Total    int                `json:"total" yaml:"total"`
	Valid    int                `json:"valid" yaml:"valid"`
	Invalid  int                `json:"invalid" yaml:"invalid"`
	Duration time.Duration      `json:"total_duration_ms" yaml:"total_duration_ms"`
	Results  []ValidationResult `json:"results" yaml:"results"`
}

func validateRecords(runCtx execcontext.RunContext, args []string, recursive bool, format string) (*ValidationSummary, error) {
	start := time.Now()

	files, err := collectFiles(args, recursive)
	if err != nil {
		return nil, fmt.Errorf("failed to collect files: %w", err)
	}

	summary := &ValidationSummary{Results: []ValidationResult{}}
	if len(files) == 0 {
		style.Warning(runCtx.StdErr, "No record files found to validate")
		return summary, nil
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}

	text := format == "text" || format == ""
	for _, file := range files {
		result := validateSingleFile(validator, file)
		summary.Results = append(summary.Results, result)

		if text && !viper.GetBool("quiet") {
			if result.Valid {
				if showAll {
					style.Success(runCtx, fmt.Sprintf("%s (%v)", file, result.Duration))
				}
			} else {
				style.Error(runCtx, fmt.Sprintf("%s (%v)", file, result.Duration))
				for _, errMsg := range result.Errors {
					fmt.Fprintf(runCtx, "  %s\n", errMsg)
				}
			}
		}
	}

	summary.Total = len(summary.Results)
	summary.Duration = time.Since(start)
	for _, result := range summary.Results {
		if result.Valid {
			summary.Valid++
		} else {
			summary.Invalid++
		}
	}

	err = writeOutput(runCtx.StdOut, format, summary, func() {
		printValidationSummary(runCtx, summary)
	})
	return summary, err
}

func validateSingleFile(v *schema.Validator, filename string) ValidationResult {
	start := time.Now()
	result := ValidationResult{
		File:   filename,
		Valid:  true,
		Errors: []string{},
	}

	res, err := v.ValidateFile(filename)
	result.Duration = time.Since(start)

	switch {
	case err != nil:
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	case !res.Valid:
		result.Valid = false
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", e.Path, e.Message))
		}
	}

	log.Debug().
		Str("file", filename).
		Bool("valid", result.Valid).
		Dur("duration", result.Duration).
		Msg("Validated record file")

	return result
}

func collectFiles(args []string, recursive bool) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		switch {
		case info.IsDir() && recursive:
			err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && isRecordFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("error walking directory %s: %w", arg, err)
			}
		case info.IsDir():
			return nil, fmt.Errorf("%s is a directory, use --recursive to validate directories", arg)
		case isRecordFile(arg):
			files = append(files, arg)
		default:
			return nil, fmt.Errorf("%s is not a record file (.yaml, .yml or .json)", arg)
		}
	}

	return files, nil
}

func isRecordFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func printValidationSummary(runCtx execcontext.RunContext, summary *ValidationSummary) {
	if viper.GetBool("quiet") {
		return
	}

	fmt.Fprintln(runCtx)
	if summary.Invalid == 0 {
		style.Success(runCtx, fmt.Sprintf("All %d record file(s) are valid (%v)", summary.Total, summary.Duration))
	} else {
		style.Error(runCtx, fmt.Sprintf("%d of %d record file(s) failed validation (%v)", summary.Invalid, summary.Total, summary.Duration))
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(runCtx, "\nDetailed results:\n")
		rows := make([][]string, len(summary.Results))
		for i, result := range summary.Results {
			status := "✅ Valid"
			if !result.Valid {
				status = "❌ Invalid"
			}
			rows[i] = []string{result.File, status, result.Duration.String()}
		}
		printTable(runCtx, []string{"File", "Status", "Duration"}, rows)
	}
}
