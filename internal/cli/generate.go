package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/lacquerai/weighin/internal/dataset"
	"github.com/lacquerai/weighin/internal/execcontext"
	"github.com/lacquerai/weighin/internal/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	generateRows int
	generateSeed int64
	generateOut  string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic survey dataset",
	Long: `Generate a synthetic survey dataset in the CSV layout of the public obesity dataset.

Each row is a random, valid record labelled with the category the scorer assigns
to it. The same seed always produces the same file.`,
	Example: `
  weighin generate --rows 500 --out sample.csv
  weighin generate --seed 7 | weighin profile /dev/stdin`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runCtx := execcontext.RunContext{
			Context: cmd.Context(),
			StdOut:  cmd.OutOrStdout(),
			StdErr:  cmd.ErrOrStderr(),
		}
		return runGenerate(runCtx, generateOut, dataset.Options{
			Rows: generateRows,
			Seed: generateSeed,
		})
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVarP(&generateRows, "rows", "n", dataset.DefaultRows, "number of records to generate")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 1, "random seed")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "output file (default stdout)")
}

func runGenerate(runCtx execcontext.RunContext, out string, opts dataset.Options) error {
	if !viper.GetBool("quiet") {
		opts.Progress = runCtx.StdErr
	}

	var w io.Writer = runCtx.StdOut
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	if err := dataset.Generate(runCtx.Context, w, opts); err != nil {
		return err
	}

	if out != "" && !viper.GetBool("quiet") {
		style.Success(runCtx.StdErr, fmt.Sprintf("Wrote %d records to %s", opts.Rows, out))
	}
	return nil
}
