package cli

import (
	"fmt"

	"github.com/lacquerai/weighin/internal/execcontext"
	"github.com/lacquerai/weighin/internal/profiler"
	"github.com/lacquerai/weighin/internal/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	profileTarget   string
	profileChartDir string
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile <dataset.csv>",
	Short: "Summarise a survey dataset",
	Long: `Print an exploratory summary of a CSV survey dataset: the first rows, column types,
missing values, numeric and categorical statistics, duplicates and the class
distribution of the target column.

With --chart-dir a count plot and one boxplot per numeric column are written as SVG.`,
	Example: `
  weighin profile ObesityDataSet.csv
  weighin profile data.csv --target NObeyesdad --chart-dir charts
  weighin profile data.csv --target "" --output json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runCtx := execcontext.RunContext{
			Context: cmd.Context(),
			StdOut:  cmd.OutOrStdout(),
			StdErr:  cmd.ErrOrStderr(),
		}
		return runProfile(runCtx, args[0], profileTarget, profileChartDir, currentFormat())
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().StringVar(&profileTarget, "target", profiler.DefaultTarget, "target column for the class distribution (empty to skip)")
	profileCmd.Flags().StringVar(&profileChartDir, "chart-dir", "", "directory to write SVG charts into")
}

func runProfile(runCtx execcontext.RunContext, path, target, chartDir, format string) error {
	spin := style.NewSpinner(runCtx.StdErr)
	spin.SetSuffix(fmt.Sprintf(" Profiling %s", path))
	if !viper.GetBool("quiet") {
		spin.Start()
	}

	ds, err := profiler.Load(path)
	if err != nil {
		spin.Stop()
		return err
	}
	report, err := profiler.Profile(ds, target)
	spin.Stop()
	if err != nil {
		return err
	}

	if err := writeOutput(runCtx.StdOut, format, report, func() {
		profiler.WriteText(runCtx.StdOut, report)
	}); err != nil {
		return err
	}

	if chartDir == "" {
		return nil
	}
	written, err := profiler.WriteCharts(chartDir, report)
	if err != nil {
		return err
	}
	style.Success(runCtx.StdErr, fmt.Sprintf("Wrote %d chart(s) to %s", len(written), chartDir))
	return nil
}
