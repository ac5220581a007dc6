package cli

import (
	"fmt"
	"strconv"

	"github.com/lacquerai/weighin/internal/execcontext"
	"github.com/lacquerai/weighin/internal/scorer"
	"github.com/lacquerai/weighin/internal/style"
	"github.com/spf13/cobra"
)

// categoriesCmd represents the categories command
var categoriesCmd = &cobra.Command{
	Use:   "categories [category]",
	Short: "List categories and their recommendations",
	Long: `List every category the scorer can assign, from least to most severe.

Given a category key, print the recommendations for that category instead.`,
	Example: `
  weighin categories
  weighin categories Obesity_Type_I
  weighin categories --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runCtx := execcontext.RunContext{
			Context: cmd.Context(),
			StdOut:  cmd.OutOrStdout(),
			StdErr:  cmd.ErrOrStderr(),
		}
		if len(args) == 1 {
			return showRecommendations(runCtx, args[0], currentFormat())
		}
		return listCategories(runCtx, currentFormat())
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

// CategoryEntry is one row of the categories listing.
type CategoryEntry struct {
	Rank            int      `json:"rank" yaml:"rank"`
	Category        string   `json:"category" yaml:"category"`
	Label           string   `json:"label" yaml:"label"`
	Icon            string   `json:"icon" yaml:"icon"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
}

func categoryEntries() []CategoryEntry {
	entries := make([]CategoryEntry, 0, len(scorer.Categories()))
	for _, c := range scorer.Categories() {
		meta, _ := scorer.MetadataFor(c)
		entries = append(entries, CategoryEntry{
			Rank:            c.Rank(),
			Category:        string(c),
			Label:           meta.Label,
			Icon:            meta.Icon,
			Recommendations: scorer.Recommendations(string(c)),
		})
	}
	return entries
}

func listCategories(runCtx execcontext.RunContext, format string) error {
	entries := categoryEntries()
	return writeOutput(runCtx.StdOut, format, entries, func() {
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{
				strconv.Itoa(e.Rank),
				e.Category,
				style.CategoryStyle(scorer.Category(e.Category)).Render(e.Label),
			})
		}
		printTable(runCtx, []string{"Rank", "Category", "Label"}, rows)
	})
}

func showRecommendations(runCtx execcontext.RunContext, key, format string) error {
	category, err := scorer.ParseCategory(key)
	if err != nil {
		return err
	}
	meta, _ := scorer.MetadataFor(category)
	recs := scorer.Recommendations(key)

	data := map[string]any{
		"category":        string(category),
		"label":           meta.Label,
		"recommendations": recs,
	}
	return writeOutput(runCtx.StdOut, format, data, func() {
		fmt.Fprintf(runCtx, "%s %s\n\n", meta.Icon, style.CategoryStyle(category).Render(meta.Label))
		for _, rec := range recs {
			fmt.Fprintf(runCtx, "  • %s\n", rec)
		}
	})
}
