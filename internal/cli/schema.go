package cli

import (
	"fmt"

	"github.com/lacquerai/weighin/internal/schema"
	"github.com/spf13/cobra"
)

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Output the input record JSON schema",
	Long:  `Output the JSON schema that record files are validated against by the validate command.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaBytes, err := schema.Generate()
		if err != nil {
			return fmt.Errorf("error generating schema: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(schemaBytes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
