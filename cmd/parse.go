package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gwu-libraries/elements-migrate/authors"
)

var parseRaw bool

var parseCmd = &cobra.Command{
	Use:   "parse <names>",
	Short: "Parse one contributor string",
	Long: `Parse a single contributor string and print the result as JSON,
one object per extracted name. Useful for checking how a problem
input from a report will be handled.

Examples:
  elements-migrate parse "Ledger H, Bar H, and CE Heath"
  elements-migrate parse --raw "Dr John Smith"`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseRaw, "raw", false, "Skip post-parse cleanup")
}

func runParse(cmd *cobra.Command, args []string) error {
	parser := authors.NewParser()
	parsed, err := parser.ParseOne(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("parsing names: %w", err)
	}
	if !parseRaw {
		parsed = parser.PostClean(parsed)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(parsed)
}
