package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gwu-libraries/elements-migrate/mapping"
	"github.com/gwu-libraries/elements-migrate/pipeline"
	"github.com/gwu-libraries/elements-migrate/store"
)

var (
	inputFile   string
	outputFile  string
	profileName string
	profileFile string
	reviewDB    string
)

var personsCmd = &cobra.Command{
	Use:   "persons",
	Short: "Extract person rows from a merged report",
	Long: `Extract person rows from a merged activity report.

Each source row's contributor string is parsed into individual names;
where the run profile includes the record owner, the owner is matched
against the parsed names and appended when absent. Inputs that cannot
be parsed, or that blow the per-parse time budget, fall back to the
owner and can be saved to a review database for later fixup.

Input defaults to stdin, output defaults to stdout.

Examples:
  elements-migrate persons --profile publication -i merged.csv -o persons.csv
  cat merged.csv | elements-migrate persons --profile activity
  elements-migrate persons --profile publication -i merged.csv --review-db review.db`,
	RunE: runPersons,
}

func init() {
	personsCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file (default: stdin)")
	personsCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	personsCmd.Flags().StringVarP(&profileName, "profile", "p", "publication", "Run profile name")
	personsCmd.Flags().StringVar(&profileFile, "profile-file", "", "Custom profile YAML file")
	personsCmd.Flags().StringVar(&reviewDB, "review-db", "", "SQLite database for unparseable inputs")
}

func runPersons(cmd *cobra.Command, args []string) (err error) {
	profile, err := resolveProfile()
	if err != nil {
		return err
	}

	var input io.Reader
	if inputFile != "" {
		f, err := os.Open(inputFile)
		if err != nil {
			return fmt.Errorf("opening input file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing input file: %w", cerr)
			}
		}()
		input = f
	} else {
		input = os.Stdin
	}

	runner := pipeline.New(profile)
	if reviewDB != "" {
		db, err := store.OpenDB(reviewDB)
		if err != nil {
			return err
		}
		defer db.Close()
		runner.Store = db
	}

	result, err := runner.Run(cmd.Context(), input)
	if err != nil {
		return err
	}

	var output io.Writer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output file: %w", cerr)
			}
		}()
		output = f
	} else {
		output = os.Stdout
	}

	if err := pipeline.WritePersons(output, result.Persons); err != nil {
		return err
	}

	slog.Info("run complete",
		"profile", profile.Name,
		"rows", result.Rows,
		"persons", len(result.Persons),
		"failures", len(result.Failures),
		"timeouts", len(result.Timeouts),
	)
	return nil
}

func resolveProfile() (*mapping.Profile, error) {
	if profileFile != "" {
		return mapping.LoadProfile(profileFile)
	}
	registry, err := mapping.NewProfileRegistry()
	if err != nil {
		return nil, err
	}
	profile, ok := registry.Get(profileName)
	if !ok {
		return nil, fmt.Errorf("unknown profile %q (try: %v)", profileName, registry.List())
	}
	return profile, nil
}
