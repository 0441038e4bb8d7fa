package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gwu-libraries/elements-migrate/store"
)

var reviewDBPath string

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Inspect inputs saved for review",
	Long:  `List contributor strings a run could not parse, saved with --review-db.`,
}

var reviewTimeoutsCmd = &cobra.Command{
	Use:   "timeouts",
	Short: "List inputs that blew the parse time budget",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.OpenDB(reviewDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := db.Timeouts()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No timeouts recorded")
			return nil
		}
		for _, r := range records {
			fmt.Printf("%s\t%s\t%s\t%s\n", r.RecordedAt, r.ObjectID, r.FieldName, r.Input)
		}
		return nil
	},
}

var reviewFailuresCmd = &cobra.Command{
	Use:   "failures",
	Short: "List inputs the grammar rejected",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.OpenDB(reviewDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := db.Failures()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No failures recorded")
			return nil
		}
		for _, r := range records {
			fmt.Printf("%s\t%s\t%s\t%s\n", r.RecordedAt, r.ObjectID, r.Message, r.Input)
		}
		return nil
	},
}

func init() {
	reviewCmd.PersistentFlags().StringVar(&reviewDBPath, "db", "review.db", "Review database path")
	reviewCmd.AddCommand(reviewTimeoutsCmd)
	reviewCmd.AddCommand(reviewFailuresCmd)
}
