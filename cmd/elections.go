package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/civicgive/compliance-cli/internal/election"
)

var (
	electionsState string
	electionsYear  int
)

var electionsCmd = &cobra.Command{
	Use:   "elections",
	Short: "Resolve a state's election dates for a cycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx, false)
		if err != nil {
			return err
		}

		year := electionsYear
		if year == 0 {
			year = election.CycleYear(time.Now())
		}

		dates := env.Resolver.Resolve(ctx, electionsState, year)
		out, _ := json.MarshalIndent(dates, "", "  ")
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	electionsCmd.Flags().StringVar(&electionsState, "state", "", "two-letter state code (required)")
	electionsCmd.Flags().IntVar(&electionsYear, "year", 0, "election year (default: current cycle)")
	_ = electionsCmd.MarkFlagRequired("state")
	rootCmd.AddCommand(electionsCmd)
}
