package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/civicgive/compliance-cli/internal/election"
	"github.com/civicgive/compliance-cli/internal/model"
)

var (
	notifyState      string
	notifyNewPrimary string
	notifyNewGeneral string
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Apply an election-date change and notify affected donors",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		state := strings.ToUpper(notifyState)
		oldDates := env.Resolver.Resolve(ctx, state, election.CycleYear(time.Now()))

		newDates := model.ElectionDates{State: state}
		newDates.General, err = time.Parse("2006-01-02", notifyNewGeneral)
		if err != nil {
			return eris.Wrap(err, "parse --new-general")
		}
		if notifyNewPrimary != "" {
			primary, err := time.Parse("2006-01-02", notifyNewPrimary)
			if err != nil {
				return eris.Wrap(err, "parse --new-primary")
			}
			newDates.Primary = &primary
		}

		summary, err := env.Notifier.HandleElectionDateChange(ctx, state, *oldDates, newDates)
		if err != nil {
			return err
		}

		out, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	notifyCmd.Flags().StringVar(&notifyState, "state", "", "two-letter state code (required)")
	notifyCmd.Flags().StringVar(&notifyNewPrimary, "new-primary", "", "new primary date, YYYY-MM-DD (omit when the state has none)")
	notifyCmd.Flags().StringVar(&notifyNewGeneral, "new-general", "", "new general election date, YYYY-MM-DD (required)")
	_ = notifyCmd.MarkFlagRequired("state")
	_ = notifyCmd.MarkFlagRequired("new-general")
	rootCmd.AddCommand(notifyCmd)
}
