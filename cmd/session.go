package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	sessionRefresh      bool
	sessionCheckWarning bool
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show the current congressional session and its end date",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx, false)
		if err != nil {
			return err
		}

		if sessionRefresh {
			env.Session.FetchSessionData(ctx, env.Session.CurrentCongress(), true)
		}

		info := env.Session.Info(ctx)
		out, _ := json.MarshalIndent(info, "", "  ")
		fmt.Println(string(out))

		// Warning-period check doubles as a cron exit status.
		if sessionCheckWarning && !info.InWarningPeriod {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	sessionCmd.Flags().BoolVar(&sessionRefresh, "refresh", false, "bypass the cached session payload")
	sessionCmd.Flags().BoolVar(&sessionCheckWarning, "check-warning", false, "exit non-zero unless inside the session-end warning period")
	rootCmd.AddCommand(sessionCmd)
}
