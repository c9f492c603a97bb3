package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/civicgive/compliance-cli/internal/model"
)

var (
	limitsDonorID string
	limitsTier    string
	limitsPolID   string
	limitsState   string
	limitsAmount  int64
)

var limitsCmd = &cobra.Command{
	Use:   "limits",
	Short: "Compute a donor's effective donation limits",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		donations, err := env.Directory.ActiveDonations(ctx, limitsDonorID)
		if err != nil {
			return err
		}

		tier := model.ComplianceTier(limitsTier)
		if !tier.Valid() {
			return eris.Errorf("unknown tier %q", limitsTier)
		}

		if limitsAmount > 0 {
			result := env.Calc.ValidateDonation(ctx, tier, donations, limitsAmount, limitsPolID, limitsState)
			out, _ := json.MarshalIndent(result, "", "  ")
			fmt.Println(string(out))
			if !result.Allowed() {
				os.Exit(1)
			}
			return nil
		}

		limits, err := env.Calc.EffectiveLimits(ctx, tier, donations, limitsPolID, limitsState)
		if err != nil {
			return err
		}
		out, _ := json.MarshalIndent(limits, "", "  ")
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	limitsCmd.Flags().StringVar(&limitsDonorID, "donor", "", "donor id (required)")
	limitsCmd.Flags().StringVar(&limitsTier, "tier", "guest", "compliance tier (guest|compliant)")
	limitsCmd.Flags().StringVar(&limitsPolID, "pol", "", "politician id (required for compliant tier)")
	limitsCmd.Flags().StringVar(&limitsState, "state", "", "state code (required for compliant tier)")
	limitsCmd.Flags().Int64Var(&limitsAmount, "amount", 0, "validate this attempted amount in cents instead of printing limits")
	_ = limitsCmd.MarkFlagRequired("donor")
	rootCmd.AddCommand(limitsCmd)
}
