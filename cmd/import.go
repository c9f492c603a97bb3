package main

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/civicgive/compliance-cli/internal/db"
	"github.com/civicgive/compliance-cli/internal/model"
	"github.com/civicgive/compliance-cli/internal/store"
)

var importFile string

// importPayload is the seed-file shape: donor projections with their
// celebrations and donation history inline.
type importPayload struct {
	Donors []struct {
		model.Donor
		Celebrations []model.Celebration `json:"celebrations"`
		Donations    []model.Donation    `json:"donations"`
	} `json:"donors"`
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk-load donor projections from a JSON seed file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Store.Driver != "postgres" {
			return eris.Errorf("import requires the postgres driver, store is %q", cfg.Store.Driver)
		}

		directory, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer directory.Close()

		if err := directory.Migrate(ctx); err != nil {
			return err
		}

		data, err := os.ReadFile(importFile)
		if err != nil {
			return eris.Wrap(err, "read seed file")
		}
		var payload importPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return eris.Wrap(err, "parse seed file")
		}

		var donorRows, celebrationRows, donationRows [][]any
		for _, d := range payload.Donors {
			donorRows = append(donorRows, []any{d.ID, d.Email, d.FirstName, string(d.Tier), d.State, d.OCDID})
			for _, c := range d.Celebrations {
				id := c.ID
				if id == "" {
					id = uuid.NewString()
				}
				celebrationRows = append(celebrationRows, []any{id, d.ID, c.PolID, c.PolState, c.Resolved, c.Defunct, c.Paused})
			}
			for _, don := range d.Donations {
				donationRows = append(donationRows, []any{uuid.NewString(), d.ID, don.PolID, don.Amount, don.CreatedAt, don.Resolved, don.Defunct, don.Paused})
			}
		}

		pool := directory.Pool()
		donors, err := db.CopyFrom(ctx, pool, "donors",
			[]string{"id", "email", "first_name", "compliance_tier", "state", "ocd_id"}, donorRows)
		if err != nil {
			return err
		}
		celebrations, err := db.CopyFrom(ctx, pool, "celebrations",
			[]string{"id", "donor_id", "pol_id", "pol_state", "resolved", "defunct", "paused"}, celebrationRows)
		if err != nil {
			return err
		}
		donations, err := db.CopyFrom(ctx, pool, "donations",
			[]string{"id", "donor_id", "pol_id", "amount", "created_at", "resolved", "defunct", "paused"}, donationRows)
		if err != nil {
			return err
		}

		zap.L().Info("import complete",
			zap.Int64("donors", donors),
			zap.Int64("celebrations", celebrations),
			zap.Int64("donations", donations),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "seed JSON file (required)")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
