// Package store provides donor, celebration, and donation lookups for
// the compliance engine.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/civicgive/compliance-cli/internal/model"
)

// TopicElectionUpdates is the unsubscribe topic gating election-date
// notifications.
const TopicElectionUpdates = "electionUpdates"

// DonorDirectory defines the lookup interface the notifier consumes.
type DonorDirectory interface {
	// DonorsWithActiveCelebrations returns donors holding an active
	// (not resolved/defunct/paused) celebration toward any politician
	// whose role is in the given state.
	DonorsWithActiveCelebrations(ctx context.Context, state string) ([]model.Donor, error)

	// DonorsInState returns donors whose residential OCD ID matches the
	// state's OCD pattern, excluding the given donor IDs.
	DonorsInState(ctx context.Context, state string, excludeIDs []string) ([]model.Donor, error)

	// ActiveDonations returns the donor's donation projections. The
	// calculator applies its own counting filter.
	ActiveDonations(ctx context.Context, donorID string) ([]model.Donation, error)

	// IsUnsubscribed reports whether the donor opted out of the topic.
	IsUnsubscribed(ctx context.Context, donorID, topic string) (bool, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// StateOCDPattern returns the Open Civic Data division prefix for a
// state, e.g. "ocd-division/country:us/state:tx".
func StateOCDPattern(state string) string {
	return fmt.Sprintf("ocd-division/country:us/state:%s", strings.ToLower(state))
}

// Config selects and configures a directory backend.
type Config struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// Open creates a DonorDirectory for the configured driver.
func Open(ctx context.Context, cfg Config) (DonorDirectory, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	case "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
