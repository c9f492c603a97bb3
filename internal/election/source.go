package election

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/civicgive/compliance-cli/internal/model"
)

// Source is a single backend for a state's election dates for a given
// election year. A source that has no answer returns (nil, nil); errors
// are reserved for read/parse failures the resolver should log.
type Source interface {
	Name() string
	Resolve(ctx context.Context, state string, year int) (*model.ElectionDates, error)
	Available() bool
}

// Resolver tries sources in order until one yields dates. It never
// fails: the statutory source terminates every cascade, so General is
// always concrete in the returned value.
type Resolver struct {
	sources []Source
}

// NewResolver creates a Resolver over the given sources, tried in order.
func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

// NewDefaultResolver wires the standard cascade: snapshot file, then
// the hard-coded defaults table, then statutory computation.
func NewDefaultResolver(snapshotPath string) *Resolver {
	return NewResolver(
		NewSnapshotSource(snapshotPath),
		NewDefaultsSource(),
		StatutorySource{},
	)
}

// Resolve returns the state's election dates for the year, degrading
// through the cascade with a logged warning on each source failure.
func (r *Resolver) Resolve(ctx context.Context, state string, year int) *model.ElectionDates {
	for _, s := range r.sources {
		if !s.Available() {
			continue
		}
		dates, err := s.Resolve(ctx, state, year)
		if err != nil {
			zap.L().Warn("election: source failed, trying next",
				zap.String("source", s.Name()),
				zap.String("state", state),
				zap.Int("year", year),
				zap.Error(err),
			)
			continue
		}
		if dates != nil {
			return dates
		}
	}

	// Unreachable with the statutory source wired, but keep the
	// invariant that General is never zero.
	return &model.ElectionDates{State: state, General: GeneralElectionDate(year)}
}

// StatutorySource computes only the statutory general election date and
// leaves Primary nil. It is the cascade's terminal fallback.
type StatutorySource struct{}

// Name implements Source.
func (StatutorySource) Name() string { return "statutory" }

// Available implements Source.
func (StatutorySource) Available() bool { return true }

// Resolve implements Source.
func (StatutorySource) Resolve(_ context.Context, state string, year int) (*model.ElectionDates, error) {
	return &model.ElectionDates{
		State:   state,
		Primary: nil,
		General: GeneralElectionDate(year),
	}, nil
}

var _ Source = StatutorySource{}

// parseISODate parses a YYYY-MM-DD date in UTC.
func parseISODate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
