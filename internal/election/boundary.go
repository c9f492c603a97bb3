package election

import (
	"context"
	"time"
)

// Boundary is the election date currently governing a state's
// per-election limit, plus the following boundary when one exists in
// the same cycle.
type Boundary struct {
	Current time.Time
	Next    *time.Time
}

// CurrentBoundary determines which election boundary governs at t.
// Before the primary (when one exists) the boundary is the primary and
// the next is the general; before the general the boundary is the
// general with nothing after it this cycle; past the general the cycle
// has ended and the next cycle's dates take over.
func CurrentBoundary(ctx context.Context, r *Resolver, state string, t time.Time) Boundary {
	dates := r.Resolve(ctx, state, CycleYear(t))

	if dates.Primary != nil && t.Before(*dates.Primary) {
		general := dates.General
		return Boundary{Current: *dates.Primary, Next: &general}
	}
	if t.Before(dates.General) {
		return Boundary{Current: dates.General}
	}

	next := r.Resolve(ctx, state, CycleYear(t)+2)
	if next.Primary != nil {
		general := next.General
		return Boundary{Current: *next.Primary, Next: &general}
	}
	return Boundary{Current: next.General}
}
