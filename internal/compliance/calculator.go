// Package compliance computes how much a donor may still legally give
// under their tier's limit rules and when that limit next resets.
package compliance

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/civicgive/compliance-cli/internal/election"
	"github.com/civicgive/compliance-cli/internal/model"
)

// Configuration errors: callers must treat these as programming errors,
// not business outcomes.
var (
	ErrUnknownTier   = eris.New("compliance: unknown compliance tier")
	ErrStateRequired = eris.New("compliance: state required for election-cycle tier")
)

// easternOffset approximates US-Eastern wall time with a fixed -5h
// offset. DST is intentionally not modeled; the reset window is wide
// enough that the hour of shift does not matter in practice.
const easternOffset = -5 * time.Hour

// Calculator computes effective donation limits. Dependencies are
// injected so tests control dates and policy deterministically.
type Calculator struct {
	resolver *election.Resolver
	policies model.PolicyTable
	now      func() time.Time
}

// Option configures the Calculator.
type Option func(*Calculator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) { c.now = now }
}

// WithPolicies overrides the tier policy table.
func WithPolicies(p model.PolicyTable) Option {
	return func(c *Calculator) { c.policies = p }
}

// NewCalculator creates a Calculator backed by the given election-date
// resolver.
func NewCalculator(resolver *election.Resolver, opts ...Option) *Calculator {
	c := &Calculator{
		resolver: resolver,
		policies: model.DefaultTierPolicies,
		now:      time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ShouldAnnualReset reports whether t falls on the annual reset
// boundary (Dec 31 or Jan 1) in Eastern time.
func (c *Calculator) ShouldAnnualReset(t time.Time) bool {
	eastern := t.UTC().Add(easternOffset)
	month, day := eastern.Month(), eastern.Day()
	return (month == time.December && day == 31) || (month == time.January && day == 1)
}

// EffectiveLimits computes the donor's current limit position. For the
// guest tier donations are summed across all candidates in the current
// calendar year; for the compliant tier consumption is scoped to a
// single polID and bounded by the state's governing election date.
func (c *Calculator) EffectiveLimits(ctx context.Context, tier model.ComplianceTier, donations []model.Donation, polID, state string) (*model.EffectiveLimits, error) {
	policy, ok := c.policies[tier]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownTier, "tier %q", tier)
	}

	switch policy.ResetType {
	case model.ResetAnnual:
		return c.annualLimits(tier, policy, donations), nil
	case model.ResetElectionCycle:
		if state == "" {
			return nil, ErrStateRequired
		}
		return c.cycleLimits(ctx, tier, policy, donations, polID, state), nil
	default:
		return nil, eris.Wrapf(ErrUnknownTier, "tier %q has reset type %q", tier, policy.ResetType)
	}
}

// annualLimits handles the guest tier: a calendar-year aggregate cap.
func (c *Calculator) annualLimits(tier model.ComplianceTier, policy model.TierPolicy, donations []model.Donation) *model.EffectiveLimits {
	now := c.now()
	yearEnd := time.Date(now.Year(), time.December, 31, 23, 59, 59, 0, time.UTC)

	limits := &model.EffectiveLimits{
		Tier:           tier,
		ResetType:      policy.ResetType,
		ResetTime:      policy.ResetTime,
		EffectiveLimit: policy.AnnualCap,
		ResetDate:      yearEnd,
	}

	// On the reset boundary the cap is treated as already reset.
	if c.ShouldAnnualReset(now) {
		limits.RemainingLimit = policy.AnnualCap
		return limits
	}

	var consumed int64
	for _, d := range donations {
		if !d.Countable() {
			continue
		}
		if d.CreatedAt.Year() == now.Year() {
			consumed += d.Amount
		}
	}
	limits.RemainingLimit = floorZero(policy.AnnualCap - consumed)
	return limits
}

// cycleLimits handles the compliant tier: a per-candidate cap that
// accrues until the state's governing election boundary.
func (c *Calculator) cycleLimits(ctx context.Context, tier model.ComplianceTier, policy model.TierPolicy, donations []model.Donation, polID, state string) *model.EffectiveLimits {
	boundary := election.CurrentBoundary(ctx, c.resolver, state, c.now())

	var consumed int64
	for _, d := range donations {
		if !d.Countable() {
			continue
		}
		if d.PolID != polID {
			continue
		}
		if d.CreatedAt.Before(boundary.Current) {
			consumed += d.Amount
		}
	}

	return &model.EffectiveLimits{
		Tier:           tier,
		ResetType:      policy.ResetType,
		ResetTime:      policy.ResetTime,
		EffectiveLimit: policy.PerElectionLimit,
		RemainingLimit: floorZero(policy.PerElectionLimit - consumed),
		ResetDate:      boundary.Current,
		NextResetDate:  boundary.Next,
	}
}

func floorZero(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
