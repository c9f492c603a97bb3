package compliance

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/civicgive/compliance-cli/internal/model"
)

// ValidationReason tags why a donation was not allowed.
type ValidationReason string

const (
	ReasonOverLimit          ValidationReason = "over_limit"
	ReasonConfigurationError ValidationReason = "configuration_error"
	ReasonDataUnavailable    ValidationReason = "data_unavailable"
)

// ValidationResult distinguishes a genuine limit rejection from an
// internal failure, so callers can react to each case.
type ValidationResult struct {
	OK        bool             `json:"ok"`
	Reason    ValidationReason `json:"reason,omitempty"`
	Remaining int64            `json:"remaining,omitempty"`
}

// Allowed reports whether the donation may proceed.
func (r ValidationResult) Allowed() bool { return r.OK }

// ValidateDonation checks an attempted amount against the donor's
// remaining limit. Internal failures never panic the caller: they map
// to a tagged not-OK result and a logged error.
func (c *Calculator) ValidateDonation(ctx context.Context, tier model.ComplianceTier, donations []model.Donation, amount int64, polID, state string) ValidationResult {
	limits, err := c.EffectiveLimits(ctx, tier, donations, polID, state)
	if err != nil {
		reason := ReasonDataUnavailable
		if errors.Is(err, ErrUnknownTier) || errors.Is(err, ErrStateRequired) {
			reason = ReasonConfigurationError
		}
		zap.L().Error("compliance: validate donation failed",
			zap.String("tier", string(tier)),
			zap.String("pol_id", polID),
			zap.String("state", state),
			zap.Error(err),
		)
		return ValidationResult{OK: false, Reason: reason}
	}

	if amount > limits.RemainingLimit {
		return ValidationResult{OK: false, Reason: ReasonOverLimit, Remaining: limits.RemainingLimit}
	}
	return ValidationResult{OK: true, Remaining: limits.RemainingLimit}
}
