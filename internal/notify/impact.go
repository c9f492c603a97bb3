package notify

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/civicgive/compliance-cli/internal/model"
)

var amountPrinter = message.NewPrinter(language.AmericanEnglish)

// CalculateImpact estimates how an election-date change affects one
// donor's remaining limit. Guests have no election-cycle limits and are
// reported as unaffected. Old and new limits are both computed from the
// currently resolved dates; when they agree numerically, a raw date
// difference (including a missing primary appearing or disappearing)
// still counts as an impact.
func (n *Notifier) CalculateImpact(ctx context.Context, donor model.Donor, oldDates, newDates model.ElectionDates) (*model.NotificationImpact, error) {
	if donor.Tier != model.TierCompliant {
		return &model.NotificationImpact{
			HasImpact:   false,
			Description: "Your donation tier is not subject to election-cycle limits.",
		}, nil
	}

	donations, err := n.directory.ActiveDonations(ctx, donor.ID)
	if err != nil {
		return nil, err
	}

	polID := ""
	for _, d := range donations {
		if d.Countable() {
			polID = d.PolID
			break
		}
	}

	oldLimits, err := n.calc.EffectiveLimits(ctx, donor.Tier, donations, polID, newDates.State)
	if err != nil {
		return nil, err
	}
	newLimits, err := n.calc.EffectiveLimits(ctx, donor.Tier, donations, polID, newDates.State)
	if err != nil {
		return nil, err
	}

	impact := &model.NotificationImpact{
		OldLimit:     oldLimits.RemainingLimit,
		NewLimit:     newLimits.RemainingLimit,
		LimitChanged: oldLimits.RemainingLimit != newLimits.RemainingLimit,
	}

	switch {
	case impact.LimitChanged:
		impact.HasImpact = true
		impact.Description = amountPrinter.Sprintf(
			"Your remaining donation limit changed from $%.2f to $%.2f.",
			dollars(impact.OldLimit), dollars(impact.NewLimit),
		)
	case !oldDates.Equal(newDates):
		impact.HasImpact = true
		impact.Description = amountPrinter.Sprintf(
			"The election dates governing your limits have changed. Your remaining limit of $%.2f now resets on %s.",
			dollars(newLimits.RemainingLimit), newLimits.ResetDate.Format("January 2, 2006"),
		)
	default:
		impact.Description = "Your remaining donation limit is unchanged."
	}

	return impact, nil
}

func dollars(cents int64) float64 {
	return float64(cents) / 100
}
