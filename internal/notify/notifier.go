// Package notify reacts to election-date changes: it finds affected
// donors, estimates the effect on their remaining limits, and drives
// outbound email with unsubscribe filtering and per-donor failure
// isolation.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/civicgive/compliance-cli/internal/compliance"
	"github.com/civicgive/compliance-cli/internal/model"
	"github.com/civicgive/compliance-cli/internal/resilience"
	"github.com/civicgive/compliance-cli/internal/store"
	"github.com/civicgive/compliance-cli/pkg/mailer"
)

// Summary aggregates one election-date-change run.
type Summary struct {
	EventID               string    `json:"event_id"`
	State                 string    `json:"state"`
	StartedAt             time.Time `json:"started_at"`
	TotalEmailsSent       int       `json:"total_emails_sent"`
	UsersWithCelebrations int       `json:"users_with_celebrations"`
	UsersWithOCDIDOnly    int       `json:"users_with_ocd_id_only"`
	CelebrationEmailsSent int       `json:"celebration_emails_sent"`
	OCDIDEmailsSent       int       `json:"ocd_id_emails_sent"`
}

// Notifier orchestrates election-date-change notification.
type Notifier struct {
	directory   store.DonorDirectory
	calc        *compliance.Calculator
	sender      mailer.Sender
	now         func() time.Time
	concurrency int
	retry       resilience.RetryConfig
}

// Option configures the Notifier.
type Option func(*Notifier)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) { n.now = now }
}

// WithConcurrency bounds parallel email dispatch.
func WithConcurrency(c int) Option {
	return func(n *Notifier) {
		if c > 0 {
			n.concurrency = c
		}
	}
}

// WithRetry sets the retry policy for transient send failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(n *Notifier) { n.retry = cfg }
}

// NewNotifier creates a Notifier.
func NewNotifier(directory store.DonorDirectory, calc *compliance.Calculator, sender mailer.Sender, opts ...Option) *Notifier {
	n := &Notifier{
		directory:   directory,
		calc:        calc,
		sender:      sender,
		now:         time.Now,
		concurrency: 5,
		retry:       resilience.RetryConfig{MaxAttempts: 2},
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// HandleElectionDateChange notifies the donors a state's election-date
// change may affect. Donors with an active celebration in the state
// come first and get an impact-gated notification; donors matched by
// residential OCD ID alone (never both) get a generic heads-up. A
// failed send never aborts the remaining sends.
func (n *Notifier) HandleElectionDateChange(ctx context.Context, state string, oldDates, newDates model.ElectionDates) (*Summary, error) {
	summary := &Summary{EventID: uuid.NewString(), State: state, StartedAt: n.now()}

	celebrationDonors, err := n.directory.DonorsWithActiveCelebrations(ctx, state)
	if err != nil {
		return nil, err
	}
	summary.UsersWithCelebrations = len(celebrationDonors)

	excludeIDs := make([]string, 0, len(celebrationDonors))
	for _, d := range celebrationDonors {
		excludeIDs = append(excludeIDs, d.ID)
	}

	ocdDonors, err := n.directory.DonorsInState(ctx, state, excludeIDs)
	if err != nil {
		return nil, err
	}
	summary.UsersWithOCDIDOnly = len(ocdDonors)

	zap.L().Info("notify: election date change",
		zap.String("event_id", summary.EventID),
		zap.String("state", state),
		zap.Int("celebration_donors", len(celebrationDonors)),
		zap.Int("ocd_donors", len(ocdDonors)),
	)

	celebrationSent := n.notifyCelebrationDonors(ctx, summary.EventID, celebrationDonors, oldDates, newDates)
	ocdSent := n.notifyOCDDonors(ctx, summary.EventID, state, ocdDonors)

	summary.CelebrationEmailsSent = celebrationSent
	summary.OCDIDEmailsSent = ocdSent
	summary.TotalEmailsSent = celebrationSent + ocdSent
	return summary, nil
}

// notifyCelebrationDonors sends impact-gated notifications to donors
// with an active celebration in the state.
func (n *Notifier) notifyCelebrationDonors(ctx context.Context, eventID string, donors []model.Donor, oldDates, newDates model.ElectionDates) int {
	var mu sync.Mutex
	sent := 0

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(n.concurrency)

	for _, donor := range donors {
		donor := donor
		eg.Go(func() error {
			unsubscribed, err := n.directory.IsUnsubscribed(gCtx, donor.ID, store.TopicElectionUpdates)
			if err != nil {
				zap.L().Error("notify: unsubscribe check failed",
					zap.String("event_id", eventID),
					zap.String("donor_id", donor.ID),
					zap.Error(err),
				)
				return nil
			}
			if unsubscribed {
				return nil
			}

			impact, err := n.CalculateImpact(gCtx, donor, oldDates, newDates)
			if err != nil {
				zap.L().Error("notify: impact calculation failed",
					zap.String("event_id", eventID),
					zap.String("donor_id", donor.ID),
					zap.Error(err),
				)
				return nil
			}
			if !impact.HasImpact {
				return nil
			}

			if n.send(gCtx, eventID, donor, mailer.Message{
				To:        donor.Email,
				Template:  mailer.TemplateElectionDateChanged,
				FirstName: donor.FirstName,
				Data: map[string]any{
					"State":  newDates.State,
					"Impact": impact.Description,
				},
			}) {
				mu.Lock()
				sent++
				mu.Unlock()
			}
			return nil
		})
	}

	_ = eg.Wait()
	return sent
}

// notifyOCDDonors sends the generic notification to donors matched by
// residency alone, with no impact gating.
func (n *Notifier) notifyOCDDonors(ctx context.Context, eventID, state string, donors []model.Donor) int {
	var mu sync.Mutex
	sent := 0

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(n.concurrency)

	for _, donor := range donors {
		donor := donor
		eg.Go(func() error {
			unsubscribed, err := n.directory.IsUnsubscribed(gCtx, donor.ID, store.TopicElectionUpdates)
			if err != nil {
				zap.L().Error("notify: unsubscribe check failed",
					zap.String("event_id", eventID),
					zap.String("donor_id", donor.ID),
					zap.Error(err),
				)
				return nil
			}
			if unsubscribed {
				return nil
			}

			if n.send(gCtx, eventID, donor, mailer.Message{
				To:        donor.Email,
				Template:  mailer.TemplateElectionDateNotification,
				FirstName: donor.FirstName,
				Data:      map[string]any{"State": state},
			}) {
				mu.Lock()
				sent++
				mu.Unlock()
			}
			return nil
		})
	}

	_ = eg.Wait()
	return sent
}

// send dispatches one message, retrying transient failures. A failure
// is logged and swallowed so the loop over remaining donors continues.
func (n *Notifier) send(ctx context.Context, eventID string, donor model.Donor, msg mailer.Message) bool {
	retry := n.retry
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger("mailer", msg.Template)
	}

	id, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (string, error) {
		return n.sender.Send(ctx, msg)
	})
	if err != nil {
		zap.L().Error("notify: email send failed",
			zap.String("event_id", eventID),
			zap.String("donor_id", donor.ID),
			zap.String("template", msg.Template),
			zap.Error(err),
		)
		return false
	}

	zap.L().Debug("notify: email sent",
		zap.String("event_id", eventID),
		zap.String("donor_id", donor.ID),
		zap.String("template", msg.Template),
		zap.String("message_id", id),
	)
	return true
}
