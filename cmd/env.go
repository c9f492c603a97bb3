package main

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/civicgive/compliance-cli/internal/compliance"
	"github.com/civicgive/compliance-cli/internal/election"
	"github.com/civicgive/compliance-cli/internal/model"
	"github.com/civicgive/compliance-cli/internal/notify"
	"github.com/civicgive/compliance-cli/internal/resilience"
	"github.com/civicgive/compliance-cli/internal/session"
	"github.com/civicgive/compliance-cli/internal/store"
	"github.com/civicgive/compliance-cli/pkg/congress"
	"github.com/civicgive/compliance-cli/pkg/mailer"
)

// engineEnv bundles the wired components a command needs.
type engineEnv struct {
	Directory store.DonorDirectory
	Resolver  *election.Resolver
	Calc      *compliance.Calculator
	Session   *session.Service
	Notifier  *notify.Notifier
}

// Close releases held resources.
func (e *engineEnv) Close() {
	if e.Directory != nil {
		_ = e.Directory.Close()
	}
}

// initEngine wires the engine from config. withStore controls whether
// the donor directory is opened; limit math and session lookups work
// without one.
func initEngine(ctx context.Context, withStore bool) (*engineEnv, error) {
	env := &engineEnv{}

	env.Resolver = election.NewDefaultResolver(cfg.Compliance.SnapshotPath)

	policies := model.DefaultTierPolicies
	if cfg.Compliance.TierPolicyPath != "" {
		loaded, err := model.LoadTierPolicies(cfg.Compliance.TierPolicyPath)
		if err != nil {
			return nil, err
		}
		policies = loaded
	}
	env.Calc = compliance.NewCalculator(env.Resolver, compliance.WithPolicies(policies))

	congressClient := congress.NewClient(cfg.Congress.APIKey,
		congress.WithBaseURL(cfg.Congress.BaseURL),
		congress.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Congress.TimeoutSecs) * time.Second}),
		congress.WithLimiter(rate.NewLimiter(rate.Limit(cfg.Congress.RateLimitPerSec), 1)),
	)
	env.Session = session.NewService(congressClient)

	if withStore {
		directory, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return nil, err
		}
		env.Directory = directory

		sender := mailer.NewClient(cfg.Mailer.APIKey, cfg.Mailer.From,
			mailer.WithBaseURL(cfg.Mailer.BaseURL),
			mailer.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Mailer.TimeoutSecs) * time.Second}),
		)
		env.Notifier = notify.NewNotifier(directory, env.Calc, sender,
			notify.WithConcurrency(cfg.Notify.Concurrency),
			notify.WithRetry(resilience.RetryConfig{MaxAttempts: cfg.Notify.SendRetries + 1}),
		)
	}

	return env, nil
}
