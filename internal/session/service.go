// Package session determines the current legislative Congress and
// session number and the date that session ends, with API-backed
// lookup and constitutional-default fallback.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/civicgive/compliance-cli/internal/election"
	"github.com/civicgive/compliance-cli/internal/model"
	"github.com/civicgive/compliance-cli/pkg/congress"
)

// firstCongressBase anchors the Congress-number arithmetic: the 1st
// Congress convened in 1789, so congress = (year - 1787) / 2.
const firstCongressBase = 1787

// Service resolves session boundaries. The payload cache lives for the
// process lifetime and is only bypassed by an explicit force refresh.
type Service struct {
	client congress.Client
	now    func() time.Time

	mu     sync.Mutex
	cache  map[int]*congress.SessionPayload
	warned map[int]bool
}

// Option configures the Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service backed by the given API client.
func NewService(client congress.Client, opts ...Option) *Service {
	s := &Service{
		client: client,
		now:    time.Now,
		cache:  make(map[int]*congress.SessionPayload),
		warned: make(map[int]bool),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CurrentCongress returns the Congress number for the current year.
func (s *Service) CurrentCongress() int {
	return (s.now().Year() - firstCongressBase) / 2
}

// CurrentSession returns 1 in odd years and 2 in even years.
func (s *Service) CurrentSession() int {
	if s.now().Year()%2 == 0 {
		return 2
	}
	return 1
}

// FetchSessionData returns the session payload for a Congress, serving
// from cache unless forceRefresh. Any API failure is replaced by the
// constitutional-default payload, logged once per Congress, and cached
// like a real payload so repeated calls don't re-attempt the network.
func (s *Service) FetchSessionData(ctx context.Context, congressNum int, forceRefresh bool) *congress.SessionPayload {
	s.mu.Lock()
	if !forceRefresh {
		if payload, ok := s.cache[congressNum]; ok {
			s.mu.Unlock()
			return payload
		}
	}
	s.mu.Unlock()

	payload, err := s.client.GetCongress(ctx, congressNum)
	if err != nil {
		payload = s.constitutionalDefault(congressNum)
		s.mu.Lock()
		if !s.warned[congressNum] {
			s.warned[congressNum] = true
			s.mu.Unlock()
			zap.L().Warn("session: API unavailable, using constitutional default",
				zap.Int("congress", congressNum),
				zap.Error(err),
			)
		} else {
			s.mu.Unlock()
		}
	}

	s.mu.Lock()
	s.cache[congressNum] = payload
	s.mu.Unlock()
	return payload
}

// constitutionalDefault builds a payload with both sessions ending
// January 3 of the year after they convene, per the 20th Amendment.
func (s *Service) constitutionalDefault(congressNum int) *congress.SessionPayload {
	startYear := firstCongressBase + congressNum*2
	return &congress.SessionPayload{
		Congress:  congressNum,
		StartYear: startYear,
		EndYear:   startYear + 1,
		Sessions: []congress.Session{
			{Number: 1, StartDate: isoDate(startYear, time.January, 3), EndDate: isoDate(startYear+1, time.January, 3)},
			{Number: 2, StartDate: isoDate(startYear+1, time.January, 3), EndDate: isoDate(startYear+2, time.January, 3)},
		},
	}
}

// SessionEndDate returns the current session's end date, falling back
// to the January 3 constitutional default when the session entry or
// its end date is missing from the payload.
func (s *Service) SessionEndDate(ctx context.Context) time.Time {
	payload := s.FetchSessionData(ctx, s.CurrentCongress(), false)
	if end, ok := payload.SessionEnd(s.CurrentSession()); ok {
		return end
	}
	return time.Date(s.now().Year()+1, time.January, 3, 0, 0, 0, 0, time.UTC)
}

// HasSessionEnded reports whether the current session's end date has
// passed.
func (s *Service) HasSessionEnded(ctx context.Context) bool {
	return s.now().After(s.SessionEndDate(ctx))
}

// InWarningPeriod reports whether now falls in the month immediately
// preceding the session end, half-open at the end date.
func (s *Service) InWarningPeriod(ctx context.Context) bool {
	end := s.SessionEndDate(ctx)
	start := end.AddDate(0, -1, 0)
	now := s.now()
	return !now.Before(start) && now.Before(end)
}

// NextGeneralElectionDate returns the statutory general election date
// bounding the current cycle, rolling to the next cycle once this one's
// election has passed.
func (s *Service) NextGeneralElectionDate() time.Time {
	return election.CycleCutoff(s.now())
}

// Info aggregates the service's view of the current session.
func (s *Service) Info(ctx context.Context) *model.SessionInfo {
	return &model.SessionInfo{
		Congress:            s.CurrentCongress(),
		Session:             s.CurrentSession(),
		SessionEndDate:      s.SessionEndDate(ctx),
		HasEnded:            s.HasSessionEnded(ctx),
		InWarningPeriod:     s.InWarningPeriod(ctx),
		NextGeneralElection: s.NextGeneralElectionDate(),
	}
}

func isoDate(year int, month time.Month, day int) string {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}
