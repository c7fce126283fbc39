package auditchain_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"evote/internal/alert"
	"evote/internal/auditchain"
	"evote/internal/auditchain/store"
	"evote/pkg/platform/audit"
	"evote/pkg/platform/tx"
	"evote/pkg/requestcontext"
)

type capturedAlerts struct {
	mu     sync.Mutex
	alerts []alert.Alert
	err    error
}

func (c *capturedAlerts) Notify(_ context.Context, a alert.Alert) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.alerts = append(c.alerts, a)
	return nil
}

type capturedEvents struct {
	mu     sync.Mutex
	events []audit.SecurityEvent
}

func (c *capturedEvents) Report(_ context.Context, ev audit.SecurityEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

// =============================================================================
// Audit Chain Service Test Suite
// =============================================================================
// Justification: appends read caller identity from the request context and must
// join the caller's unit of work; the alerter's throttle is stateful.

type ServiceSuite struct {
	suite.Suite
	store   *store.InMemoryStore
	runner  *tx.LocalRunner
	service *auditchain.Service
	ctx     context.Context
	now     time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.runner = tx.NewLocalRunner()
	s.service = auditchain.NewService(s.store, s.runner)
	s.now = time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	s.ctx = s.at(s.now)
}

func (s *ServiceSuite) at(t time.Time) context.Context {
	ctx := requestcontext.WithActor(context.Background(), "admin@example.org", "admin")
	ctx = requestcontext.WithClientMetadata(ctx, "10.1.2.3", "curl/8", "curl")
	return requestcontext.WithTime(ctx, t)
}

func (s *ServiceSuite) TestAppend() {
	s.Run("first entry links to genesis", func() {
		e, err := s.service.Append(s.ctx, "CREATE_ELECTION")
		s.Require().NoError(err)
		s.Equal(int64(1), e.ID)
		s.Equal(auditchain.Genesis, e.PrevHash)
		s.Equal("admin@example.org", e.Actor)
		s.Equal("admin", e.Role)
		s.Equal("10.1.2.3", e.SourceAddress)
	})

	s.Run("next entry links to the tail", func() {
		e, err := s.service.Append(s.ctx, "START_ELECTION")
		s.Require().NoError(err)
		s.Equal(int64(2), e.ID)

		entries, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Equal(entries[0].EntryHash, e.PrevHash)
	})

	s.Run("anonymous callers are recorded as system", func() {
		e, err := s.service.Append(requestcontext.WithTime(context.Background(), s.now), "ISSUE_KEY")
		s.Require().NoError(err)
		s.Equal(auditchain.SystemActor, e.Actor)
	})
}

func (s *ServiceSuite) TestConcurrentAppendsStayLinked() {
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NoError(s.service.Record(s.ctx, "END_ELECTION"))
		}()
	}
	wg.Wait()

	r, err := s.service.VerifyStored(s.ctx)
	s.Require().NoError(err)
	s.True(r.Intact)
	s.Equal(20, r.Count)
}

func (s *ServiceSuite) TestAppendRollsBackWithCallerUnit() {
	boom := errors.New("downstream failed")
	err := s.runner.RunInTx(s.ctx, func(ctx context.Context) error {
		if err := s.service.Record(ctx, "TALLY_ELECTION"); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	entries, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *ServiceSuite) TestVerifyStoredDetectsTamper() {
	for _, a := range []string{"A", "B", "C"} {
		s.Require().NoError(s.service.Record(s.ctx, a))
	}
	s.True(s.store.Tamper(2, func(e *auditchain.Entry) { e.Action = "FORGED" }))

	r, err := s.service.VerifyStored(s.ctx)
	s.Require().NoError(err)
	s.False(r.Intact)
	s.Require().Len(r.Breaks, 1)
	s.Equal(int64(3), r.Breaks[0].ID)
	s.Equal([]int64{2}, r.Tampered)
}

func (s *ServiceSuite) TestList() {
	for _, a := range []string{"A", "B", "C"} {
		s.Require().NoError(s.service.Record(s.ctx, a))
	}
	page, err := s.service.List(s.ctx, 1, 1)
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal("B", page[0].Action)
}

// =============================================================================
// Alerter
// =============================================================================

func (s *ServiceSuite) TestAlerter() {
	notifier := &capturedAlerts{}
	events := &capturedEvents{}
	alerter := auditchain.NewAlerter(s.service, notifier, auditchain.WithAlertReporter(events))

	s.Run("intact chain sends nothing", func() {
		s.Require().NoError(s.service.Record(s.ctx, "A"))
		sent, err := alerter.Check(s.ctx)
		s.Require().NoError(err)
		s.False(sent)
		s.True(alerter.LastReport().Intact)
	})

	s.Require().NoError(s.service.Record(s.ctx, "B"))
	s.store.Tamper(1, func(e *auditchain.Entry) { e.Actor = "mallory" })

	s.Run("break sends one alert and flags the anomaly", func() {
		sent, err := alerter.Check(s.ctx)
		s.Require().NoError(err)
		s.True(sent)
		s.Require().Len(notifier.alerts, 1)
		s.Equal(alert.KindChainBreak, notifier.alerts[0].Kind)
		s.Require().Len(events.events, 1)
		s.Equal(audit.ActionSuspiciousActivity, events.events[0].Action)
		s.Equal(audit.ReasonAdminLogChainMismatch, events.events[0].Reason)
	})

	s.Run("throttled inside the window", func() {
		sent, err := alerter.Check(s.at(s.now.Add(5 * time.Minute)))
		s.Require().NoError(err)
		s.False(sent)
		s.Len(notifier.alerts, 1)
		s.Require().NotNil(alerter.LastReport())
		s.False(alerter.LastReport().Intact, "verification still runs while throttled")
	})

	s.Run("alerts again after the window", func() {
		sent, err := alerter.Check(s.at(s.now.Add(auditchain.DefaultThrottle)))
		s.Require().NoError(err)
		s.True(sent)
		s.Len(notifier.alerts, 2)
	})
}

func (s *ServiceSuite) TestAlerterRetriesWhenDeliveryFails() {
	notifier := &capturedAlerts{err: errors.New("smtp down")}
	alerter := auditchain.NewAlerter(s.service, notifier)
	s.Require().NoError(s.service.Record(s.ctx, "A"))
	s.store.Tamper(1, func(e *auditchain.Entry) { e.PrevHash = "00" })

	sent, err := alerter.Check(s.ctx)
	s.Require().NoError(err)
	s.False(sent)

	notifier.err = nil
	sent, err = alerter.Check(s.at(s.now.Add(time.Second)))
	s.Require().NoError(err)
	s.True(sent)
}
