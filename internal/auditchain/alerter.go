package auditchain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"evote/internal/alert"
	"evote/internal/platform/logger"
	"evote/pkg/platform/audit"
	"evote/pkg/requestcontext"
)

// DefaultThrottle is the minimum gap between two chain break alerts.
const DefaultThrottle = 600 * time.Second

// maxAlertLines bounds the discrepancies listed in one alert.
const maxAlertLines = 10

type Verifier interface {
	VerifyStored(ctx context.Context) (*Report, error)
}

type Notifier interface {
	Notify(ctx context.Context, a alert.Alert) error
}

type AnomalyReporter interface {
	Report(ctx context.Context, ev audit.SecurityEvent)
}

// Alerter turns a broken chain into at most one operator alert per throttle window.
// The window only restarts when an alert was actually delivered.
type Alerter struct {
	verifier Verifier
	notifier Notifier
	reporter AnomalyReporter
	throttle time.Duration
	logger   *slog.Logger

	mu          sync.Mutex
	lastAlertAt time.Time
	lastReport  *Report
}

type AlerterOption func(*Alerter)

func WithThrottle(d time.Duration) AlerterOption {
	return func(a *Alerter) {
		if d > 0 {
			a.throttle = d
		}
	}
}

func WithAlertReporter(r AnomalyReporter) AlerterOption {
	return func(a *Alerter) { a.reporter = r }
}

func WithAlertLogger(l *slog.Logger) AlerterOption {
	return func(a *Alerter) { a.logger = l }
}

func NewAlerter(verifier Verifier, notifier Notifier, opts ...AlerterOption) *Alerter {
	a := &Alerter{
		verifier: verifier,
		notifier: notifier,
		throttle: DefaultThrottle,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Check verifies the chain and alerts on breaks. It returns true when an alert was
// sent. Verification always runs; only the alert is throttled.
func (a *Alerter) Check(ctx context.Context) (bool, error) {
	now := requestcontext.Now(ctx).UTC()

	a.mu.Lock()
	defer a.mu.Unlock()

	report, err := a.verifier.VerifyStored(ctx)
	if err != nil {
		return false, err
	}
	a.lastReport = report
	if report.Intact {
		return false, nil
	}
	if !a.lastAlertAt.IsZero() && now.Sub(a.lastAlertAt) < a.throttle {
		alertsThrottled.Inc()
		return false, nil
	}

	if a.reporter != nil {
		a.reporter.Report(ctx, audit.SecurityEvent{
			Action:  audit.ActionSuspiciousActivity,
			Reason:  audit.ReasonAdminLogChainMismatch,
			Subject: "/internal/chain-audit",
			IP:      "127.0.0.1",
		})
	}

	if err := a.notifier.Notify(ctx, chainAlert(report, now)); err != nil {
		a.logger.ErrorContext(ctx, "chain break alert not delivered", "error", err)
		return false, nil
	}
	a.lastAlertAt = now
	alertsSent.Inc()
	return true, nil
}

// LastReport returns the most recent check result, or nil before the first check.
func (a *Alerter) LastReport() *Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastReport
}

// Run checks the chain every interval until ctx is done.
func (a *Alerter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.Check(ctx); err != nil {
				a.logger.ErrorContext(ctx, "audit chain check failed", "error", err)
			}
		}
	}
}

func chainAlert(r *Report, now time.Time) alert.Alert {
	total := len(r.Breaks) + len(r.Tampered)
	lines := []string{
		"Admin Log Chain Integrity Alert",
		fmt.Sprintf("Detected %d break(s) at %s.", total, now.Format(TimestampLayout)),
		"",
		"First discrepancies:",
	}
	for i, b := range r.Breaks {
		if i == maxAlertLines {
			break
		}
		lines = append(lines, fmt.Sprintf("- id=%d prev=%s expected_prev=%s", b.ID, b.StoredPrev, b.ExpectedPrev))
	}
	for i, id := range r.Tampered {
		if i == maxAlertLines {
			break
		}
		lines = append(lines, fmt.Sprintf("- id=%d entry_hash does not match its fields", id))
	}
	return alert.Alert{
		Kind:       alert.KindChainBreak,
		Subject:    "Admin Log Chain Break Detected",
		Lines:      lines,
		Count:      total,
		DetectedAt: now,
	}
}
