// Package alert delivers integrity alerts to operators. Kafka is the primary
// channel when configured; the structured log is always available.
package alert

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Kinds of alert.
const (
	KindChainBreak   = "admin_log_chain_break"
	KindPositionRace = "wbb_position_race"
)

// Notifier delivers an alert.
type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}

// Alert is one operator notification.
type Alert struct {
	Kind       string    `json:"kind"`
	Subject    string    `json:"subject"`
	Lines      []string  `json:"lines"`
	Count      int       `json:"count"`
	DetectedAt time.Time `json:"detected_at"`
}

func (a Alert) marshal() ([]byte, error) {
	return json.Marshal(a)
}

// LogNotifier writes alerts to the structured log at error level.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, a Alert) error {
	n.logger.ErrorContext(ctx, "CRITICAL: integrity alert",
		"kind", a.Kind,
		"subject", a.Subject,
		"count", a.Count,
		"detected_at", a.DetectedAt,
		"details", a.Lines,
	)
	return nil
}
