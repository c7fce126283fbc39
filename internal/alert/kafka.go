package alert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"evote/pkg/platform/circuit"
)

// KafkaNotifier produces alerts to a topic. Every alert is attempted on kafka; while
// the breaker is open, alerts are also written to the fallback so none are lost
// during a broker outage.
type KafkaNotifier struct {
	client   *kgo.Client
	topic    string
	breaker  *circuit.Breaker
	fallback Notifier
	logger   *slog.Logger
}

type KafkaOption func(*KafkaNotifier)

func WithFallback(n Notifier) KafkaOption {
	return func(k *KafkaNotifier) { k.fallback = n }
}

func WithBreaker(b *circuit.Breaker) KafkaOption {
	return func(k *KafkaNotifier) { k.breaker = b }
}

// NewKafkaClient connects a producer whose default topic is topic.
func NewKafkaClient(brokers []string, topic string) (*kgo.Client, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka: create client: %w", err)
	}
	return client, nil
}

// EnsureTopic creates topic if it does not exist yet.
func EnsureTopic(ctx context.Context, client *kgo.Client, topic string, partitions int32) error {
	if partitions <= 0 {
		partitions = 1
	}
	admin := kadm.NewClient(client)
	resp, err := admin.CreateTopics(ctx, partitions, -1, nil, topic)
	if err != nil {
		return fmt.Errorf("kafka: create topic %s: %w", topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("kafka: create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

func NewKafkaNotifier(client *kgo.Client, topic string, logger *slog.Logger, opts ...KafkaOption) *KafkaNotifier {
	k := &KafkaNotifier{
		client:   client,
		topic:    topic,
		breaker:  circuit.New("kafka-alerts", circuit.WithFailureThreshold(3), circuit.WithSuccessThreshold(2)),
		fallback: NewLogNotifier(logger),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Notify produces the alert synchronously, keyed by kind so alerts of one kind
// stay ordered within a partition.
func (k *KafkaNotifier) Notify(ctx context.Context, a Alert) error {
	value, err := a.marshal()
	if err != nil {
		return fmt.Errorf("kafka: encode alert: %w", err)
	}
	rec := &kgo.Record{Topic: k.topic, Key: []byte(a.Kind), Value: value}

	if err := k.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		alertsFailed.Inc()
		useFallback, change := k.breaker.RecordFailure()
		if change.Opened {
			k.logger.WarnContext(ctx, "kafka alert circuit opened", "breaker", k.breaker.Name(), "error", err)
		}
		if useFallback {
			return k.fallback.Notify(ctx, a)
		}
		return fmt.Errorf("kafka: produce alert: %w", err)
	}

	alertsProduced.Inc()
	usePrimary, change := k.breaker.RecordSuccess()
	if change.Closed {
		k.logger.InfoContext(ctx, "kafka alert circuit closed", "breaker", k.breaker.Name())
	}
	if !usePrimary {
		return k.fallback.Notify(ctx, a)
	}
	return nil
}

// Close flushes pending records and closes the client.
func (k *KafkaNotifier) Close(ctx context.Context) {
	if err := k.client.Flush(ctx); err != nil {
		k.logger.WarnContext(ctx, "kafka flush failed", "error", err)
	}
	k.client.Close()
}
