package circuit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failN records n primary failures and returns the last outcome.
func failN(b *Breaker, n int) (bool, StateChange) {
	var (
		fallback bool
		change   StateChange
	)
	for range n {
		fallback, change = b.RecordFailure()
	}
	return fallback, change
}

func TestNewBreakerStartsClosed(t *testing.T) {
	b := New("kafka-alerts")
	assert.Equal(t, "kafka-alerts", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "closed", b.State().String())
}

func TestBreakerTransitions(t *testing.T) {
	tests := []struct {
		name         string
		failures     int
		successes    int
		wantOpen     bool
		wantFallback bool
	}{
		{name: "below threshold stays closed", failures: 2, wantOpen: false, wantFallback: false},
		{name: "threshold opens", failures: 3, wantOpen: true, wantFallback: true},
		{name: "one success is not enough to close", failures: 3, successes: 1, wantOpen: true, wantFallback: true},
		{name: "success threshold closes", failures: 3, successes: 2, wantOpen: false, wantFallback: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("kafka-alerts", WithFailureThreshold(3), WithSuccessThreshold(2))
			fallback, _ := failN(b, tt.failures)
			for range tt.successes {
				trusted, _ := b.RecordSuccess()
				fallback = !trusted
			}
			assert.Equal(t, tt.wantOpen, b.IsOpen())
			assert.Equal(t, tt.wantFallback, fallback)
		})
	}
}

func TestBreakerReportsEachTransitionOnce(t *testing.T) {
	b := New("kafka-alerts", WithFailureThreshold(2), WithSuccessThreshold(1))

	_, change := failN(b, 2)
	assert.True(t, change.Opened)

	_, change = b.RecordFailure()
	assert.False(t, change.Opened, "already open")

	_, change = b.RecordSuccess()
	assert.True(t, change.Closed)

	_, change = b.RecordSuccess()
	assert.False(t, change.Closed, "already closed")
}

func TestBreakerSuccessClearsFailureStreak(t *testing.T) {
	b := New("kafka-alerts", WithFailureThreshold(3))
	failN(b, 2)
	b.RecordSuccess()
	failN(b, 2)
	assert.False(t, b.IsOpen())
}

func TestBreakerFailureWhileOpenRestartsRecovery(t *testing.T) {
	b := New("kafka-alerts", WithFailureThreshold(1), WithSuccessThreshold(2))
	failN(b, 1)
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordSuccess()
	assert.True(t, b.IsOpen(), "recovery needs consecutive successes")
}

func TestBreakerIgnoresNonPositiveThresholds(t *testing.T) {
	b := New("kafka-alerts", WithFailureThreshold(0), WithSuccessThreshold(-1))
	_, change := failN(b, 4)
	assert.False(t, change.Opened)
	_, change = b.RecordFailure()
	assert.True(t, change.Opened, "default failure threshold is 5")
}

func TestBreakerReset(t *testing.T) {
	b := New("kafka-alerts", WithFailureThreshold(1))
	failN(b, 1)
	require.True(t, b.IsOpen())
	b.Reset()
	assert.False(t, b.IsOpen())
}

func TestBreakerConcurrentFailures(t *testing.T) {
	b := New("kafka-alerts", WithFailureThreshold(50))
	var wg sync.WaitGroup
	opened := make(chan struct{}, 100)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, change := b.RecordFailure(); change.Opened {
				opened <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(opened)
	assert.True(t, b.IsOpen())
	assert.Len(t, opened, 1)
}
