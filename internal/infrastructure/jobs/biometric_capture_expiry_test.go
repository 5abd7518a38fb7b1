package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type captureExpirerStub struct {
	mu      sync.Mutex
	calls   int
	cutoffs []time.Time
	expired int
}

func (s *captureExpirerStub) ExpireCaptures(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.cutoffs = append(s.cutoffs, cutoff)
	return s.expired
}

func TestExpireStaleCaptures_UsesTTLCutoff(t *testing.T) {
	stub := &captureExpirerStub{expired: 2}
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	job := NewBiometricCaptureExpiryJob(stub, 3*time.Minute, time.Millisecond)
	job.now = func() time.Time { return fixed }

	job.expireStaleCaptures(context.Background())
	require.Equal(t, 1, stub.calls)
	require.Equal(t, fixed.Add(-3*time.Minute), stub.cutoffs[0])
}

func TestNewBiometricCaptureExpiryJob_DefaultInterval(t *testing.T) {
	job := NewBiometricCaptureExpiryJob(&captureExpirerStub{}, time.Minute, 0)
	require.Equal(t, 30*time.Second, job.interval)
}

func TestStartStop_StopsByContext(t *testing.T) {
	job := NewBiometricCaptureExpiryJob(&captureExpirerStub{}, time.Minute, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("job did not stop on context cancel")
	}
}

func TestStartStop_StopsByStopChannel(t *testing.T) {
	stub := &captureExpirerStub{}
	job := NewBiometricCaptureExpiryJob(stub, time.Minute, time.Millisecond)

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	job.Stop()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("job did not stop on Stop()")
	}

	stub.mu.Lock()
	defer stub.mu.Unlock()
	require.Greater(t, stub.calls, 0)
}
