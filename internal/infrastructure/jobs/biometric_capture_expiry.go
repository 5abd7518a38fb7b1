package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"aeps-agent.backend/pkg/logger"
)

type captureExpirer interface {
	ExpireCaptures(cutoff time.Time) int
}

// BiometricCaptureExpiryJob drops fingerprint captures that were never submitted
type BiometricCaptureExpiryJob struct {
	forms    captureExpirer
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	stop     chan struct{}
}

func NewBiometricCaptureExpiryJob(forms captureExpirer, ttl, interval time.Duration) *BiometricCaptureExpiryJob {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &BiometricCaptureExpiryJob{
		forms:    forms,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

func (j *BiometricCaptureExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting biometric capture expiry job", zap.Duration("ttl", j.ttl), zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(context.Background(), "Biometric capture expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Biometric capture expiry job stopped")
			return
		case <-ticker.C:
			j.expireStaleCaptures(ctx)
		}
	}
}

func (j *BiometricCaptureExpiryJob) Stop() {
	close(j.stop)
}

func (j *BiometricCaptureExpiryJob) expireStaleCaptures(ctx context.Context) {
	expired := j.forms.ExpireCaptures(j.now().Add(-j.ttl))
	if expired == 0 {
		return
	}
	logger.Info(ctx, "Expired stale biometric captures", zap.Int("count", expired))
}
