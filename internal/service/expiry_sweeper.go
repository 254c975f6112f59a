package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shankar0203/QuickQueue/pkg/logger"
)

// ExpirySweeper periodically expires stale awaiting-payment bookings.
// Lazy expiry on reads already keeps individual requests correct; the
// sweeper exists so abandoned bookings release their inventory even
// when nobody touches them again.
type ExpirySweeper struct {
	bookings *BookingService
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewExpirySweeper creates a sweeper with the given interval
func NewExpirySweeper(bookings *BookingService, interval time.Duration) *ExpirySweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ExpirySweeper{
		bookings: bookings,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called
func (w *ExpirySweeper) Start(ctx context.Context) {
	go func() {
		defer close(w.doneCh)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		log := logger.Get()
		for {
			select {
			case <-w.stopCh:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				expired, err := w.bookings.ExpireStale(ctx)
				if err != nil {
					log.Error("expiry sweep failed", zap.Error(err))
					continue
				}
				if expired > 0 {
					log.Info("expired stale bookings", zap.Int("count", expired))
				}
			}
		}
	}()
}

// Stop stops the sweep loop and waits for it to exit
func (w *ExpirySweeper) Stop() {
	close(w.stopCh)
	<-w.doneCh
}
