package service

import (
	"bitwise74/newsletter-api/internal/metrics"
	"bitwise74/newsletter-api/internal/model"
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CountStalePending returns how many subscribers signed up before cutoff
// and still haven't confirmed. These are usually the ones whose
// confirmation email failed after their row was committed.
func CountStalePending(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	var n int64

	err := db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("status = ? AND subscribed_at < ?", model.StatusPendingConfirmation, cutoff.UTC()).
		Count(&n).
		Error

	return n, err
}

// PendingReport periodically logs and exports the number of stale pending
// subscribers. Nothing is deleted or re-sent. It returns when ctx is done.
func PendingReport(ctx context.Context, t time.Duration, db *gorm.DB, m *metrics.Metrics, log *zap.Logger) {
	if t <= 0 {
		return
	}

	ticker := time.NewTicker(t)
	defer ticker.Stop()

	log.Debug("Pending subscription report attached", zap.Duration("tick_every", t))

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			reportStalePending(ctx, db, m, log, now.Add(-t))
		}
	}
}

func reportStalePending(ctx context.Context, db *gorm.DB, m *metrics.Metrics, log *zap.Logger, cutoff time.Time) {
	n, err := CountStalePending(ctx, db, cutoff)
	if err != nil {
		log.Error("Failed to count stale pending subscriptions", zap.Error(err))
		return
	}

	m.StalePending.Set(float64(n))

	if n > 0 {
		log.Warn("Subscribers still pending confirmation", zap.Int64("count", n), zap.Time("older_than", cutoff))
	}
}
