package services

import (
	"context"
	"time"

	"hotel-ops-backend/metrics"
	"hotel-ops-backend/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	sweepInterval = 60 * time.Second
	// graceWindow is how long an unpaid checkout may sit before the sweep
	// cancels it.
	graceWindow = 5 * time.Minute
)

// CleanupService is the safety net for abandoned payment flows that never
// poll or webhook back: a periodic sweep that cancels stale unpaid orders.
type CleanupService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewCleanupService(db *gorm.DB, log zerolog.Logger) *CleanupService {
	return &CleanupService{db: db, log: log.With().Str("component", "order-cleanup").Logger()}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *CleanupService) Run(ctx context.Context) {
	s.log.Info().Dur("interval", sweepInterval).Msg("order cleanup started")
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("order cleanup stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(); err != nil {
				s.log.Error().Err(err).Msg("sweep failed")
			}
		}
	}
}

// Sweep cancels orders whose payment never concluded: paymentStatus pending,
// order still Pending, created before the grace window, and no completion
// timestamp. Each cancellation goes through the same conditional update the
// poll and webhook paths use, so a concurrent finalization makes this a no-op.
func (s *CleanupService) Sweep() (int, error) {
	cutoff := time.Now().Add(-graceWindow)

	var expired []models.FoodOrder
	err := s.db.
		Where("payment_status = ? AND status = ? AND created_at < ? AND payment_completed_at IS NULL",
			models.PaymentStatusPending, models.OrderStatusPending, cutoff).
		Find(&expired).Error
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	cancelled := 0
	for _, order := range expired {
		res := s.db.Model(&models.FoodOrder{}).
			Where("id = ? AND payment_completed_at IS NULL", order.ID).
			Updates(map[string]any{
				"status":               models.OrderStatusCancelled,
				"payment_status":       models.PaymentStatusFailed,
				"payment_completed_at": time.Now(),
			})
		if res.Error != nil {
			s.log.Error().Err(res.Error).Uint("order_id", order.ID).Msg("cancel failed")
			continue
		}
		if res.RowsAffected == 0 {
			continue // finalized by poll or webhook between select and update
		}
		cancelled++
		s.log.Info().
			Uint("order_id", order.ID).
			Time("created_at", order.CreatedAt).
			Float64("amount", order.TotalAmount).
			Str("currency", order.Currency).
			Msg("cancelled abandoned order")
	}

	metrics.AddSweepCancelled(cancelled)
	return cancelled, nil
}
