package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/cursos-tv/enrollment-api/internal/models"
)

// Redis keys for the last-submission receipt, the only state the system
// keeps after a successful enrollment.
const (
	receiptDateKey = "enrollment:last_submission:date"
	receiptTimeKey = "enrollment:last_submission:time"
)

// ReceiptRepository persists the last SubmissionReceipt.
type ReceiptRepository struct {
	client *redis.Client
}

// NewReceiptRepository constructs a ReceiptRepository.
func NewReceiptRepository(client *redis.Client) *ReceiptRepository {
	return &ReceiptRepository{client: client}
}

// Save stores the receipt. Receipts have no expiry; each success overwrites
// the previous one.
func (r *ReceiptRepository) Save(ctx context.Context, receipt models.SubmissionReceipt) error {
	if r == nil || r.client == nil {
		return fmt.Errorf("receipt store unavailable")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, receiptDateKey, receipt.Date, 0)
	pipe.Set(ctx, receiptTimeKey, receipt.Time, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("persist receipt: %w", err)
	}
	return nil
}

// Last returns the most recent receipt, or ok=false when none was stored yet.
func (r *ReceiptRepository) Last(ctx context.Context) (models.SubmissionReceipt, bool, error) {
	if r == nil || r.client == nil {
		return models.SubmissionReceipt{}, false, nil
	}

	date, err := r.client.Get(ctx, receiptDateKey).Result()
	if err == redis.Nil {
		return models.SubmissionReceipt{}, false, nil
	}
	if err != nil {
		return models.SubmissionReceipt{}, false, fmt.Errorf("load receipt date: %w", err)
	}

	hour, err := r.client.Get(ctx, receiptTimeKey).Result()
	if err == redis.Nil {
		return models.SubmissionReceipt{}, false, nil
	}
	if err != nil {
		return models.SubmissionReceipt{}, false, fmt.Errorf("load receipt time: %w", err)
	}

	return models.SubmissionReceipt{Date: date, Time: hour}, true, nil
}
