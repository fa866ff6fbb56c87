package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vidbrief/internal/domain/models"
	"vidbrief/internal/domain/repositories"
)

type usageEventRepository struct {
	db *PostgresDB
}

func NewUsageEventRepository(db *PostgresDB) repositories.UsageEventRepository {
	return &usageEventRepository{db: db}
}

func (r *usageEventRepository) Append(ctx context.Context, event *models.UsageEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO usage_events (id, user_id, video_id, action, counted, created_at)
              VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(
		ctx, query,
		event.ID,
		event.UserID,
		event.VideoID,
		event.Action,
		event.Counted,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append usage event: %w", err)
	}
	return nil
}

func (r *usageEventRepository) CountSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM usage_events
              WHERE user_id = $1 AND counted = TRUE AND created_at >= $2`

	if err := r.db.GetContext(ctx, &count, query, userID, since); err != nil {
		return 0, fmt.Errorf("failed to count usage events: %w", err)
	}
	return count, nil
}

func (r *usageEventRepository) ResetCounted(ctx context.Context, userID int64, before time.Time) (int64, error) {
	query := `UPDATE usage_events SET counted = FALSE
              WHERE user_id = $1 AND counted = TRUE AND created_at < $2`

	result, err := r.db.ExecContext(ctx, query, userID, before)
	if err != nil {
		return 0, fmt.Errorf("failed to reset usage events: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rowsAffected, nil
}
