package repositories

import (
	"context"
	"time"

	"vidbrief/internal/domain/models"
)

// UsageEventRepository is the append-only usage ledger. CountSince only sees
// events with counted=true; ResetCounted is the one-way administrative stamp
// that excludes a user's events from future window counts without deleting
// audit history.
type UsageEventRepository interface {
	Append(ctx context.Context, event *models.UsageEvent) error
	CountSince(ctx context.Context, userID int64, since time.Time) (int, error)
	ResetCounted(ctx context.Context, userID int64, before time.Time) (int64, error)
}
