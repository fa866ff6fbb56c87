package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageEvent is one immutable ledger entry, appended once per completed
// summarization (cache hits included). The only permitted mutation is the
// one-way administrative counted=false reset, which removes the event from
// future window counts without deleting history.
type UsageEvent struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	VideoID   string    `json:"video_id" db:"video_id"`
	Action    string    `json:"action" db:"action"`
	Counted   bool      `json:"counted" db:"counted"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

const ActionSummarize = "summarize"
