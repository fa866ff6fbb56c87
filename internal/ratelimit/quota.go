package ratelimit

import (
	"context"
	"log"
	"time"

	"vidbrief/internal/domain/models"
	"vidbrief/internal/domain/repositories"
)

// Decision is the outcome of a quota check. Remaining is reported relative
// to the counts observed at check time; a later Append may make it stale,
// which is acceptable for display purposes.
type Decision struct {
	Allowed   bool
	Reason    string
	Remaining models.RemainingLimits
}

// QuotaGate enforces per-plan daily and per-minute ceilings against the
// usage ledger. Windows are UTC calendar windows: the daily window resets at
// 00:00 UTC and the minute window at the top of each minute.
//
// The gate fails open: if the ledger cannot be read, the request is admitted
// and the error logged. A storage blip must not lock paying users out.
type QuotaGate struct {
	usage  repositories.UsageEventRepository
	limits map[models.UserPlan]models.PlanLimits
	now    func() time.Time
}

func NewQuotaGate(usage repositories.UsageEventRepository, limits map[models.UserPlan]models.PlanLimits) *QuotaGate {
	if limits == nil {
		limits = models.DefaultPlanLimits()
	}
	return &QuotaGate{
		usage:  usage,
		limits: limits,
		now:    time.Now,
	}
}

// WithNowFunc replaces the clock. Test hook.
func (g *QuotaGate) WithNowFunc(now func() time.Time) *QuotaGate {
	g.now = now
	return g
}

// Check decides whether the user may start a summarize request right now.
// It consumes nothing; recording usage is the caller's responsibility after
// the work is done.
func (g *QuotaGate) Check(ctx context.Context, userID int64, plan models.UserPlan) Decision {
	limits, ok := g.limits[plan]
	if !ok {
		limits = g.limits[models.PlanFree]
	}

	now := g.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startOfMinute := now.Truncate(time.Minute)

	dayCount, err := g.usage.CountSince(ctx, userID, startOfDay)
	if err != nil {
		log.Printf("quota check failed for user %d, admitting request: %v", userID, err)
		return Decision{Allowed: true, Remaining: models.RemainingLimits{Daily: limits.Daily, Minute: limits.Minute}}
	}

	minuteCount, err := g.usage.CountSince(ctx, userID, startOfMinute)
	if err != nil {
		log.Printf("quota check failed for user %d, admitting request: %v", userID, err)
		return Decision{Allowed: true, Remaining: models.RemainingLimits{Daily: limits.Daily, Minute: limits.Minute}}
	}

	remaining := models.RemainingLimits{
		Daily:  clampZero(limits.Daily - dayCount),
		Minute: clampZero(limits.Minute - minuteCount),
	}

	// Daily exhaustion wins when both windows are full: it is the more
	// actionable message for the user.
	if dayCount >= limits.Daily {
		return Decision{Reason: models.ReasonDailyLimit, Remaining: remaining}
	}
	if minuteCount >= limits.Minute {
		return Decision{Reason: models.ReasonMinuteLimit, Remaining: remaining}
	}

	return Decision{Allowed: true, Remaining: remaining}
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
