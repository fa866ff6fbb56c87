package models

import (
	"time"
)

type UserPlan string

const (
	PlanFree UserPlan = "free"
	PlanPro  UserPlan = "pro"
	PlanMax  UserPlan = "max"
)

type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	Plan      UserPlan  `json:"plan" db:"plan"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PlanLimits holds the admission ceilings for a plan.
type PlanLimits struct {
	Daily  int `json:"daily"`
	Minute int `json:"minute"`
}

func DefaultPlanLimits() map[UserPlan]PlanLimits {
	return map[UserPlan]PlanLimits{
		PlanFree: {Daily: 3, Minute: 1},
		PlanPro:  {Daily: 20, Minute: 3},
		PlanMax:  {Daily: 100, Minute: 10},
	}
}
