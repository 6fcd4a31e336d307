package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// PlanType is the closed set of subscription tiers.
type PlanType string

const (
	PlanSilver   PlanType = "SILVER"
	PlanGold     PlanType = "GOLD"
	PlanPlatinum PlanType = "PLATINUM"
)

// Plan is a subscription tier a company can be on.
type Plan struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Type       PlanType     `gorm:"type:text;not null;uniqueIndex" json:"type"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	PriceCents int64        `gorm:"not null;default:0" json:"price_cents"`
	Interval   string       `gorm:"type:text;not null;default:'month'" json:"interval"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Plan) TableName() string { return "plans" }

// Unlimited marks a quota with no ceiling.
const Unlimited = -1

// Quotas is the per-tier resource ceiling set.
type Quotas struct {
	Promotions int
	Campaigns  int
	Products   int
	Users      int
}

var tierQuotas = map[PlanType]Quotas{
	PlanSilver:   {Promotions: 1, Campaigns: 1, Products: 10, Users: 2},
	PlanGold:     {Promotions: 10, Campaigns: 10, Products: 100, Users: 10},
	PlanPlatinum: {Promotions: Unlimited, Campaigns: Unlimited, Products: Unlimited, Users: Unlimited},
}

// QuotasForType returns the resource ceilings for a plan tier.
func QuotasForType(t PlanType) (Quotas, bool) {
	q, ok := tierQuotas[t]
	return q, ok
}

// NextTier returns the tier a company should upgrade to, if any.
func NextTier(t PlanType) (PlanType, bool) {
	switch t {
	case PlanSilver:
		return PlanGold, true
	case PlanGold:
		return PlanPlatinum, true
	default:
		return "", false
	}
}

var (
	ErrNotFound        = errors.New("not_found")
	ErrUnknownPlanType = errors.New("unknown_plan_type")
)
