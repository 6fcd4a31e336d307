// Package domain contains persistence models for plan subscriptions.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type SubscriptionStatus string

const (
	SubscriptionStatusPending  SubscriptionStatus = "PENDING"
	SubscriptionStatusActive   SubscriptionStatus = "ACTIVE"
	SubscriptionStatusPastDue  SubscriptionStatus = "PAST_DUE"
	SubscriptionStatusCanceled SubscriptionStatus = "CANCELED"
	SubscriptionStatusExpired  SubscriptionStatus = "EXPIRED"
)

// Subscription ties a company to a paid plan for a billing period.
// ProcessorRef is the payment processor's identifier for the agreement.
type Subscription struct {
	ID               snowflake.ID       `gorm:"primaryKey" json:"id"`
	CompanyID        snowflake.ID       `gorm:"not null;index" json:"company_id"`
	PlanID           snowflake.ID       `gorm:"not null;index" json:"plan_id"`
	Status           SubscriptionStatus `gorm:"type:text;not null" json:"status"`
	CurrentPeriodEnd time.Time          `gorm:"not null;index" json:"current_period_end"`
	ProcessorRef     *string            `gorm:"type:text;index" json:"processor_ref,omitempty"`
	Metadata         datatypes.JSONMap  `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt        time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidPlan    = errors.New("invalid_plan")
	ErrInvalidCompany = errors.New("invalid_company")
	ErrBadWebhook     = errors.New("bad_webhook")
)
