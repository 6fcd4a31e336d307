package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	promotiondomain "github.com/revloop/revloop/internal/promotion/domain"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusProcessed Status = "PROCESSED"
	StatusRejected  Status = "REJECTED"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusProcessed, StatusRejected:
		return true
	}
	return false
}

const MinFeedbackLen = 10

// Review is one customer submission against a product. PromotionID and
// CampaignID are weak attribution references and are set NULL when the
// referenced entity is deleted. Status moves PENDING to PROCESSED or
// REJECTED exactly once.
type Review struct {
	ID           snowflake.ID  `gorm:"primaryKey" json:"id"`
	Email        string        `gorm:"type:text;not null;index" json:"email"`
	Name         string        `gorm:"type:text;not null" json:"name"`
	ProductID    snowflake.ID  `gorm:"not null;index" json:"product_id"`
	CustomerID   snowflake.ID  `gorm:"not null;index" json:"customer_id"`
	Ratio        float64       `gorm:"not null" json:"ratio"`
	Feedback     string        `gorm:"type:text;not null" json:"feedback"`
	Marketplace  string        `gorm:"type:text;not null" json:"marketplace"`
	OrderNo      *string       `gorm:"type:text" json:"order_no,omitempty"`
	PromotionID  *snowflake.ID `gorm:"index" json:"promotion_id,omitempty"`
	CampaignID   *snowflake.ID `gorm:"index" json:"campaign_id,omitempty"`
	Status       Status        `gorm:"type:text;not null;default:'PENDING';index" json:"status"`
	FeedbackDate time.Time     `gorm:"not null" json:"feedback_date"`
	CreatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Promotion *promotiondomain.Promotion `gorm:"foreignKey:PromotionID" json:"promotion,omitempty"`
}

func (Review) TableName() string { return "reviews" }

var (
	ErrNotFound             = errors.New("not_found")
	ErrInvalidRating        = errors.New("invalid_rating")
	ErrFeedbackTooShort     = errors.New("feedback_too_short")
	ErrInvalidEmail         = errors.New("invalid_email")
	ErrInvalidMarketplace   = errors.New("invalid_marketplace")
	ErrMissingTarget        = errors.New("missing_product_target")
	ErrCampaignInactive     = errors.New("campaign_inactive")
	ErrProductNotInCampaign = errors.New("product_not_in_campaign")
	ErrStatusFinal          = errors.New("status_already_final")
	ErrInvalidStatus        = errors.New("invalid_status")
)
