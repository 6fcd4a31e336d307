package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	ActiveYes = "YES"
	ActiveNo  = "NO"
)

// Campaign targets a set of products in a set of marketplaces, optionally
// attached to a promotion. ProductIDs denormalizes the join table and is
// kept in sync with it inside one transaction.
type Campaign struct {
	ID           snowflake.ID                `gorm:"primaryKey" json:"id"`
	CompanyID    snowflake.ID                `gorm:"not null;index" json:"company_id"`
	Title        string                      `gorm:"type:text;not null" json:"title"`
	IsActive     string                      `gorm:"type:text;not null;default:'YES'" json:"is_active"`
	PromotionID  *snowflake.ID               `gorm:"index" json:"promotion_id,omitempty"`
	ProductIDs   datatypes.JSONSlice[int64]  `gorm:"type:jsonb" json:"product_ids"`
	Marketplaces datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"marketplaces"`
	Claims       int64                       `gorm:"not null;default:0" json:"claims"`
	Ratio        float64                     `gorm:"not null;default:0" json:"ratio"`
	Image        *string                     `gorm:"type:text" json:"image,omitempty"`
	CreatedAt    time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Campaign) TableName() string { return "campaigns" }

// CampaignProduct is the explicit campaign/product join.
type CampaignProduct struct {
	CampaignID snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"campaign_id"`
	ProductID  snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
}

func (CampaignProduct) TableName() string { return "campaign_products" }

var (
	ErrNotFound          = errors.New("not_found")
	ErrInvalidTitle      = errors.New("invalid_title")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidCompany    = errors.New("invalid_company")
	ErrInvalidProduct    = errors.New("invalid_product")
	ErrInvalidActiveFlag = errors.New("invalid_is_active")
)
