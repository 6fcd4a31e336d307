package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Category groups products for a company.
type Category struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;index:ux_categories_company_name,priority:1" json:"company_id"`
	Name      string       `gorm:"type:text;not null;index:ux_categories_company_name,priority:2" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Category) TableName() string { return "categories" }

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidCompany = errors.New("invalid_company")
)
