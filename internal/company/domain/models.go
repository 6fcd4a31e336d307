package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Company is the tenant root. Products, campaigns, promotions and users are
// exclusively owned by one company.
type Company struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"type:text;not null" json:"name"`
	Slug      string        `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	Email     string        `gorm:"type:text" json:"email,omitempty"`
	Ratio     float64       `gorm:"not null;default:0" json:"ratio"`
	Reviews   int64         `gorm:"not null;default:0" json:"reviews"`
	PlanID    *snowflake.ID `gorm:"index" json:"plan_id,omitempty"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Company) TableName() string { return "companies" }

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidCompany = errors.New("invalid_company")
	ErrSlugTaken      = errors.New("conflict")
)
