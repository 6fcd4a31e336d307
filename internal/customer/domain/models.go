package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Customer aggregates review activity per unique email address. Reviews
// counts submissions; Ratio is the weighted running average of their
// scores, maintained atomically on every upsert.
type Customer struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Email     string       `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Reviews   int64        `gorm:"not null;default:0" json:"reviews"`
	Ratio     float64      `gorm:"not null;default:0" json:"ratio"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

var ErrNotFound = errors.New("not_found")
