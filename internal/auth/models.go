package auth

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Session is an opaque bearer token with a fixed TTL. Expired rows are
// rejected on authentication and reaped by the expiry sweep.
type Session struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Token     string       `gorm:"type:text;not null;uniqueIndex" json:"token"`
	UserID    snowflake.ID `gorm:"not null;index" json:"user_id"`
	CompanyID snowflake.ID `gorm:"not null;index" json:"company_id"`
	ExpiresAt time.Time    `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Session) TableName() string { return "sessions" }

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrSessionExpired     = errors.New("session_expired")
	ErrSessionNotFound    = errors.New("session_not_found")
)
