package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

type User struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID    snowflake.ID `gorm:"not null;index" json:"company_id"`
	Email        string       `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Name         string       `gorm:"type:text;not null" json:"name"`
	PasswordHash string       `gorm:"type:text;not null" json:"-"`
	Role         Role         `gorm:"type:text;not null;default:'MEMBER'" json:"role"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string { return "users" }

var (
	ErrNotFound        = errors.New("not_found")
	ErrEmailTaken      = errors.New("conflict")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidPassword = errors.New("invalid_password")
	ErrInvalidCompany  = errors.New("invalid_company")
	ErrInvalidRole     = errors.New("invalid_role")
)
