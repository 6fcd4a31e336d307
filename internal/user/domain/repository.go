package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, user User) (*User, error)
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error)
	FindAll(ctx context.Context, db *gorm.DB, companyID snowflake.ID, p pagination.Pagination) ([]User, int64, error)
	Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) error
}
