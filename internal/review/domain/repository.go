package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/pkg/db/option"
	"github.com/revloop/revloop/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, review Review) (*Review, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Review, error)
	// FindByCompany pages through reviews joined through the product's
	// company, optionally filtered by status.
	FindByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID, status *Status, p pagination.Pagination, opts ...option.Option) ([]Review, int64, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status Status) (*Review, error)
}
