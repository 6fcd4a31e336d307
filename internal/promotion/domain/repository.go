package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/pkg/db/option"
	"github.com/revloop/revloop/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, promotion Promotion) (*Promotion, error)
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Promotion, error)
	// FindByIDAny looks a promotion up without a company scope, for
	// resolution from public review submissions.
	FindByIDAny(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Promotion, error)
	FindAll(ctx context.Context, db *gorm.DB, companyID snowflake.ID, p pagination.Pagination, opts ...option.Option) ([]Promotion, int64, error)
	Update(ctx context.Context, db *gorm.DB, promotion Promotion) (*Promotion, error)
	Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) error

	// RemoveCouponCode deletes one code from the promotion's pool after a
	// successful single-use dispatch, so the code cannot be reissued.
	RemoveCouponCode(ctx context.Context, db *gorm.DB, id snowflake.ID, code string) error
	CountByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (int64, error)
}
