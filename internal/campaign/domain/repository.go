package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/pkg/db/option"
	"github.com/revloop/revloop/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, campaign Campaign) (*Campaign, error)
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Campaign, error)
	// FindByIDAny looks a campaign up without a company scope. Review
	// submission resolves campaigns from public input, where the tenant
	// is derived from the campaign itself.
	FindByIDAny(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Campaign, error)
	FindAll(ctx context.Context, db *gorm.DB, companyID snowflake.ID, p pagination.Pagination, opts ...option.Option) ([]Campaign, int64, error)
	Update(ctx context.Context, db *gorm.DB, campaign Campaign) (*Campaign, error)
	Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) error

	// SetProducts replaces the campaign's product set, syncing both the
	// join table and the denormalized ProductIDs column.
	SetProducts(ctx context.Context, db *gorm.DB, campaign *Campaign, productIDs []snowflake.ID) error
	// AddProduct appends one product to the campaign if not already present.
	AddProduct(ctx context.Context, db *gorm.DB, campaign *Campaign, productID snowflake.ID) error
	HasProduct(ctx context.Context, db *gorm.DB, campaignID, productID snowflake.ID) (bool, error)
	CountByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (int64, error)
}
