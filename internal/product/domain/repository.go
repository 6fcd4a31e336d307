package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Product, error)
	// FindByASIN resolves a product by exact ASIN match across companies;
	// the public review endpoint has no tenant scope.
	FindByASIN(ctx context.Context, db *gorm.DB, asin string) (*Product, error)
	// FindByIDAny looks a product up without a company scope, for
	// stats refresh paths that start from a review row.
	FindByIDAny(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
	FindSellerProfile(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*Product, error)
	FindAll(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]Product, error)
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) error
}
