package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Upsert records one review submission for the given email. A new
	// customer starts at reviews=1, ratio=rating; an existing one gets
	// reviews incremented and ratio folded into the weighted running
	// average, in a single conflict-safe statement.
	Upsert(ctx context.Context, db *gorm.DB, id snowflake.ID, email, name string, rating float64) (*Customer, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Customer, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
}
