package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, plan *Plan) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Plan, error)
	FindByType(ctx context.Context, db *gorm.DB, planType PlanType) (*Plan, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Plan, error)
}
