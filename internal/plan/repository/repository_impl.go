package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/internal/plan/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, plan *domain.Plan) error {
	return db.WithContext(ctx).Create(plan).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Plan, error) {
	var p domain.Plan
	err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repo) FindByType(ctx context.Context, db *gorm.DB, planType domain.PlanType) (*domain.Plan, error) {
	var p domain.Plan
	err := db.WithContext(ctx).Where("type = ?", planType).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Plan, error) {
	var items []domain.Plan
	if err := db.WithContext(ctx).Order("price_cents ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
