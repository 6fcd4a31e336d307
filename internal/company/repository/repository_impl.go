package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/internal/company/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	return db.WithContext(ctx).Create(company).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Company, error) {
	var c domain.Company
	err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repo) FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Company, error) {
	stmt := db.WithContext(ctx)
	// sqlite has no SELECT ... FOR UPDATE; its writer lock serializes anyway.
	if stmt.Dialector.Name() != "sqlite" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var c domain.Company
	err := stmt.Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	if company == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).
		Model(&domain.Company{}).
		Where("id = ?", company.ID).
		Updates(map[string]any{
			"name":       company.Name,
			"email":      company.Email,
			"updated_at": company.UpdatedAt,
		}).Error
}

func (r *repo) SetPlan(ctx context.Context, db *gorm.DB, id snowflake.ID, planID snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.Company{}).
		Where("id = ?", id).
		Update("plan_id", planID).Error
}
