package repository

import (
	"context"
	"errors"

	"github.com/revloop/revloop/internal/category/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	return db.WithContext(ctx).Create(category).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id int64) (*domain.Category, error) {
	var c domain.Category
	err := db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB, companyID int64) ([]domain.Category, error) {
	var items []domain.Category
	err := db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, companyID, id int64) error {
	return db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&domain.Category{}).Error
}
