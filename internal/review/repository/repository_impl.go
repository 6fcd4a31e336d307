package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/internal/review/domain"
	"github.com/revloop/revloop/pkg/db/option"
	"github.com/revloop/revloop/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, review domain.Review) (*domain.Review, error) {
	if err := db.WithContext(ctx).Create(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Review, error) {
	var review domain.Review
	err := db.WithContext(ctx).
		Preload("Promotion").
		Where("id = ?", id).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repo) FindByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID, status *domain.Status, p pagination.Pagination, opts ...option.Option) ([]domain.Review, int64, error) {
	var (
		reviews []domain.Review
		total   int64
	)

	query := db.WithContext(ctx).Model(&domain.Review{}).
		Joins("JOIN products ON products.id = reviews.product_id").
		Where("products.company_id = ?", companyID)
	if status != nil {
		query = query.Where("reviews.status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	for _, opt := range opts {
		query = opt.Apply(query)
	}

	err := query.Preload("Promotion").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.Status) (*domain.Review, error) {
	res := db.WithContext(ctx).Model(&domain.Review{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.FindByID(ctx, db, id)
}
