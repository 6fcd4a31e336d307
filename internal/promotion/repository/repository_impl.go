package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/internal/promotion/domain"
	"github.com/revloop/revloop/pkg/db/option"
	"github.com/revloop/revloop/pkg/db/pagination"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, promotion domain.Promotion) (*domain.Promotion, error) {
	if err := db.WithContext(ctx).Create(&promotion).Error; err != nil {
		return nil, err
	}
	return &promotion, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Promotion, error) {
	var promotion domain.Promotion
	err := db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&promotion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &promotion, nil
}

func (r *repo) FindByIDAny(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Promotion, error) {
	var promotion domain.Promotion
	err := db.WithContext(ctx).Where("id = ?", id).First(&promotion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &promotion, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB, companyID snowflake.ID, p pagination.Pagination, opts ...option.Option) ([]domain.Promotion, int64, error) {
	var (
		promotions []domain.Promotion
		total      int64
	)

	query := db.WithContext(ctx).Model(&domain.Promotion{}).Where("company_id = ?", companyID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	for _, opt := range opts {
		query = opt.Apply(query)
	}

	if err := query.Offset(p.Offset()).Limit(p.Limit).Find(&promotions).Error; err != nil {
		return nil, 0, err
	}
	return promotions, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, promotion domain.Promotion) (*domain.Promotion, error) {
	if err := db.WithContext(ctx).Save(&promotion).Error; err != nil {
		return nil, err
	}
	return &promotion, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) error {
	res := db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&domain.Promotion{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) RemoveCouponCode(ctx context.Context, db *gorm.DB, id snowflake.ID, code string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("id = ?", id)
		if tx.Dialector.Name() != "sqlite" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var promotion domain.Promotion
		if err := query.First(&promotion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		remaining := make(datatypes.JSONSlice[string], 0, len(promotion.CouponCodes))
		removed := false
		for _, c := range promotion.CouponCodes {
			if !removed && c == code {
				removed = true
				continue
			}
			remaining = append(remaining, c)
		}
		if !removed {
			return nil
		}

		return tx.Model(&domain.Promotion{}).
			Where("id = ?", id).
			Update("coupon_codes", remaining).Error
	})
}

func (r *repo) CountByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Promotion{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}
