package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/internal/campaign/domain"
	"github.com/revloop/revloop/pkg/db/option"
	"github.com/revloop/revloop/pkg/db/pagination"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, campaign domain.Campaign) (*domain.Campaign, error) {
	if err := db.WithContext(ctx).Create(&campaign).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Campaign, error) {
	var campaign domain.Campaign
	err := db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *repo) FindByIDAny(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Campaign, error) {
	var campaign domain.Campaign
	err := db.WithContext(ctx).Where("id = ?", id).First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB, companyID snowflake.ID, p pagination.Pagination, opts ...option.Option) ([]domain.Campaign, int64, error) {
	var (
		campaigns []domain.Campaign
		total     int64
	)

	query := db.WithContext(ctx).Model(&domain.Campaign{}).Where("company_id = ?", companyID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	for _, opt := range opts {
		query = opt.Apply(query)
	}

	if err := query.Offset(p.Offset()).Limit(p.Limit).Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, campaign domain.Campaign) (*domain.Campaign, error) {
	if err := db.WithContext(ctx).Save(&campaign).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("company_id = ? AND id = ?", companyID, id).Delete(&domain.Campaign{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Where("campaign_id = ?", id).Delete(&domain.CampaignProduct{}).Error
	})
}

func (r *repo) SetProducts(ctx context.Context, db *gorm.DB, campaign *domain.Campaign, productIDs []snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", campaign.ID).Delete(&domain.CampaignProduct{}).Error; err != nil {
			return err
		}

		denorm := make(datatypes.JSONSlice[int64], 0, len(productIDs))
		for _, pid := range productIDs {
			if err := tx.Create(&domain.CampaignProduct{CampaignID: campaign.ID, ProductID: pid}).Error; err != nil {
				return err
			}
			denorm = append(denorm, int64(pid))
		}

		campaign.ProductIDs = denorm
		return tx.Model(&domain.Campaign{}).
			Where("id = ?", campaign.ID).
			Update("product_ids", denorm).Error
	})
}

func (r *repo) AddProduct(ctx context.Context, db *gorm.DB, campaign *domain.Campaign, productID snowflake.ID) error {
	ok, err := r.HasProduct(ctx, db, campaign.ID, productID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&domain.CampaignProduct{CampaignID: campaign.ID, ProductID: productID}).Error; err != nil {
			return err
		}
		campaign.ProductIDs = append(campaign.ProductIDs, int64(productID))
		return tx.Model(&domain.Campaign{}).
			Where("id = ?", campaign.ID).
			Update("product_ids", campaign.ProductIDs).Error
	})
}

func (r *repo) HasProduct(ctx context.Context, db *gorm.DB, campaignID, productID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.CampaignProduct{}).
		Where("campaign_id = ? AND product_id = ?", campaignID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) CountByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Campaign{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}
