package stats

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	campaigndomain "github.com/revloop/revloop/internal/campaign/domain"
	companydomain "github.com/revloop/revloop/internal/company/domain"
	productdomain "github.com/revloop/revloop/internal/product/domain"
	reviewdomain "github.com/revloop/revloop/internal/review/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Maintainer keeps denormalized review aggregates current. Product and
// campaign ratios are full recomputes over the review set; the company
// review counter is event-counted, one increment per invocation.
//
// Every method is best-effort: a missing target entity is logged and
// skipped, never surfaced to the caller.
type Maintainer interface {
	RecomputeProductRatio(ctx context.Context, db *gorm.DB, productID snowflake.ID) error
	RecomputeCompanyRatio(ctx context.Context, db *gorm.DB, companyID snowflake.ID) error
	RecomputeCampaignStatistics(ctx context.Context, db *gorm.DB, campaignID snowflake.ID) error
}

type Params struct {
	fx.In
	Log *zap.Logger
}

type maintainer struct {
	log *zap.Logger
}

func New(p Params) Maintainer {
	return &maintainer{log: p.Log.Named("stats.maintainer")}
}

func (m *maintainer) RecomputeProductRatio(ctx context.Context, db *gorm.DB, productID snowflake.ID) error {
	var exists int64
	if err := db.WithContext(ctx).Model(&productdomain.Product{}).
		Where("id = ?", productID).Count(&exists).Error; err != nil {
		return err
	}
	if exists == 0 {
		m.log.Warn("product missing, skipping ratio recompute", zap.Int64("product_id", int64(productID)))
		return nil
	}

	var ratio float64
	err := db.WithContext(ctx).Model(&reviewdomain.Review{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(ratio), 0)").
		Scan(&ratio).Error
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Model(&productdomain.Product{}).
		Where("id = ?", productID).
		Update("ratio", ratio).Error
}

func (m *maintainer) RecomputeCompanyRatio(ctx context.Context, db *gorm.DB, companyID snowflake.ID) error {
	var company companydomain.Company
	err := db.WithContext(ctx).Where("id = ?", companyID).First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		m.log.Warn("company missing, skipping ratio recompute", zap.Int64("company_id", int64(companyID)))
		return nil
	}
	if err != nil {
		return err
	}

	var ratio float64
	err = db.WithContext(ctx).Model(&reviewdomain.Review{}).
		Joins("JOIN products ON products.id = reviews.product_id").
		Where("products.company_id = ?", companyID).
		Select("COALESCE(AVG(reviews.ratio), 0)").
		Scan(&ratio).Error
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Model(&companydomain.Company{}).
		Where("id = ?", companyID).
		Updates(map[string]interface{}{
			"ratio":   ratio,
			"reviews": gorm.Expr("reviews + 1"),
		}).Error
}

func (m *maintainer) RecomputeCampaignStatistics(ctx context.Context, db *gorm.DB, campaignID snowflake.ID) error {
	var exists int64
	if err := db.WithContext(ctx).Model(&campaigndomain.Campaign{}).
		Where("id = ?", campaignID).Count(&exists).Error; err != nil {
		return err
	}
	if exists == 0 {
		m.log.Warn("campaign missing, skipping statistics recompute", zap.Int64("campaign_id", int64(campaignID)))
		return nil
	}

	type agg struct {
		Claims int64
		Ratio  float64
	}
	var a agg
	err := db.WithContext(ctx).Model(&reviewdomain.Review{}).
		Where("campaign_id = ?", campaignID).
		Select("COUNT(*) AS claims, COALESCE(AVG(ratio), 0) AS ratio").
		Scan(&a).Error
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Model(&campaigndomain.Campaign{}).
		Where("id = ?", campaignID).
		Updates(map[string]interface{}{
			"claims": a.Claims,
			"ratio":  a.Ratio,
		}).Error
}
