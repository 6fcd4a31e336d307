package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/internal/billing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, sub domain.Subscription) (*domain.Subscription, error) {
	if err := db.WithContext(ctx).Create(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repo) FindByRef(ctx context.Context, db *gorm.DB, ref string) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := db.WithContext(ctx).Where("processor_ref = ?", ref).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repo) FindActiveByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := db.WithContext(ctx).
		Where("company_id = ? AND status = ?", companyID, domain.SubscriptionStatusActive).
		Order("current_period_end DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repo) FindOverdue(ctx context.Context, db *gorm.DB, cutoff time.Time) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	err := db.WithContext(ctx).
		Where("status IN ? AND current_period_end < ?",
			[]domain.SubscriptionStatus{domain.SubscriptionStatusActive, domain.SubscriptionStatusPastDue},
			cutoff).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.SubscriptionStatus) error {
	return db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repo) ExtendPeriod(ctx context.Context, db *gorm.DB, id snowflake.ID, until time.Time) error {
	return db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("id = ?", id).
		Update("current_period_end", until).Error
}
