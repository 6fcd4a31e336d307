package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/internal/customer/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, id snowflake.ID, email, name string, rating float64) (*domain.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	customer := domain.Customer{
		ID:      id,
		Email:   email,
		Name:    name,
		Reviews: 1,
		Ratio:   rating,
	}

	// Read-modify-write on conflict happens inside the statement, so two
	// concurrent submissions for the same email cannot lose an update.
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"name":       name,
			"ratio":      gorm.Expr("(customers.ratio * customers.reviews + ?) / (customers.reviews + 1)", rating),
			"reviews":    gorm.Expr("customers.reviews + 1"),
			"updated_at": time.Now().UTC(),
		}),
	}).Create(&customer).Error
	if err != nil {
		return nil, err
	}

	return r.FindByEmail(ctx, db, email)
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
