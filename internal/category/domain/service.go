package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, category *Category) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id int64) (*Category, error)
	FindAll(ctx context.Context, db *gorm.DB, companyID int64) ([]Category, error)
	Delete(ctx context.Context, db *gorm.DB, companyID, id int64) error
}

type CreateRequest struct {
	Name string `json:"name"`
}

type Response struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Delete(ctx context.Context, id string) error
}
