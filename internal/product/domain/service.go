package domain

import (
	"context"
	"time"
)

type CreateRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ASIN        *string `json:"asin"`
	CategoryID  *string `json:"category_id"`
	Image       *string `json:"image"`
}

type UpdateRequest struct {
	ID          string
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CategoryID  *string `json:"category_id"`
	Image       *string `json:"image"`
}

type Response struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	CategoryID  *string   `json:"category_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Image       *string   `json:"image,omitempty"`
	ASIN        *string   `json:"asin,omitempty"`
	Ratio       float64   `json:"ratio"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}
