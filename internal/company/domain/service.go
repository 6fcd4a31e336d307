package domain

import (
	"context"
	"time"
)

type CreateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UpdateRequest struct {
	ID    string
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type Response struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Email     string    `json:"email,omitempty"`
	Ratio     float64   `json:"ratio"`
	Reviews   int64     `json:"reviews"`
	PlanID    *string   `json:"plan_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
}
