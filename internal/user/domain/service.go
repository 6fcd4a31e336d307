package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/pkg/db/pagination"
)

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     Role   `json:"role"`
}

type ListUserRequest struct {
	pagination.Pagination
}

type ListUserResponse struct {
	Data     []User              `json:"data"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (*User, error)
	List(ctx context.Context, req ListUserRequest) (*ListUserResponse, error)
	Get(ctx context.Context, id snowflake.ID) (*User, error)
	Delete(ctx context.Context, id snowflake.ID) error
}
