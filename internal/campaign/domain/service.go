package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/pkg/db/pagination"
)

type CreateCampaignRequest struct {
	Title        string         `json:"title" binding:"required"`
	IsActive     string         `json:"is_active"`
	PromotionID  *snowflake.ID  `json:"promotion_id,string,omitempty"`
	ProductIDs   []snowflake.ID `json:"product_ids"`
	Marketplaces []string       `json:"marketplaces"`
	Image        *string        `json:"image,omitempty"`
}

type UpdateCampaignRequest struct {
	ID           snowflake.ID    `json:"-"`
	Title        *string         `json:"title,omitempty"`
	IsActive     *string         `json:"is_active,omitempty"`
	PromotionID  *snowflake.ID   `json:"promotion_id,string,omitempty"`
	ProductIDs   *[]snowflake.ID `json:"product_ids,omitempty"`
	Marketplaces *[]string       `json:"marketplaces,omitempty"`
	Image        *string         `json:"image,omitempty"`
}

type ListCampaignRequest struct {
	pagination.Pagination
	SortBy string `form:"sort_by"`
	Order  string `form:"order"`
}

type ListCampaignResponse struct {
	Data     []Campaign          `json:"data"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

type Service interface {
	Create(ctx context.Context, req CreateCampaignRequest) (*Campaign, error)
	List(ctx context.Context, req ListCampaignRequest) (*ListCampaignResponse, error)
	Get(ctx context.Context, id snowflake.ID) (*Campaign, error)
	Update(ctx context.Context, req UpdateCampaignRequest) (*Campaign, error)
	Delete(ctx context.Context, id snowflake.ID) error
}
