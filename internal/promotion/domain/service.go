package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/pkg/db/pagination"
)

type CreatePromotionRequest struct {
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description"`
	Type        PromotionType `json:"promotion_type" binding:"required"`
	Image       *string       `json:"image,omitempty"`

	GiftCardDeliveryMethod *string  `json:"gift_card_delivery_method,omitempty"`
	ApprovalMethod         *string  `json:"approval_method,omitempty"`
	CodeType               *string  `json:"code_type,omitempty"`
	CouponCodes            []string `json:"coupon_codes,omitempty"`
	DownloadableFile       *string  `json:"downloadable_file,omitempty"`
	DigitalApprovalMethod  *string  `json:"digital_approval_method,omitempty"`
}

type UpdatePromotionRequest struct {
	ID          snowflake.ID `json:"-"`
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	Image       *string      `json:"image,omitempty"`

	GiftCardDeliveryMethod *string   `json:"gift_card_delivery_method,omitempty"`
	ApprovalMethod         *string   `json:"approval_method,omitempty"`
	CodeType               *string   `json:"code_type,omitempty"`
	CouponCodes            *[]string `json:"coupon_codes,omitempty"`
	DownloadableFile       *string   `json:"downloadable_file,omitempty"`
	DigitalApprovalMethod  *string   `json:"digital_approval_method,omitempty"`
}

type ListPromotionRequest struct {
	pagination.Pagination
	SortBy string `form:"sort_by"`
	Order  string `form:"order"`
}

type ListPromotionResponse struct {
	Data     []Promotion         `json:"data"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

type Service interface {
	Create(ctx context.Context, req CreatePromotionRequest) (*Promotion, error)
	List(ctx context.Context, req ListPromotionRequest) (*ListPromotionResponse, error)
	Get(ctx context.Context, id snowflake.ID) (*Promotion, error)
	Update(ctx context.Context, req UpdatePromotionRequest) (*Promotion, error)
	Delete(ctx context.Context, id snowflake.ID) error
}
