package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/pkg/db/pagination"
)

// DispatchResult reports what the reward phase did for a submission.
type DispatchResult string

const (
	DispatchDispatched DispatchResult = "DISPATCHED"
	DispatchSkipped    DispatchResult = "SKIPPED"
	DispatchFailed     DispatchResult = "FAILED"
)

type SubmitReviewRequest struct {
	Email       string        `json:"email" binding:"required"`
	Name        string        `json:"name" binding:"required"`
	ASIN        *string       `json:"asin,omitempty"`
	IsSeller    bool          `json:"is_seller"`
	CompanyID   *snowflake.ID `json:"company_id,string,omitempty"`
	Rating      float64       `json:"rating" binding:"required"`
	Feedback    string        `json:"feedback" binding:"required"`
	Marketplace string        `json:"marketplace"`
	Country     string        `json:"country"`
	OrderNo     *string       `json:"order_no,omitempty"`
	PromotionID *snowflake.ID `json:"promotion_id,string,omitempty"`
	CampaignID  *snowflake.ID `json:"campaign_id,string,omitempty"`
}

type UpdateStatusRequest struct {
	ID     snowflake.ID `json:"-"`
	Status Status       `json:"status" binding:"required"`
}

type ListReviewRequest struct {
	CompanyID snowflake.ID
	Status    *Status
	pagination.Pagination
	SortBy string `form:"sortBy"`
	Order  string `form:"sortOrder"`
}

type ListReviewResponse struct {
	Data     []Review            `json:"reviews"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

type Service interface {
	// Submit runs the full ingestion workflow: product resolution,
	// campaign checks, customer upsert, review insert, then best-effort
	// reward dispatch. The returned review carries its promotion, and
	// its status tells the caller whether dispatch happened.
	Submit(ctx context.Context, req SubmitReviewRequest) (*Review, DispatchResult, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*Review, error)
	ListByCompany(ctx context.Context, req ListReviewRequest) (*ListReviewResponse, error)
}
