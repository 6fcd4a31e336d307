package domain

import (
	"context"

	plandomain "github.com/revloop/revloop/internal/plan/domain"
)

type SubscribeRequest struct {
	PlanType plandomain.PlanType `json:"plan_type" binding:"required"`
}

type SubscribeResponse struct {
	CheckoutURL  string        `json:"checkout_url"`
	Subscription *Subscription `json:"subscription"`
}

type Service interface {
	// Subscribe opens a checkout session for the company and records a
	// PENDING subscription keyed by the processor's reference.
	Subscribe(ctx context.Context, req SubscribeRequest) (*SubscribeResponse, error)
	// HandleWebhook applies a processor notification: activation swaps
	// the company's plan, failure marks the subscription past due.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	// ExpireOverdue cancels lapsed subscriptions and drops their
	// companies back to the free tier. Returns how many were expired.
	ExpireOverdue(ctx context.Context) (int, error)
}
