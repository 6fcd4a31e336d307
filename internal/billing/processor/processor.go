// Package processor defines the payment-processor port. The concrete
// provider is selected by configuration; the default is a no-op used in
// development and tests.
package processor

import (
	"context"

	plandomain "github.com/revloop/revloop/internal/plan/domain"
)

type EventType string

const (
	EventPaymentSucceeded EventType = "payment_succeeded"
	EventPaymentFailed    EventType = "payment_failed"
	EventCanceled         EventType = "canceled"
)

// CheckoutSession is the redirect handed back to the caller to complete
// payment with the external processor.
type CheckoutSession struct {
	URL string
	Ref string
}

// WebhookEvent is the processor's asynchronous notification, already
// verified and decoded.
type WebhookEvent struct {
	Type EventType
	Ref  string
}

type Processor interface {
	CreateCheckoutSession(ctx context.Context, companyID int64, plan *plandomain.Plan) (*CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
