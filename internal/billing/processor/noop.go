package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	plandomain "github.com/revloop/revloop/internal/plan/domain"
)

// Noop approves every checkout immediately. Webhook payloads are plain
// JSON `{"type": "...", "ref": "..."}` with no signature check.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (n *Noop) CreateCheckoutSession(ctx context.Context, companyID int64, plan *plandomain.Plan) (*CheckoutSession, error) {
	ref := uuid.NewString()
	return &CheckoutSession{
		URL: fmt.Sprintf("https://checkout.invalid/session/%s", ref),
		Ref: ref,
	}, nil
}

func (n *Noop) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	var raw struct {
		Type string `json:"type"`
		Ref  string `json:"ref"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if raw.Ref == "" {
		return nil, fmt.Errorf("webhook missing ref")
	}
	return &WebhookEvent{Type: EventType(raw.Type), Ref: raw.Ref}, nil
}
