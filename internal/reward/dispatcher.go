package reward

import (
	"context"
	"fmt"

	"github.com/revloop/revloop/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Dispatcher delivers promotion rewards to reviewers by email. Dispatch is
// best-effort; callers decide what a failure means for the review.
type Dispatcher interface {
	SendCouponCode(ctx context.Context, to, name, promotionTitle, code string) error
	SendDigitalFile(ctx context.Context, to, name, promotionTitle, fileURL string) error
}

type Params struct {
	fx.In
	Log   *zap.Logger
	Email email.Provider
}

type dispatcher struct {
	log   *zap.Logger
	email email.Provider
}

func New(p Params) Dispatcher {
	return &dispatcher{
		log:   p.Log.Named("reward.dispatcher"),
		email: p.Email,
	}
}

func (d *dispatcher) SendCouponCode(ctx context.Context, to, name, promotionTitle, code string) error {
	subject := fmt.Sprintf("Your discount code for %s", promotionTitle)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Thank you for your review! Here is your discount code:</p><h2>%s</h2>",
		name, code,
	)
	if err := d.email.Send(ctx, []string{to}, subject, body); err != nil {
		d.log.Warn("coupon code dispatch failed",
			zap.String("to", to),
			zap.String("promotion", promotionTitle),
			zap.Error(err))
		return err
	}
	return nil
}

func (d *dispatcher) SendDigitalFile(ctx context.Context, to, name, promotionTitle, fileURL string) error {
	subject := fmt.Sprintf("Your download for %s", promotionTitle)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Thank you for your review! Your file is ready:</p><p><a href=\"%s\">Download</a></p>",
		name, fileURL,
	)
	if err := d.email.Send(ctx, []string{to}, subject, body); err != nil {
		d.log.Warn("digital file dispatch failed",
			zap.String("to", to),
			zap.String("promotion", promotionTitle),
			zap.Error(err))
		return err
	}
	return nil
}
