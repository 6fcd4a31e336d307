package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/internal/billing/domain"
	"github.com/revloop/revloop/internal/billing/processor"
	"github.com/revloop/revloop/internal/clock"
	companydomain "github.com/revloop/revloop/internal/company/domain"
	"github.com/revloop/revloop/internal/companyctx"
	plandomain "github.com/revloop/revloop/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const billingPeriod = 30 * 24 * time.Hour

type Params struct {
	fx.In
	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Plans     plandomain.Repository
	Companies companydomain.Repository
	Processor processor.Processor
}

type service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	plans     plandomain.Repository
	companies companydomain.Repository
	processor processor.Processor
}

func New(p Params) domain.Service {
	return &service{
		db:        p.DB,
		log:       p.Log.Named("billing.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		plans:     p.Plans,
		companies: p.Companies,
		processor: p.Processor,
	}
}

func (s *service) Subscribe(ctx context.Context, req domain.SubscribeRequest) (*domain.SubscribeResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidCompany
	}

	plan, err := s.plans.FindByType(ctx, s.db, req.PlanType)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrInvalidPlan
	}

	session, err := s.processor.CreateCheckoutSession(ctx, int64(companyID), plan)
	if err != nil {
		return nil, err
	}

	sub := domain.Subscription{
		ID:               s.genID.Generate(),
		CompanyID:        companyID,
		PlanID:           plan.ID,
		Status:           domain.SubscriptionStatusPending,
		CurrentPeriodEnd: s.clock.Now().Add(billingPeriod),
		ProcessorRef:     &session.Ref,
	}
	created, err := s.repo.Insert(ctx, s.db, sub)
	if err != nil {
		return nil, err
	}

	return &domain.SubscribeResponse{
		CheckoutURL:  session.URL,
		Subscription: created,
	}, nil
}

func (s *service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.processor.ParseWebhook(payload, signature)
	if err != nil {
		return domain.ErrBadWebhook
	}

	sub, err := s.repo.FindByRef(ctx, s.db, event.Ref)
	if err != nil {
		return err
	}

	switch event.Type {
	case processor.EventPaymentSucceeded:
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.repo.UpdateStatus(ctx, tx, sub.ID, domain.SubscriptionStatusActive); err != nil {
				return err
			}
			if err := s.repo.ExtendPeriod(ctx, tx, sub.ID, s.clock.Now().Add(billingPeriod)); err != nil {
				return err
			}
			return s.companies.SetPlan(ctx, tx, sub.CompanyID, sub.PlanID)
		})

	case processor.EventPaymentFailed:
		return s.repo.UpdateStatus(ctx, s.db, sub.ID, domain.SubscriptionStatusPastDue)

	case processor.EventCanceled:
		return s.repo.UpdateStatus(ctx, s.db, sub.ID, domain.SubscriptionStatusCanceled)

	default:
		s.log.Warn("ignoring unknown webhook event", zap.String("type", string(event.Type)))
		return nil
	}
}

func (s *service) ExpireOverdue(ctx context.Context) (int, error) {
	overdue, err := s.repo.FindOverdue(ctx, s.db, s.clock.Now())
	if err != nil {
		return 0, err
	}

	free, err := s.plans.FindByType(ctx, s.db, plandomain.PlanSilver)
	if err != nil {
		return 0, err
	}
	if free == nil {
		return 0, plandomain.ErrNotFound
	}

	expired := 0
	for _, sub := range overdue {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.repo.UpdateStatus(ctx, tx, sub.ID, domain.SubscriptionStatusExpired); err != nil {
				return err
			}
			return s.companies.SetPlan(ctx, tx, sub.CompanyID, free.ID)
		})
		if err != nil {
			s.log.Error("failed to expire subscription",
				zap.Int64("subscription_id", int64(sub.ID)),
				zap.Error(err))
			continue
		}
		expired++
	}

	if expired > 0 {
		s.log.Info("expired overdue subscriptions", zap.Int("count", expired))
	}
	return expired, nil
}
