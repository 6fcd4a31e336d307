package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/revloop/revloop/internal/company/domain"
	plandomain "github.com/revloop/revloop/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Resource identifies a quota-gated resource kind.
type Resource string

const (
	ResourcePromotions Resource = "promotions"
	ResourceCampaigns  Resource = "campaigns"
	ResourceProducts   Resource = "products"
	ResourceUsers      Resource = "users"
)

var (
	// ErrNoPlan is returned when a company has no plan attached.
	ErrNoPlan = errors.New("company_has_no_plan")
	// ErrUnknownPlan guards against plan rows outside the closed tier enum.
	ErrUnknownPlan = errors.New("unknown_plan_type")
)

// ExceededError reports a denied creation with the data needed for an
// upgrade suggestion.
type ExceededError struct {
	Resource Resource
	Plan     plandomain.PlanType
	Limit    int
}

func (e *ExceededError) Error() string { return "quota_exceeded" }

// UpgradeMessage renders the caller-facing denial message.
func (e *ExceededError) UpgradeMessage() string {
	noun := string(e.Resource)
	if e.Limit == 1 {
		noun = noun[:len(noun)-1]
	}
	msg := fmt.Sprintf("your %s plan allows %d %s", e.Plan, e.Limit, noun)
	if next, ok := plandomain.NextTier(e.Plan); ok {
		msg += fmt.Sprintf("; upgrade to %s to create more", next)
	}
	return msg
}

// Guard enforces per-tier resource ceilings at creation time.
//
// Callers run EnforceCreate inside the same transaction as the insert; the
// guard takes the company row lock so two concurrent creations at the
// ceiling cannot both pass.
type Guard interface {
	CanCreate(ctx context.Context, tx *gorm.DB, companyID snowflake.ID, resource Resource) (bool, error)
	EnforceCreate(ctx context.Context, tx *gorm.DB, companyID snowflake.ID, resource Resource) error
}

type Params struct {
	fx.In

	Log       *zap.Logger
	Companies companydomain.Repository
	Plans     plandomain.Repository
}

type guard struct {
	log       *zap.Logger
	companies companydomain.Repository
	plans     plandomain.Repository
}

func New(p Params) Guard {
	return &guard{
		log:       p.Log.Named("quota.guard"),
		companies: p.Companies,
		plans:     p.Plans,
	}
}

func (g *guard) CanCreate(ctx context.Context, tx *gorm.DB, companyID snowflake.ID, resource Resource) (bool, error) {
	err := g.EnforceCreate(ctx, tx, companyID, resource)
	if err == nil {
		return true, nil
	}
	var exceeded *ExceededError
	if errors.As(err, &exceeded) {
		return false, nil
	}
	return false, err
}

func (g *guard) EnforceCreate(ctx context.Context, tx *gorm.DB, companyID snowflake.ID, resource Resource) error {
	company, err := g.companies.FindByIDForUpdate(ctx, tx, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return companydomain.ErrNotFound
	}
	if company.PlanID == nil {
		return ErrNoPlan
	}

	plan, err := g.plans.FindByID(ctx, tx, *company.PlanID)
	if err != nil {
		return err
	}
	if plan == nil {
		return ErrNoPlan
	}

	quotas, ok := plandomain.QuotasForType(plan.Type)
	if !ok {
		// Unreachable given the closed tier enum; defensive.
		g.log.Warn("plan with unknown type", zap.String("plan_type", string(plan.Type)))
		return ErrUnknownPlan
	}

	limit := limitFor(quotas, resource)
	if limit == plandomain.Unlimited {
		return nil
	}

	count, err := g.countForCompany(ctx, tx, companyID, resource)
	if err != nil {
		return err
	}
	if count >= int64(limit) {
		return &ExceededError{Resource: resource, Plan: plan.Type, Limit: limit}
	}
	return nil
}

func limitFor(q plandomain.Quotas, resource Resource) int {
	switch resource {
	case ResourcePromotions:
		return q.Promotions
	case ResourceCampaigns:
		return q.Campaigns
	case ResourceProducts:
		return q.Products
	case ResourceUsers:
		return q.Users
	default:
		return 0
	}
}

func (g *guard) countForCompany(ctx context.Context, tx *gorm.DB, companyID snowflake.ID, resource Resource) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Table(string(resource)).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}
