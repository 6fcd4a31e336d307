package quota

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/revloop/revloop/internal/company/domain"
	companyrepo "github.com/revloop/revloop/internal/company/repository"
	plandomain "github.com/revloop/revloop/internal/plan/domain"
	planrepo "github.com/revloop/revloop/internal/plan/repository"
	promotiondomain "github.com/revloop/revloop/internal/promotion/domain"
	userdomain "github.com/revloop/revloop/internal/user/domain"
	"github.com/revloop/revloop/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type guardEnv struct {
	guard Guard
	db    *gorm.DB
	node  *snowflake.Node
	plans map[plandomain.PlanType]snowflake.ID
}

func newGuardEnv(t *testing.T) *guardEnv {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&plandomain.Plan{},
		&companydomain.Company{},
		&promotiondomain.Promotion{},
		&userdomain.User{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	plans := map[plandomain.PlanType]snowflake.ID{}
	for _, tier := range []plandomain.PlanType{plandomain.PlanSilver, plandomain.PlanGold, plandomain.PlanPlatinum} {
		plan := plandomain.Plan{ID: node.Generate(), Type: tier, Name: string(tier)}
		require.NoError(t, conn.Create(&plan).Error)
		plans[tier] = plan.ID
	}

	guard := New(Params{
		Log:       zap.NewNop(),
		Companies: companyrepo.Provide(),
		Plans:     planrepo.Provide(),
	})
	return &guardEnv{guard: guard, db: conn, node: node, plans: plans}
}

func (e *guardEnv) seedCompany(t *testing.T, tier plandomain.PlanType) *companydomain.Company {
	t.Helper()
	planID := e.plans[tier]
	id := e.node.Generate()
	company := &companydomain.Company{
		ID:     id,
		Name:   string(tier) + " co",
		Slug:   fmt.Sprintf("%s-co-%d", tier, id),
		PlanID: &planID,
	}
	require.NoError(t, e.db.Create(company).Error)
	return company
}

func (e *guardEnv) seedPromotions(t *testing.T, companyID snowflake.ID, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, e.db.Create(&promotiondomain.Promotion{
			ID:        e.node.Generate(),
			CompanyID: companyID,
			Title:     fmt.Sprintf("promo %d", i),
			Type:      promotiondomain.TypeGiftCard,
		}).Error)
	}
}

func TestEnforceCreateAtTierCeiling(t *testing.T) {
	env := newGuardEnv(t)
	ctx := context.Background()

	cases := []struct {
		tier     plandomain.PlanType
		existing int
		denied   bool
	}{
		{plandomain.PlanSilver, 0, false},
		{plandomain.PlanSilver, 1, true},
		{plandomain.PlanGold, 9, false},
		{plandomain.PlanGold, 10, true},
		{plandomain.PlanPlatinum, 50, false},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s_with_%d", tc.tier, tc.existing), func(t *testing.T) {
			company := env.seedCompany(t, tc.tier)
			env.seedPromotions(t, company.ID, tc.existing)

			err := env.guard.EnforceCreate(ctx, env.db, company.ID, ResourcePromotions)
			if !tc.denied {
				assert.NoError(t, err)
				return
			}

			var exceeded *ExceededError
			require.ErrorAs(t, err, &exceeded)
			assert.Equal(t, ResourcePromotions, exceeded.Resource)
			assert.Equal(t, tc.tier, exceeded.Plan)
		})
	}
}

func TestEnforceCreateScopesCountToCompany(t *testing.T) {
	env := newGuardEnv(t)
	ctx := context.Background()

	// A neighbour at its ceiling must not consume this tenant's quota.
	crowded := env.seedCompany(t, plandomain.PlanSilver)
	env.seedPromotions(t, crowded.ID, 1)
	fresh := env.seedCompany(t, plandomain.PlanSilver)

	assert.NoError(t, env.guard.EnforceCreate(ctx, env.db, fresh.ID, ResourcePromotions))
}

func TestEnforceCreateWithoutPlan(t *testing.T) {
	env := newGuardEnv(t)

	company := &companydomain.Company{ID: env.node.Generate(), Name: "planless", Slug: "planless"}
	require.NoError(t, env.db.Create(company).Error)

	err := env.guard.EnforceCreate(context.Background(), env.db, company.ID, ResourcePromotions)
	assert.ErrorIs(t, err, ErrNoPlan)
}

func TestEnforceCreateUnknownCompany(t *testing.T) {
	env := newGuardEnv(t)

	err := env.guard.EnforceCreate(context.Background(), env.db, env.node.Generate(), ResourcePromotions)
	assert.ErrorIs(t, err, companydomain.ErrNotFound)
}

func TestCanCreate(t *testing.T) {
	env := newGuardEnv(t)
	ctx := context.Background()

	company := env.seedCompany(t, plandomain.PlanSilver)

	ok, err := env.guard.CanCreate(ctx, env.db, company.ID, ResourceUsers)
	require.NoError(t, err)
	assert.True(t, ok)

	env.seedPromotions(t, company.ID, 1)
	ok, err = env.guard.CanCreate(ctx, env.db, company.ID, ResourcePromotions)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpgradeMessage(t *testing.T) {
	err := &ExceededError{Resource: ResourcePromotions, Plan: plandomain.PlanSilver, Limit: 1}
	assert.Equal(t, "your SILVER plan allows 1 promotion; upgrade to GOLD to create more", err.UpgradeMessage())

	top := &ExceededError{Resource: ResourceCampaigns, Plan: plandomain.PlanPlatinum, Limit: 3}
	assert.NotContains(t, top.UpgradeMessage(), "upgrade")

	var target error = err
	var as *ExceededError
	assert.True(t, errors.As(target, &as))
}
