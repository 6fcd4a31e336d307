package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/internal/auth"
	companydomain "github.com/revloop/revloop/internal/company/domain"
	companyrepo "github.com/revloop/revloop/internal/company/repository"
	"github.com/revloop/revloop/internal/companyctx"
	plandomain "github.com/revloop/revloop/internal/plan/domain"
	planrepo "github.com/revloop/revloop/internal/plan/repository"
	"github.com/revloop/revloop/internal/quota"
	"github.com/revloop/revloop/internal/user/domain"
	userrepo "github.com/revloop/revloop/internal/user/repository"
	"github.com/revloop/revloop/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type userEnv struct {
	svc  domain.Service
	db   *gorm.DB
	node *snowflake.Node
}

func newUserEnv(t *testing.T) *userEnv {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&plandomain.Plan{},
		&companydomain.Company{},
		&domain.User{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	guard := quota.New(quota.Params{
		Log:       zap.NewNop(),
		Companies: companyrepo.Provide(),
		Plans:     planrepo.Provide(),
	})
	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  userrepo.Provide(),
		Guard: guard,
	})
	return &userEnv{svc: svc, db: conn, node: node}
}

func (e *userEnv) seedCompany(t *testing.T, tier plandomain.PlanType) context.Context {
	t.Helper()

	plan := plandomain.Plan{ID: e.node.Generate(), Type: tier, Name: string(tier)}
	require.NoError(t, e.db.Create(&plan).Error)

	company := &companydomain.Company{
		ID:     e.node.Generate(),
		Name:   "acme",
		Slug:   fmt.Sprintf("acme-%d", plan.ID),
		PlanID: &plan.ID,
	}
	require.NoError(t, e.db.Create(company).Error)
	return companyctx.WithCompanyID(context.Background(), company.ID)
}

func TestCreateUser(t *testing.T) {
	env := newUserEnv(t)
	ctx := env.seedCompany(t, plandomain.PlanPlatinum)

	created, err := env.svc.Create(ctx, domain.CreateUserRequest{
		Email:    "Member@Example.com",
		Name:     "Member",
		Password: "changeme1",
	})
	require.NoError(t, err)
	assert.Equal(t, "member@example.com", created.Email)
	assert.Equal(t, domain.RoleMember, created.Role)
	assert.True(t, auth.ComparePassword(created.PasswordHash, "changeme1"))
}

func TestCreateUserValidation(t *testing.T) {
	env := newUserEnv(t)
	ctx := env.seedCompany(t, plandomain.PlanPlatinum)

	_, err := env.svc.Create(ctx, domain.CreateUserRequest{Email: "bad", Name: "x", Password: "changeme1"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = env.svc.Create(ctx, domain.CreateUserRequest{Email: "a@example.com", Name: "x", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	_, err = env.svc.Create(ctx, domain.CreateUserRequest{Email: "a@example.com", Name: "x", Password: "changeme1", Role: "SUPERUSER"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	env := newUserEnv(t)
	ctx := env.seedCompany(t, plandomain.PlanPlatinum)

	_, err := env.svc.Create(ctx, domain.CreateUserRequest{Email: "dup@example.com", Name: "x", Password: "changeme1"})
	require.NoError(t, err)

	_, err = env.svc.Create(ctx, domain.CreateUserRequest{Email: "dup@example.com", Name: "y", Password: "changeme1"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestCreateUserDeniedOverQuota(t *testing.T) {
	env := newUserEnv(t)
	ctx := env.seedCompany(t, plandomain.PlanSilver)

	for i := 0; i < 2; i++ {
		_, err := env.svc.Create(ctx, domain.CreateUserRequest{
			Email:    fmt.Sprintf("user%d@example.com", i),
			Name:     "x",
			Password: "changeme1",
		})
		require.NoError(t, err)
	}

	_, err := env.svc.Create(ctx, domain.CreateUserRequest{Email: "user3@example.com", Name: "x", Password: "changeme1"})
	var exceeded *quota.ExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, quota.ResourceUsers, exceeded.Resource)
}

func TestUserTenantScoping(t *testing.T) {
	env := newUserEnv(t)
	ctx := env.seedCompany(t, plandomain.PlanPlatinum)
	otherCtx := env.seedCompany(t, plandomain.PlanGold)

	created, err := env.svc.Create(ctx, domain.CreateUserRequest{Email: "mine@example.com", Name: "x", Password: "changeme1"})
	require.NoError(t, err)

	_, err = env.svc.Get(otherCtx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	resp, err := env.svc.List(otherCtx, domain.ListUserRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Data)
}
