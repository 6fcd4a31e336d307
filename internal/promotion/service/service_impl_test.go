package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/revloop/revloop/internal/company/domain"
	companyrepo "github.com/revloop/revloop/internal/company/repository"
	"github.com/revloop/revloop/internal/companyctx"
	plandomain "github.com/revloop/revloop/internal/plan/domain"
	planrepo "github.com/revloop/revloop/internal/plan/repository"
	"github.com/revloop/revloop/internal/promotion/domain"
	promotionrepo "github.com/revloop/revloop/internal/promotion/repository"
	"github.com/revloop/revloop/internal/quota"
	"github.com/revloop/revloop/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) SaveImage(kind string, data string) (string, error) {
	args := m.Called(kind, data)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) SavePDF(kind string, data string) (string, error) {
	args := m.Called(kind, data)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) Remove(filename string) error {
	args := m.Called(filename)
	return args.Error(0)
}

type promoEnv struct {
	svc     domain.Service
	db      *gorm.DB
	node    *snowflake.Node
	storage *mockStorage
}

func newPromoEnv(t *testing.T) *promoEnv {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&plandomain.Plan{},
		&companydomain.Company{},
		&domain.Promotion{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	storage := &mockStorage{}
	guard := quota.New(quota.Params{
		Log:       zap.NewNop(),
		Companies: companyrepo.Provide(),
		Plans:     planrepo.Provide(),
	})
	svc := New(Params{
		DB:      conn,
		Log:     zap.NewNop(),
		GenID:   node,
		Repo:    promotionrepo.Provide(),
		Guard:   guard,
		Storage: storage,
	})
	return &promoEnv{svc: svc, db: conn, node: node, storage: storage}
}

// seedCompany attaches the company to a fresh plan of the given tier and
// returns a context scoped to it.
func (e *promoEnv) seedCompany(t *testing.T, tier plandomain.PlanType) (context.Context, *companydomain.Company) {
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

	return companyctx.WithCompanyID(context.Background(), company.ID), company
}

func TestCreateDiscountCode(t *testing.T) {
	env := newPromoEnv(t)
	ctx, company := env.seedCompany(t, plandomain.PlanPlatinum)

	approval := domain.ApprovalAutomatic
	codeType := domain.CodeTypeSingleUse
	created, err := env.svc.Create(ctx, domain.CreatePromotionRequest{
		Title:          "Launch codes",
		Type:           domain.TypeDiscountCode,
		ApprovalMethod: &approval,
		CodeType:       &codeType,
		CouponCodes:    []string{"A1", "B2"},
	})
	require.NoError(t, err)
	assert.Equal(t, company.ID, created.CompanyID)
	assert.Equal(t, []string{"A1", "B2"}, []string(created.CouponCodes))
	// Fields of other promotion types stay unset.
	assert.Nil(t, created.GiftCardDeliveryMethod)
	assert.Nil(t, created.DownloadableFileURL)
}

func TestCreateDiscountCodeWithoutCodes(t *testing.T) {
	env := newPromoEnv(t)
	ctx, _ := env.seedCompany(t, plandomain.PlanPlatinum)

	_, err := env.svc.Create(ctx, domain.CreatePromotionRequest{
		Title: "Launch codes",
		Type:  domain.TypeDiscountCode,
	})
	assert.ErrorIs(t, err, domain.ErrMissingCodes)
}

func TestCreateFreeProductUsesFixedMethods(t *testing.T) {
	env := newPromoEnv(t)
	ctx, _ := env.seedCompany(t, plandomain.PlanPlatinum)

	created, err := env.svc.Create(ctx, domain.CreatePromotionRequest{
		Title: "Free sample",
		Type:  domain.TypeFreeProduct,
	})
	require.NoError(t, err)
	require.NotNil(t, created.FreeProductDeliveryMethod)
	require.NotNil(t, created.FreeProductApprovalMethod)
	assert.Equal(t, domain.FreeProductDelivery, *created.FreeProductDeliveryMethod)
	assert.Equal(t, domain.FreeProductApproval, *created.FreeProductApprovalMethod)
}

func TestCreateDigitalDownloadStoresFile(t *testing.T) {
	env := newPromoEnv(t)
	ctx, _ := env.seedCompany(t, plandomain.PlanPlatinum)

	file := "data:application/pdf;base64,JVBERi0="
	approval := domain.ApprovalAutomatic
	env.storage.On("SavePDF", "promotion", file).Return("promotion/abc.pdf", nil).Once()

	created, err := env.svc.Create(ctx, domain.CreatePromotionRequest{
		Title:                 "Owner's guide",
		Type:                  domain.TypeDigitalDownload,
		DownloadableFile:      &file,
		DigitalApprovalMethod: &approval,
	})
	require.NoError(t, err)
	require.NotNil(t, created.DownloadableFileURL)
	assert.Equal(t, "promotion/abc.pdf", *created.DownloadableFileURL)
	env.storage.AssertExpectations(t)

	_, err = env.svc.Create(ctx, domain.CreatePromotionRequest{
		Title: "No file",
		Type:  domain.TypeDigitalDownload,
	})
	assert.ErrorIs(t, err, domain.ErrMissingFile)
}

func TestCreateDeniedOverQuota(t *testing.T) {
	env := newPromoEnv(t)
	ctx, _ := env.seedCompany(t, plandomain.PlanSilver)

	_, err := env.svc.Create(ctx, domain.CreatePromotionRequest{Title: "First", Type: domain.TypeGiftCard})
	require.NoError(t, err)

	_, err = env.svc.Create(ctx, domain.CreatePromotionRequest{Title: "Second", Type: domain.TypeGiftCard})
	var exceeded *quota.ExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, quota.ResourcePromotions, exceeded.Resource)

	// The denied creation left no row behind.
	var count int64
	require.NoError(t, env.db.Model(&domain.Promotion{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateIgnoresUnrelatedTypeFields(t *testing.T) {
	env := newPromoEnv(t)
	ctx, _ := env.seedCompany(t, plandomain.PlanPlatinum)

	delivery := "EMAIL"
	created, err := env.svc.Create(ctx, domain.CreatePromotionRequest{
		Title:                  "Gift card",
		Type:                   domain.TypeGiftCard,
		GiftCardDeliveryMethod: &delivery,
	})
	require.NoError(t, err)

	// Discount-code fields on a gift card update must be dropped.
	codes := []string{"SHOULD-NOT-LAND"}
	title := "Gift card v2"
	updated, err := env.svc.Update(ctx, domain.UpdatePromotionRequest{
		ID:          created.ID,
		Title:       &title,
		CouponCodes: &codes,
	})
	require.NoError(t, err)
	assert.Equal(t, "Gift card v2", updated.Title)
	assert.Empty(t, []string(updated.CouponCodes))
	assert.Equal(t, "EMAIL", *updated.GiftCardDeliveryMethod)
}

func TestUpdateRejectsBlankTitle(t *testing.T) {
	env := newPromoEnv(t)
	ctx, _ := env.seedCompany(t, plandomain.PlanPlatinum)

	created, err := env.svc.Create(ctx, domain.CreatePromotionRequest{Title: "Gift card", Type: domain.TypeGiftCard})
	require.NoError(t, err)

	blank := "   "
	_, err = env.svc.Update(ctx, domain.UpdatePromotionRequest{ID: created.ID, Title: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)
}

func TestGetScopedToCompany(t *testing.T) {
	env := newPromoEnv(t)
	ctx, _ := env.seedCompany(t, plandomain.PlanPlatinum)
	otherCtx, _ := env.seedCompany(t, plandomain.PlanGold)

	created, err := env.svc.Create(ctx, domain.CreatePromotionRequest{Title: "Mine", Type: domain.TypeGiftCard})
	require.NoError(t, err)

	_, err = env.svc.Get(otherCtx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := env.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Title)
}

func TestCreateWithoutCompanyContext(t *testing.T) {
	env := newPromoEnv(t)

	_, err := env.svc.Create(context.Background(), domain.CreatePromotionRequest{Title: "x", Type: domain.TypeGiftCard})
	assert.ErrorIs(t, err, domain.ErrInvalidCompany)
}
