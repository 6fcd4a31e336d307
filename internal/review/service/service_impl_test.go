package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	campaigndomain "github.com/revloop/revloop/internal/campaign/domain"
	campaignrepo "github.com/revloop/revloop/internal/campaign/repository"
	"github.com/revloop/revloop/internal/clock"
	companydomain "github.com/revloop/revloop/internal/company/domain"
	customerdomain "github.com/revloop/revloop/internal/customer/domain"
	customerrepo "github.com/revloop/revloop/internal/customer/repository"
	productdomain "github.com/revloop/revloop/internal/product/domain"
	productrepo "github.com/revloop/revloop/internal/product/repository"
	promotiondomain "github.com/revloop/revloop/internal/promotion/domain"
	promotionrepo "github.com/revloop/revloop/internal/promotion/repository"
	"github.com/revloop/revloop/internal/review/domain"
	reviewrepo "github.com/revloop/revloop/internal/review/repository"
	"github.com/revloop/revloop/internal/stats"
	"github.com/revloop/revloop/pkg/db"
	"github.com/revloop/revloop/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) SendCouponCode(ctx context.Context, to, name, promotionTitle, code string) error {
	args := m.Called(ctx, to, name, promotionTitle, code)
	return args.Error(0)
}

func (m *mockDispatcher) SendDigitalFile(ctx context.Context, to, name, promotionTitle, fileURL string) error {
	args := m.Called(ctx, to, name, promotionTitle, fileURL)
	return args.Error(0)
}

type testEnv struct {
	db      *gorm.DB
	node    *snowflake.Node
	svc     domain.Service
	rewards *mockDispatcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&companydomain.Company{},
		&productdomain.Product{},
		&promotiondomain.Promotion{},
		&campaigndomain.Campaign{},
		&campaigndomain.CampaignProduct{},
		&customerdomain.Customer{},
		&domain.Review{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	rewards := &mockDispatcher{}
	svc := New(Params{
		DB:         conn,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		Repo:       reviewrepo.Provide(),
		Products:   productrepo.Provide(),
		Campaigns:  campaignrepo.Provide(),
		Promotions: promotionrepo.Provide(),
		Customers:  customerrepo.Provide(),
		Stats:      stats.New(stats.Params{Log: zap.NewNop()}),
		Rewards:    rewards,
	})

	return &testEnv{db: conn, node: node, svc: svc, rewards: rewards}
}

func (e *testEnv) seedCompany(t *testing.T, name string) *companydomain.Company {
	t.Helper()
	company := &companydomain.Company{ID: e.node.Generate(), Name: name, Slug: name}
	require.NoError(t, e.db.Create(company).Error)
	return company
}

func (e *testEnv) seedProduct(t *testing.T, companyID snowflake.ID, asin string) *productdomain.Product {
	t.Helper()
	product := &productdomain.Product{
		ID:        e.node.Generate(),
		CompanyID: companyID,
		Title:     "Product " + asin,
		ASIN:      &asin,
	}
	require.NoError(t, e.db.Create(product).Error)
	return product
}

func (e *testEnv) seedCampaign(t *testing.T, companyID snowflake.ID, promotionID *snowflake.ID, productIDs ...snowflake.ID) *campaigndomain.Campaign {
	t.Helper()
	campaign := &campaigndomain.Campaign{
		ID:          e.node.Generate(),
		CompanyID:   companyID,
		Title:       "Spring reviews",
		IsActive:    campaigndomain.ActiveYes,
		PromotionID: promotionID,
	}
	require.NoError(t, e.db.Create(campaign).Error)
	for _, pid := range productIDs {
		require.NoError(t, e.db.Create(&campaigndomain.CampaignProduct{CampaignID: campaign.ID, ProductID: pid}).Error)
	}
	return campaign
}

func (e *testEnv) seedCouponPromotion(t *testing.T, companyID snowflake.ID, codeType string, codes ...string) *promotiondomain.Promotion {
	t.Helper()
	approval := promotiondomain.ApprovalAutomatic
	promotion := &promotiondomain.Promotion{
		ID:             e.node.Generate(),
		CompanyID:      companyID,
		Title:          "Thank-you code",
		Type:           promotiondomain.TypeDiscountCode,
		ApprovalMethod: &approval,
		CodeType:       &codeType,
		CouponCodes:    datatypes.NewJSONSlice(codes),
	}
	require.NoError(t, e.db.Create(promotion).Error)
	return promotion
}

func submitRequest(email string, asin string, rating float64) domain.SubmitReviewRequest {
	return domain.SubmitReviewRequest{
		Email:       email,
		Name:        "Reviewer",
		ASIN:        &asin,
		Rating:      rating,
		Feedback:    "Arrived quickly and works exactly as described.",
		Marketplace: "amazon.com",
	}
}

func TestSubmitValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(*domain.SubmitReviewRequest)
		wantErr error
	}{
		{"bad email", func(r *domain.SubmitReviewRequest) { r.Email = "not-an-email" }, domain.ErrInvalidEmail},
		{"rating too low", func(r *domain.SubmitReviewRequest) { r.Rating = 0 }, domain.ErrInvalidRating},
		{"rating too high", func(r *domain.SubmitReviewRequest) { r.Rating = 6 }, domain.ErrInvalidRating},
		{"short feedback", func(r *domain.SubmitReviewRequest) { r.Feedback = "meh" }, domain.ErrFeedbackTooShort},
		{"unknown country", func(r *domain.SubmitReviewRequest) { r.Marketplace = ""; r.Country = "XX" }, domain.ErrInvalidMarketplace},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := submitRequest("jane@example.com", "B0TESTASIN", 5)
			tc.mutate(&req)
			_, result, err := env.svc.Submit(ctx, req)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, domain.DispatchSkipped, result)
		})
	}
}

func TestSubmitAccumulatesCustomerAverage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	company := env.seedCompany(t, "acme")
	product := env.seedProduct(t, company.ID, "B0TESTASIN")

	review, result, err := env.svc.Submit(ctx, submitRequest("Jane@Example.com", "b0testasin", 5))
	require.NoError(t, err)
	assert.Equal(t, domain.DispatchSkipped, result)
	assert.Equal(t, domain.StatusPending, review.Status)
	assert.Equal(t, "jane@example.com", review.Email)
	assert.Equal(t, product.ID, review.ProductID)

	_, _, err = env.svc.Submit(ctx, submitRequest("jane@example.com", "B0TESTASIN", 4))
	require.NoError(t, err)

	var customer customerdomain.Customer
	require.NoError(t, env.db.First(&customer, "email = ?", "jane@example.com").Error)
	assert.Equal(t, int64(2), customer.Reviews)
	assert.InDelta(t, 4.5, customer.Ratio, 0.001)

	var got productdomain.Product
	require.NoError(t, env.db.First(&got, "id = ?", product.ID).Error)
	assert.InDelta(t, 4.5, got.Ratio, 0.001)
}

func TestSubmitUnknownASIN(t *testing.T) {
	env := newTestEnv(t)

	_, result, err := env.svc.Submit(context.Background(), submitRequest("jane@example.com", "B0MISSING0", 5))
	assert.ErrorIs(t, err, productdomain.ErrNotFound)
	assert.Equal(t, domain.DispatchSkipped, result)
}

func TestSubmitRejectsProductOutsideCampaign(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	company := env.seedCompany(t, "acme")
	inCampaign := env.seedProduct(t, company.ID, "B0INSIDE00")
	env.seedProduct(t, company.ID, "B0OUTSIDE0")
	campaign := env.seedCampaign(t, company.ID, nil, inCampaign.ID)

	req := submitRequest("jane@example.com", "B0OUTSIDE0", 5)
	req.CampaignID = &campaign.ID

	_, result, err := env.svc.Submit(ctx, req)
	assert.ErrorIs(t, err, domain.ErrProductNotInCampaign)
	assert.Equal(t, domain.DispatchSkipped, result)

	// Nothing was written: no review row, no customer row.
	var reviews, customers int64
	require.NoError(t, env.db.Model(&domain.Review{}).Count(&reviews).Error)
	require.NoError(t, env.db.Model(&customerdomain.Customer{}).Count(&customers).Error)
	assert.Zero(t, reviews)
	assert.Zero(t, customers)
}

func TestSubmitInactiveCampaign(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	company := env.seedCompany(t, "acme")
	product := env.seedProduct(t, company.ID, "B0TESTASIN")
	campaign := env.seedCampaign(t, company.ID, nil, product.ID)
	require.NoError(t, env.db.Model(&campaigndomain.Campaign{}).
		Where("id = ?", campaign.ID).
		Update("is_active", campaigndomain.ActiveNo).Error)

	req := submitRequest("jane@example.com", "B0TESTASIN", 5)
	req.CampaignID = &campaign.ID

	_, _, err := env.svc.Submit(ctx, req)
	assert.ErrorIs(t, err, domain.ErrCampaignInactive)
}

func TestSubmitDrainsSingleUseCouponPool(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	company := env.seedCompany(t, "acme")
	env.seedProduct(t, company.ID, "B0TESTASIN")
	promotion := env.seedCouponPromotion(t, company.ID, promotiondomain.CodeTypeSingleUse, "CODE-A", "CODE-B")

	env.rewards.On("SendCouponCode", mock.Anything, "first@example.com", mock.Anything, mock.Anything, "CODE-A").Return(nil).Once()
	env.rewards.On("SendCouponCode", mock.Anything, "second@example.com", mock.Anything, mock.Anything, "CODE-B").Return(nil).Once()

	for i, email := range []string{"first@example.com", "second@example.com"} {
		req := submitRequest(email, "B0TESTASIN", 5)
		req.PromotionID = &promotion.ID

		review, result, err := env.svc.Submit(ctx, req)
		require.NoError(t, err, "submission %d", i+1)
		assert.Equal(t, domain.DispatchDispatched, result)
		assert.Equal(t, domain.StatusProcessed, review.Status)
	}

	// The pool is empty: the third reviewer gets no code and stays pending.
	req := submitRequest("third@example.com", "B0TESTASIN", 5)
	req.PromotionID = &promotion.ID
	review, result, err := env.svc.Submit(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.DispatchSkipped, result)
	assert.Equal(t, domain.StatusPending, review.Status)

	var got promotiondomain.Promotion
	require.NoError(t, env.db.First(&got, "id = ?", promotion.ID).Error)
	assert.Empty(t, []string(got.CouponCodes))

	env.rewards.AssertExpectations(t)
}

func TestSubmitSameForAllKeepsCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	company := env.seedCompany(t, "acme")
	env.seedProduct(t, company.ID, "B0TESTASIN")
	promotion := env.seedCouponPromotion(t, company.ID, promotiondomain.CodeTypeSameForAll, "SHARED10")

	env.rewards.On("SendCouponCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "SHARED10").Return(nil).Twice()

	for _, email := range []string{"first@example.com", "second@example.com"} {
		req := submitRequest(email, "B0TESTASIN", 5)
		req.PromotionID = &promotion.ID
		_, result, err := env.svc.Submit(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, domain.DispatchDispatched, result)
	}

	var got promotiondomain.Promotion
	require.NoError(t, env.db.First(&got, "id = ?", promotion.ID).Error)
	assert.Equal(t, []string{"SHARED10"}, []string(got.CouponCodes))

	env.rewards.AssertExpectations(t)
}

func TestSubmitDispatchFailureLeavesReviewPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	company := env.seedCompany(t, "acme")
	env.seedProduct(t, company.ID, "B0TESTASIN")
	promotion := env.seedCouponPromotion(t, company.ID, promotiondomain.CodeTypeSingleUse, "CODE-A")

	env.rewards.On("SendCouponCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "CODE-A").
		Return(errors.New("smtp unreachable")).Once()

	req := submitRequest("jane@example.com", "B0TESTASIN", 5)
	req.PromotionID = &promotion.ID

	review, result, err := env.svc.Submit(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.DispatchFailed, result)
	assert.Equal(t, domain.StatusPending, review.Status)

	// The review survived the failed dispatch and the code was not burned.
	var count int64
	require.NoError(t, env.db.Model(&domain.Review{}).Where("id = ?", review.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var got promotiondomain.Promotion
	require.NoError(t, env.db.First(&got, "id = ?", promotion.ID).Error)
	assert.Equal(t, []string{"CODE-A"}, []string(got.CouponCodes))

	env.rewards.AssertExpectations(t)
}

func TestSubmitDigitalDownloadDispatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	company := env.seedCompany(t, "acme")
	env.seedProduct(t, company.ID, "B0TESTASIN")

	approval := promotiondomain.ApprovalAutomatic
	fileURL := "/uploads/promotion/guide.pdf"
	promotion := &promotiondomain.Promotion{
		ID:                    env.node.Generate(),
		CompanyID:             company.ID,
		Title:                 "Owner's guide",
		Type:                  promotiondomain.TypeDigitalDownload,
		DigitalApprovalMethod: &approval,
		DownloadableFileURL:   &fileURL,
	}
	require.NoError(t, env.db.Create(promotion).Error)

	env.rewards.On("SendDigitalFile", mock.Anything, "jane@example.com", mock.Anything, "Owner's guide", fileURL).Return(nil).Once()

	req := submitRequest("jane@example.com", "B0TESTASIN", 5)
	req.PromotionID = &promotion.ID

	review, result, err := env.svc.Submit(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.DispatchDispatched, result)
	assert.Equal(t, domain.StatusProcessed, review.Status)

	env.rewards.AssertExpectations(t)
}

func TestSubmitManualApprovalSkipsDispatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	company := env.seedCompany(t, "acme")
	env.seedProduct(t, company.ID, "B0TESTASIN")

	approval := promotiondomain.ApprovalManual
	codeType := promotiondomain.CodeTypeSingleUse
	promotion := &promotiondomain.Promotion{
		ID:             env.node.Generate(),
		CompanyID:      company.ID,
		Title:          "Manual code",
		Type:           promotiondomain.TypeDiscountCode,
		ApprovalMethod: &approval,
		CodeType:       &codeType,
		CouponCodes:    datatypes.NewJSONSlice([]string{"CODE-A"}),
	}
	require.NoError(t, env.db.Create(promotion).Error)

	req := submitRequest("jane@example.com", "B0TESTASIN", 5)
	req.PromotionID = &promotion.ID

	review, result, err := env.svc.Submit(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.DispatchSkipped, result)
	assert.Equal(t, domain.StatusPending, review.Status)
	env.rewards.AssertNotCalled(t, "SendCouponCode")
}

func TestSubmitSellerProfileCreatedLazily(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	company := env.seedCompany(t, "acme")

	req := submitRequest("jane@example.com", "", 5)
	req.ASIN = nil
	req.IsSeller = true
	req.CompanyID = &company.ID

	first, _, err := env.svc.Submit(ctx, req)
	require.NoError(t, err)

	req.Email = "john@example.com"
	second, _, err := env.svc.Submit(ctx, req)
	require.NoError(t, err)

	// Both reviews landed on the one synthetic seller-profile product.
	assert.Equal(t, first.ProductID, second.ProductID)

	var profiles []productdomain.Product
	require.NoError(t, env.db.Where("asin = ?", productdomain.SellerProfileASIN).Find(&profiles).Error)
	require.Len(t, profiles, 1)
	assert.Equal(t, company.ID, profiles[0].CompanyID)
	assert.Equal(t, productdomain.SellerProfileTitle, profiles[0].Title)
}

func TestSubmitSellerJoinsCampaignProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	company := env.seedCompany(t, "acme")
	campaign := env.seedCampaign(t, company.ID, nil)

	req := submitRequest("jane@example.com", "", 5)
	req.ASIN = nil
	req.IsSeller = true
	req.CampaignID = &campaign.ID

	review, _, err := env.svc.Submit(ctx, req)
	require.NoError(t, err)

	ok, err := campaignrepo.Provide().HasProduct(ctx, env.db, campaign.ID, review.ProductID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSubmitDerivesMarketplaceFromCountry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	company := env.seedCompany(t, "acme")
	env.seedProduct(t, company.ID, "B0TESTASIN")

	req := submitRequest("jane@example.com", "B0TESTASIN", 5)
	req.Marketplace = ""
	req.Country = "de"

	review, _, err := env.svc.Submit(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "amazon.de", review.Marketplace)
}

func TestUpdateStatusIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	company := env.seedCompany(t, "acme")
	env.seedProduct(t, company.ID, "B0TESTASIN")

	review, _, err := env.svc.Submit(ctx, submitRequest("jane@example.com", "B0TESTASIN", 5))
	require.NoError(t, err)

	_, err = env.svc.UpdateStatus(ctx, domain.UpdateStatusRequest{ID: review.ID, Status: "WEIRD"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	rejected, err := env.svc.UpdateStatus(ctx, domain.UpdateStatusRequest{ID: review.ID, Status: domain.StatusRejected})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)

	// Setting the same final status again is a no-op, any other is refused.
	_, err = env.svc.UpdateStatus(ctx, domain.UpdateStatusRequest{ID: review.ID, Status: domain.StatusRejected})
	assert.NoError(t, err)
	_, err = env.svc.UpdateStatus(ctx, domain.UpdateStatusRequest{ID: review.ID, Status: domain.StatusProcessed})
	assert.ErrorIs(t, err, domain.ErrStatusFinal)
}

func TestUpdateStatusProcessedRefreshesCompany(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	company := env.seedCompany(t, "acme")
	env.seedProduct(t, company.ID, "B0TESTASIN")

	review, _, err := env.svc.Submit(ctx, submitRequest("jane@example.com", "B0TESTASIN", 4))
	require.NoError(t, err)

	_, err = env.svc.UpdateStatus(ctx, domain.UpdateStatusRequest{ID: review.ID, Status: domain.StatusProcessed})
	require.NoError(t, err)

	var got companydomain.Company
	require.NoError(t, env.db.First(&got, "id = ?", company.ID).Error)
	assert.Equal(t, int64(1), got.Reviews)
	assert.InDelta(t, 4.0, got.Ratio, 0.001)
}

func TestListByCompanyScopesTenant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	acme := env.seedCompany(t, "acme")
	other := env.seedCompany(t, "other")
	env.seedProduct(t, acme.ID, "B0ACME0001")
	env.seedProduct(t, other.ID, "B0OTHER001")

	_, _, err := env.svc.Submit(ctx, submitRequest("jane@example.com", "B0ACME0001", 5))
	require.NoError(t, err)
	_, _, err = env.svc.Submit(ctx, submitRequest("john@example.com", "B0OTHER001", 3))
	require.NoError(t, err)

	resp, err := env.svc.ListByCompany(ctx, domain.ListReviewRequest{
		CompanyID:  acme.ID,
		Pagination: pagination.Pagination{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "jane@example.com", resp.Data[0].Email)
	assert.Equal(t, int64(1), resp.PageInfo.Total)

	processed := domain.StatusProcessed
	resp, err = env.svc.ListByCompany(ctx, domain.ListReviewRequest{
		CompanyID:  acme.ID,
		Status:     &processed,
		Pagination: pagination.Pagination{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Data)
}

// The company listing joins products, so sort columns must stay unambiguous.
func TestListByCompanySortsAcrossJoin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	acme := env.seedCompany(t, "acme")
	env.seedProduct(t, acme.ID, "B0ACME0001")

	_, _, err := env.svc.Submit(ctx, submitRequest("low@example.com", "B0ACME0001", 2))
	require.NoError(t, err)
	_, _, err = env.svc.Submit(ctx, submitRequest("high@example.com", "B0ACME0001", 5))
	require.NoError(t, err)

	resp, err := env.svc.ListByCompany(ctx, domain.ListReviewRequest{
		CompanyID:  acme.ID,
		SortBy:     "ratio",
		Order:      "ASC",
		Pagination: pagination.Pagination{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "low@example.com", resp.Data[0].Email)
	assert.Equal(t, "high@example.com", resp.Data[1].Email)

	// Unknown sort fields fall back to newest first.
	resp, err = env.svc.ListByCompany(ctx, domain.ListReviewRequest{
		CompanyID:  acme.ID,
		SortBy:     "email; DROP TABLE reviews",
		Pagination: pagination.Pagination{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
}
