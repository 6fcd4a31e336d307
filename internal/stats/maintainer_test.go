package stats

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	campaigndomain "github.com/revloop/revloop/internal/campaign/domain"
	companydomain "github.com/revloop/revloop/internal/company/domain"
	productdomain "github.com/revloop/revloop/internal/product/domain"
	reviewdomain "github.com/revloop/revloop/internal/review/domain"
	"github.com/revloop/revloop/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newMaintainerTest(t *testing.T) (Maintainer, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&companydomain.Company{},
		&productdomain.Product{},
		&campaigndomain.Campaign{},
		&reviewdomain.Review{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{Log: zap.NewNop()}), conn, node
}

func seedReview(t *testing.T, conn *gorm.DB, node *snowflake.Node, productID snowflake.ID, campaignID *snowflake.ID, ratio float64) {
	t.Helper()
	require.NoError(t, conn.Create(&reviewdomain.Review{
		ID:          node.Generate(),
		Email:       "reviewer@example.com",
		Name:        "Reviewer",
		ProductID:   productID,
		CustomerID:  node.Generate(),
		Ratio:       ratio,
		Feedback:    "Solid product, no complaints so far.",
		Marketplace: "amazon.com",
		CampaignID:  campaignID,
		Status:      reviewdomain.StatusPending,
	}).Error)
}

func TestRecomputeProductRatio(t *testing.T) {
	m, conn, node := newMaintainerTest(t)
	ctx := context.Background()

	product := productdomain.Product{ID: node.Generate(), CompanyID: node.Generate(), Title: "Widget"}
	require.NoError(t, conn.Create(&product).Error)

	// No reviews yet: the ratio resolves to zero, not an error.
	require.NoError(t, m.RecomputeProductRatio(ctx, conn, product.ID))
	var got productdomain.Product
	require.NoError(t, conn.First(&got, "id = ?", product.ID).Error)
	assert.Zero(t, got.Ratio)

	for _, ratio := range []float64{5, 4, 3} {
		seedReview(t, conn, node, product.ID, nil, ratio)
	}

	// A full recompute converges to the mean and is idempotent.
	for i := 0; i < 2; i++ {
		require.NoError(t, m.RecomputeProductRatio(ctx, conn, product.ID))
		require.NoError(t, conn.First(&got, "id = ?", product.ID).Error)
		assert.InDelta(t, 4.0, got.Ratio, 0.001)
	}
}

func TestRecomputeProductRatioMissingProduct(t *testing.T) {
	m, conn, node := newMaintainerTest(t)

	// A vanished target is logged and skipped, never surfaced.
	assert.NoError(t, m.RecomputeProductRatio(context.Background(), conn, node.Generate()))
}

func TestRecomputeCompanyRatioCountsEvents(t *testing.T) {
	m, conn, node := newMaintainerTest(t)
	ctx := context.Background()

	company := companydomain.Company{ID: node.Generate(), Name: "acme", Slug: "acme"}
	require.NoError(t, conn.Create(&company).Error)
	product := productdomain.Product{ID: node.Generate(), CompanyID: company.ID, Title: "Widget"}
	require.NoError(t, conn.Create(&product).Error)

	seedReview(t, conn, node, product.ID, nil, 4)
	seedReview(t, conn, node, product.ID, nil, 2)

	// The ratio is a recompute but the counter is event-driven: each
	// invocation adds one.
	require.NoError(t, m.RecomputeCompanyRatio(ctx, conn, company.ID))
	require.NoError(t, m.RecomputeCompanyRatio(ctx, conn, company.ID))

	var got companydomain.Company
	require.NoError(t, conn.First(&got, "id = ?", company.ID).Error)
	assert.Equal(t, int64(2), got.Reviews)
	assert.InDelta(t, 3.0, got.Ratio, 0.001)

	assert.NoError(t, m.RecomputeCompanyRatio(ctx, conn, node.Generate()))
}

func TestRecomputeCampaignStatistics(t *testing.T) {
	m, conn, node := newMaintainerTest(t)
	ctx := context.Background()

	campaign := campaigndomain.Campaign{
		ID:        node.Generate(),
		CompanyID: node.Generate(),
		Title:     "Launch week",
		IsActive:  campaigndomain.ActiveYes,
	}
	require.NoError(t, conn.Create(&campaign).Error)
	productID := node.Generate()

	seedReview(t, conn, node, productID, &campaign.ID, 5)
	seedReview(t, conn, node, productID, &campaign.ID, 4)
	seedReview(t, conn, node, productID, nil, 1) // unattributed, must not count

	for i := 0; i < 2; i++ {
		require.NoError(t, m.RecomputeCampaignStatistics(ctx, conn, campaign.ID))

		var got campaigndomain.Campaign
		require.NoError(t, conn.First(&got, "id = ?", campaign.ID).Error)
		assert.Equal(t, int64(2), got.Claims)
		assert.InDelta(t, 4.5, got.Ratio, 0.001)
	}

	assert.NoError(t, m.RecomputeCampaignStatistics(ctx, conn, node.Generate()))
}
