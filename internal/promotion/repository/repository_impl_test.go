package repository

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/internal/promotion/domain"
	"github.com/revloop/revloop/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newPromotionTest(t *testing.T) (domain.Repository, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Promotion{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return Provide(), conn, node
}

func seedCodes(t *testing.T, conn *gorm.DB, node *snowflake.Node, codes ...string) *domain.Promotion {
	t.Helper()
	promotion := &domain.Promotion{
		ID:          node.Generate(),
		CompanyID:   node.Generate(),
		Title:       "Codes",
		Type:        domain.TypeDiscountCode,
		CouponCodes: datatypes.NewJSONSlice(codes),
	}
	require.NoError(t, conn.Create(promotion).Error)
	return promotion
}

func codesOf(t *testing.T, conn *gorm.DB, id snowflake.ID) []string {
	t.Helper()
	var got domain.Promotion
	require.NoError(t, conn.First(&got, "id = ?", id).Error)
	return []string(got.CouponCodes)
}

func TestRemoveCouponCode(t *testing.T) {
	repo, conn, node := newPromotionTest(t)
	ctx := context.Background()

	promotion := seedCodes(t, conn, node, "A", "B", "A")

	// Duplicates are consumed one at a time, first occurrence first.
	require.NoError(t, repo.RemoveCouponCode(ctx, conn, promotion.ID, "A"))
	assert.Equal(t, []string{"B", "A"}, codesOf(t, conn, promotion.ID))

	require.NoError(t, repo.RemoveCouponCode(ctx, conn, promotion.ID, "A"))
	assert.Equal(t, []string{"B"}, codesOf(t, conn, promotion.ID))

	// Removing a code that is not in the pool is a no-op.
	require.NoError(t, repo.RemoveCouponCode(ctx, conn, promotion.ID, "Z"))
	assert.Equal(t, []string{"B"}, codesOf(t, conn, promotion.ID))
}

func TestRemoveCouponCodeUnknownPromotion(t *testing.T) {
	repo, conn, node := newPromotionTest(t)

	err := repo.RemoveCouponCode(context.Background(), conn, node.Generate(), "A")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindByIDScopedToCompany(t *testing.T) {
	repo, conn, node := newPromotionTest(t)
	ctx := context.Background()

	promotion := seedCodes(t, conn, node, "A")

	_, err := repo.FindByID(ctx, conn, node.Generate(), promotion.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := repo.FindByID(ctx, conn, promotion.CompanyID, promotion.ID)
	require.NoError(t, err)
	assert.Equal(t, promotion.ID, got.ID)

	any, err := repo.FindByIDAny(ctx, conn, promotion.ID)
	require.NoError(t, err)
	assert.Equal(t, promotion.CompanyID, any.CompanyID)
}
