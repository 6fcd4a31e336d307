package repository

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/internal/customer/domain"
	"github.com/revloop/revloop/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCustomerTest(t *testing.T) (domain.Repository, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Customer{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return Provide(), conn, node
}

func TestUpsertRunningAverage(t *testing.T) {
	repo, conn, node := newCustomerTest(t)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, conn, node.Generate(), "Jane@Example.com", "Jane", 5)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", first.Email)
	assert.Equal(t, int64(1), first.Reviews)
	assert.InDelta(t, 5.0, first.Ratio, 0.001)

	second, err := repo.Upsert(ctx, conn, node.Generate(), "jane@example.com", "Jane D.", 2)
	require.NoError(t, err)
	// Same row, new running average: (5*1 + 2) / 2.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(2), second.Reviews)
	assert.InDelta(t, 3.5, second.Ratio, 0.001)
	assert.Equal(t, "Jane D.", second.Name)

	third, err := repo.Upsert(ctx, conn, node.Generate(), "JANE@EXAMPLE.COM", "Jane D.", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.Reviews)
	assert.InDelta(t, (3.5*2+3)/3, third.Ratio, 0.001)

	var count int64
	require.NoError(t, conn.Model(&domain.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFindByEmailNotFound(t *testing.T) {
	repo, conn, _ := newCustomerTest(t)

	_, err := repo.FindByEmail(context.Background(), conn, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
