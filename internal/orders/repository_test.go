package orders

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skillcart/skillcart/internal/domain"
	"github.com/skillcart/skillcart/pkg/common"
)

func newRepo(t *testing.T) (*GormRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	require.NoError(t, db.Create(&domain.Product{
		ID: 1, Name: "Fixture", Price: dec("100"), IsActive: true,
	}).Error)
	return NewGormRepository(db), db
}

func seedOrder(t *testing.T, repo *GormRepository, status string, age time.Duration, screenshot string) *domain.Order {
	t.Helper()
	o := &domain.Order{
		ID:                common.UUIDint64(),
		Email:             "buyer@example.com",
		ProductID:         1,
		Quantity:          1,
		UnitPrice:         dec("100"),
		Status:            status,
		PaymentScreenshot: screenshot,
		CreatedAt:         time.Now().Add(-age),
		UpdatedAt:         time.Now().Add(-age),
	}
	o.ComputeTotal()
	require.NoError(t, repo.Create(context.Background(), o))
	return o
}

func TestCancelStalePending(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	stale := seedOrder(t, repo, domain.OrderStatusPending, 40*24*time.Hour, "")
	fresh := seedOrder(t, repo, domain.OrderStatusPending, time.Hour, "")
	completed := seedOrder(t, repo, domain.OrderStatusCompleted, 40*24*time.Hour, "")

	n, err := repo.CancelStalePending(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, got.Status)

	got, err = repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, got.Status)

	got, err = repo.GetByID(ctx, completed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, got.Status)
}

func TestCancelledWithScreenshots(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	old := seedOrder(t, repo, domain.OrderStatusCancelled, 40*24*time.Hour, "screenshots/a.png")
	seedOrder(t, repo, domain.OrderStatusCancelled, 40*24*time.Hour, "")
	seedOrder(t, repo, domain.OrderStatusCompleted, 40*24*time.Hour, "screenshots/b.png")

	list, err := repo.CancelledWithScreenshots(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, old.ID, list[0].ID)

	require.NoError(t, repo.ClearScreenshot(ctx, old.ID))
	list, err = repo.CancelledWithScreenshots(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, list, 0)
}

func TestListPaginationAndStatusFilter(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedOrder(t, repo, domain.OrderStatusPending, time.Duration(i)*time.Minute, "")
	}
	seedOrder(t, repo, domain.OrderStatusCompleted, time.Hour, "")

	rows, total, err := repo.List(ctx, domain.OrderStatusPending, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, rows, 3)

	rows, total, err = repo.List(ctx, "", 2, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	assert.Len(t, rows, 2)
}

func TestGetByIDUnknown(t *testing.T) {
	repo, _ := newRepo(t)
	_, err := repo.GetByID(context.Background(), 404404)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
