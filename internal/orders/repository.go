package orders

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/skillcart/skillcart/internal/domain"
)

// Repository handles order data access.
type Repository interface {
	Create(ctx context.Context, o *domain.Order) error
	Save(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, status string, page, pageSize int) ([]domain.Order, int64, error)
	FindByEmail(ctx context.Context, email string) ([]domain.Order, error)
	Delete(ctx context.Context, id int64) error
	// CancelStalePending flips pending orders created before cutoff to
	// cancelled, returning how many rows changed.
	CancelStalePending(ctx context.Context, cutoff time.Time) (int64, error)
	// CancelledWithScreenshots returns cancelled orders updated before
	// cutoff that still hold a payment screenshot path.
	CancelledWithScreenshots(ctx context.Context, cutoff time.Time) ([]domain.Order, error)
	// ClearScreenshot empties the screenshot path after the file is gone.
	ClearScreenshot(ctx context.Context, id int64) error
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, o *domain.Order) error {
	return errors.Wrap(r.db.WithContext(ctx).Omit("Product").Create(o).Error, "create order")
}

func (r *GormRepository) Save(ctx context.Context, o *domain.Order) error {
	return errors.Wrap(r.db.WithContext(ctx).Omit("Product").Save(o).Error, "save order")
}

func (r *GormRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Product.Category").Preload("Product.Tags").
		Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}
	return &o, nil
}

func (r *GormRepository) List(ctx context.Context, status string, page, pageSize int) ([]domain.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count orders")
	}
	var out []domain.Order
	err := q.Preload("Product").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&out).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list orders")
	}
	return out, total, nil
}

func (r *GormRepository) FindByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).Preload("Product").
		Where("email = ?", email).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, errors.Wrap(err, "orders by email")
	}
	return out, nil
}

func (r *GormRepository) Delete(ctx context.Context, id int64) error {
	return errors.Wrap(r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Order{}).Error, "delete order")
}

func (r *GormRepository) CancelStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("status = ? AND created_at < ?", domain.OrderStatusPending, cutoff).
		Updates(map[string]interface{}{
			"status":     domain.OrderStatusCancelled,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, errors.Wrap(res.Error, "cancel stale pending")
}

func (r *GormRepository) CancelledWithScreenshots(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ? AND payment_screenshot != ''",
			domain.OrderStatusCancelled, cutoff).
		Find(&out).Error
	return out, errors.Wrap(err, "cancelled orders with screenshots")
}

func (r *GormRepository) ClearScreenshot(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ?", id).
		Update("payment_screenshot", "").Error
	return errors.Wrap(err, "clear screenshot")
}
