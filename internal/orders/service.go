package orders

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/skillcart/skillcart/internal/catalog"
	"github.com/skillcart/skillcart/internal/domain"
	"github.com/skillcart/skillcart/internal/mailer"
	"github.com/skillcart/skillcart/pkg/common"
)

var (
	ErrOrderNotFound   = errors.New("orders: not found")
	ErrProductNotFound = errors.New("orders: product not found")
	ErrInvalidQuantity = errors.New("orders: quantity must be at least 1")
	ErrInvalidStatus   = errors.New("orders: unknown status")
)

// Service drives the order lifecycle. Email dispatch is best-effort: a
// delivery failure is logged and never aborts or rolls back the write
// that triggered it.
type Service struct {
	repo    Repository
	catalog catalog.Repository
	mail    mailer.Sender
}

func NewService(repo Repository, cat catalog.Repository, mail mailer.Sender) *Service {
	return &Service{repo: repo, catalog: cat, mail: mail}
}

type CreateInput struct {
	Email          string
	Phone          string
	CustomerName   string
	ProductID      int64
	Quantity       int
	BumpOfferAdded bool
	BumpOfferPrice *decimal.Decimal
	// ScreenshotPath is the stored path of an already-validated upload.
	ScreenshotPath string
}

// Create persists a pending order, copying the product's current price,
// then attempts the confirmation email.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	product, err := s.catalog.GetProduct(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}

	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	order := &domain.Order{
		ID:                common.UUIDint64(),
		Email:             in.Email,
		Phone:             in.Phone,
		CustomerName:      in.CustomerName,
		ProductID:         product.ID,
		Quantity:          qty,
		UnitPrice:         product.Price,
		BumpOfferAdded:    in.BumpOfferAdded,
		BumpOfferPrice:    in.BumpOfferPrice,
		Status:            domain.OrderStatusPending,
		PaymentScreenshot: in.ScreenshotPath,
	}
	order.ComputeTotal()

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.mail.SendOrderConfirmation(ctx, order, product); err != nil {
		zap.L().Warn("order confirmation email failed",
			zap.Int64("order_id", order.ID), zap.Error(err))
	}
	if order.DownloadLink != "" && order.Status == domain.OrderStatusCompleted {
		s.sendDownload(ctx, order, product)
	}

	order.Product = product
	return order, nil
}

type StatusUpdate struct {
	// Empty fields are left untouched.
	Status       string
	PaymentID    string
	DownloadLink string
}

// UpdateStatus applies a partial update from a manual or payment-callback
// flow. Transitions are deliberately unrestricted beyond enum membership:
// admin tooling depends on rolling orders back (e.g. completed to pending),
// matching the storefront's observed behavior.
func (s *Service) UpdateStatus(ctx context.Context, id int64, in StatusUpdate) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Status != "" && !domain.ValidOrderStatus(in.Status) {
		return nil, ErrInvalidStatus
	}

	oldStatus := order.Status
	oldLink := order.DownloadLink

	if in.Status != "" {
		order.Status = in.Status
	}
	if in.PaymentID != "" {
		order.PaymentID = in.PaymentID
	}
	if in.DownloadLink != "" {
		order.DownloadLink = in.DownloadLink
	}
	order.ComputeTotal()

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}

	if in.DownloadLink != "" && order.Status == domain.OrderStatusCompleted && oldLink == "" {
		s.sendDownload(ctx, order, order.Product)
	}
	if in.Status == domain.OrderStatusCompleted && oldStatus != domain.OrderStatusCompleted {
		if err := s.mail.SendOrderConfirmation(ctx, order, order.Product); err != nil {
			zap.L().Warn("order confirmation email failed",
				zap.Int64("order_id", order.ID), zap.Error(err))
		}
	}
	return order, nil
}

// sendDownload delivers the download-link email and records a successful
// delivery on the order.
func (s *Service) sendDownload(ctx context.Context, order *domain.Order, product *domain.Product) {
	if err := s.mail.SendDownloadLink(ctx, order, product); err != nil {
		zap.L().Warn("download link email failed",
			zap.Int64("order_id", order.ID), zap.Error(err))
		return
	}
	order.DownloadSent = true
	if err := s.repo.Save(ctx, order); err != nil {
		zap.L().Warn("failed to record download_sent",
			zap.Int64("order_id", order.ID), zap.Error(err))
	}
}

// MarkVerified is the administrative bulk action: each order flips to
// verified and gets a payment-verified email. Per-order email failures
// are logged; the status change is kept either way.
func (s *Service) MarkVerified(ctx context.Context, ids []int64) (int, error) {
	updated := 0
	for _, id := range ids {
		order, err := s.repo.GetByID(ctx, id)
		if err != nil {
			zap.L().Warn("mark verified: order lookup failed",
				zap.Int64("order_id", id), zap.Error(err))
			continue
		}
		order.Status = domain.OrderStatusVerified
		order.ComputeTotal()
		if err := s.repo.Save(ctx, order); err != nil {
			zap.L().Error("mark verified: save failed",
				zap.Int64("order_id", id), zap.Error(err))
			continue
		}
		updated++
		if err := s.mail.SendPaymentVerified(ctx, order, order.Product); err != nil {
			zap.L().Warn("payment verified email failed",
				zap.Int64("order_id", id), zap.Error(err))
		}
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, status string, page, pageSize int) ([]domain.Order, int64, error) {
	return s.repo.List(ctx, status, page, pageSize)
}

// ByEmail returns every order for a contact email, any status.
func (s *Service) ByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
