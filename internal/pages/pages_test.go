package pages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skillcart/skillcart/internal/catalog"
	"github.com/skillcart/skillcart/internal/domain"
	"github.com/skillcart/skillcart/internal/orders"
	"github.com/skillcart/skillcart/internal/settings"
	"github.com/skillcart/skillcart/pkg/common"
)

type quietSender struct{}

func (quietSender) SendOrderConfirmation(context.Context, *domain.Order, *domain.Product) error {
	return nil
}

func (quietSender) SendDownloadLink(context.Context, *domain.Order, *domain.Product) error {
	return nil
}

func (quietSender) SendPaymentVerified(context.Context, *domain.Order, *domain.Product) error {
	return nil
}

func newPageServer(t *testing.T) (*echo.Echo, *catalog.GormRepository, *orders.Service, *settings.Service) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	repo := catalog.NewGormRepository(db)
	st := settings.NewService(db)
	svc := orders.NewService(orders.NewGormRepository(db), repo, quietSender{})

	e := echo.New()
	NewHandler(repo, svc, st).Register(e)
	return e, repo, svc, st
}

func getPage(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func seedPageProduct(t *testing.T, repo *catalog.GormRepository, name string, price int64) *domain.Product {
	t.Helper()
	p := &domain.Product{
		ID:       common.UUIDint64(),
		Name:     name,
		Price:    decimal.NewFromInt(price),
		IsActive: true,
	}
	require.NoError(t, repo.SaveProduct(context.Background(), p, nil))
	return p
}

func TestHomePage(t *testing.T) {
	e, repo, _, _ := newPageServer(t)
	seedPageProduct(t, repo, "Front Page Item", 100)

	rec := getPage(e, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Front Page Item")
	assert.Contains(t, rec.Body.String(), "SKILCART")
}

func TestHomePagePriceFilter(t *testing.T) {
	e, repo, _, _ := newPageServer(t)
	seedPageProduct(t, repo, "Cheap Item", 99)
	seedPageProduct(t, repo, "Pricey Item", 999)

	rec := getPage(e, "/home?price=99")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cheap Item")
	assert.NotContains(t, rec.Body.String(), "Pricey Item")

	// Malformed filter is ignored, everything renders.
	rec = getPage(e, "/home?price=banana")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cheap Item")
	assert.Contains(t, rec.Body.String(), "Pricey Item")
}

func TestProductPage(t *testing.T) {
	e, repo, _, _ := newPageServer(t)
	p := seedPageProduct(t, repo, "Detail Item", 100)

	rec := getPage(e, "/product.html?slug="+p.Slug)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Detail Item")
}

func TestProductPageMissingRendersError(t *testing.T) {
	e, _, _, _ := newPageServer(t)
	rec := getPage(e, "/product.html?slug=ghost")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")
}

func TestPaymentPageUsesDefaultQR(t *testing.T) {
	e, repo, svc, st := newPageServer(t)
	ctx := context.Background()

	base, err := st.Get(ctx)
	require.NoError(t, err)
	base.DefaultPaymentQR = "/media/qr/site-default.png"
	_, err = st.Update(ctx, base)
	require.NoError(t, err)

	p := seedPageProduct(t, repo, "QR Item", 100)
	order, err := svc.Create(ctx, orders.CreateInput{
		Email: "buyer@example.com", Phone: "9999999999", ProductID: p.ID,
	})
	require.NoError(t, err)

	rec := getPage(e, "/payment.html?order="+strconv.FormatInt(order.ID, 10))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/media/qr/site-default.png")
}

func TestPaymentPagePrefersProductQR(t *testing.T) {
	e, repo, svc, _ := newPageServer(t)
	ctx := context.Background()

	p := seedPageProduct(t, repo, "Override Item", 100)
	p.PaymentQR = "/media/qr/product-own.png"
	require.NoError(t, repo.SaveProduct(ctx, p, nil))

	order, err := svc.Create(ctx, orders.CreateInput{
		Email: "buyer@example.com", Phone: "9999999999", ProductID: p.ID,
	})
	require.NoError(t, err)

	rec := getPage(e, "/payment.html?order="+strconv.FormatInt(order.ID, 10))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/media/qr/product-own.png")
}

func TestPaymentPageMissingOrder(t *testing.T) {
	e, _, _, _ := newPageServer(t)
	rec := getPage(e, "/payment.html?order=424242")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order not found")
}

func TestPolicyPages(t *testing.T) {
	e, _, _, st := newPageServer(t)
	base, err := st.Get(context.Background())
	require.NoError(t, err)
	base.RefundPolicy = "Refunds within 7 days."
	_, err = st.Update(context.Background(), base)
	require.NoError(t, err)

	rec := getPage(e, "/refund.html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Refunds within 7 days.")

	rec = getPage(e, "/privacy.html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No privacy policy has been published yet.")
}
