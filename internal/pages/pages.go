// Package pages serves the public storefront pages. Templates are
// embedded and rendered server-side; API consumers use internal/api
// instead.
package pages

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/skillcart/skillcart/internal/catalog"
	"github.com/skillcart/skillcart/internal/domain"
	"github.com/skillcart/skillcart/internal/orders"
	"github.com/skillcart/skillcart/internal/settings"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type Handler struct {
	catalog   catalog.Repository
	orders    *orders.Service
	settings  *settings.Service
	templates *template.Template
}

func NewHandler(cat catalog.Repository, ord *orders.Service, set *settings.Service) *Handler {
	return &Handler{
		catalog:   cat,
		orders:    ord,
		settings:  set,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.tmpl")),
	}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.home)
	e.GET("/home", h.home)
	e.GET("/product.html", h.product)
	e.GET("/checkout.html", h.checkout)
	e.GET("/payment.html", h.payment)
	e.GET("/success.html", h.success)
	e.GET("/privacy.html", h.policy("privacy.tmpl"))
	e.GET("/terms.html", h.policy("terms.tmpl"))
	e.GET("/refund.html", h.policy("refund.tmpl"))
}

// pageData is the context every template receives. Error is set when
// the requested product or order does not exist; templates render a
// friendly message instead of a hard 404.
type pageData struct {
	Settings *domain.SiteSettings
	Products []domain.Product
	Product  *domain.Product
	Related  []domain.Product
	Order    *domain.Order
	QRImage  string
	Error    string
}

func (h *Handler) render(c echo.Context, name string, data pageData) error {
	if data.Settings == nil {
		s, err := h.settings.Get(c.Request().Context())
		if err != nil {
			zap.L().Error("load settings for page", zap.Error(err))
			s = &domain.SiteSettings{ID: domain.SiteSettingsID}
		}
		data.Settings = s
	}
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		zap.L().Error("render page", zap.String("template", name), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (h *Handler) home(c echo.Context) error {
	f := catalog.ProductFilter{}
	// Exact price match; anything unparseable is ignored.
	if raw := c.QueryParam("price"); raw != "" {
		if price, err := decimal.NewFromString(raw); err == nil {
			f.MinPrice, f.MaxPrice = &price, &price
		}
	}
	products, err := h.catalog.ListProducts(c.Request().Context(), f)
	if err != nil {
		zap.L().Error("list products for home page", zap.Error(err))
	}
	return h.render(c, "home.tmpl", pageData{Products: products})
}

func (h *Handler) productBySlug(c echo.Context) (*domain.Product, string) {
	slug := c.QueryParam("slug")
	if slug == "" {
		return nil, "Product not specified"
	}
	p, err := h.catalog.GetProductBySlug(c.Request().Context(), slug)
	if err != nil {
		return nil, "Product not found"
	}
	return p, ""
}

func (h *Handler) product(c echo.Context) error {
	p, errMsg := h.productBySlug(c)
	if errMsg != "" {
		return h.render(c, "product.tmpl", pageData{Error: errMsg})
	}
	related, err := h.catalog.RelatedProducts(c.Request().Context(), p)
	if err != nil {
		zap.L().Error("load related products", zap.Error(err))
	}
	return h.render(c, "product.tmpl", pageData{Product: p, Related: related})
}

func (h *Handler) checkout(c echo.Context) error {
	p, errMsg := h.productBySlug(c)
	if errMsg != "" {
		return h.render(c, "checkout.tmpl", pageData{Error: errMsg})
	}
	return h.render(c, "checkout.tmpl", pageData{Product: p})
}

func (h *Handler) orderByParam(c echo.Context) (*domain.Order, string) {
	id, err := strconv.ParseInt(c.QueryParam("order"), 10, 64)
	if err != nil {
		return nil, "Order not specified"
	}
	order, err := h.orders.Get(c.Request().Context(), id)
	if err != nil {
		return nil, "Order not found"
	}
	return order, ""
}

func (h *Handler) payment(c echo.Context) error {
	order, errMsg := h.orderByParam(c)
	if errMsg != "" {
		return h.render(c, "payment.tmpl", pageData{Error: errMsg})
	}
	data := pageData{Order: order, Product: order.Product}
	if order.Product != nil {
		data.QRImage = order.Product.PaymentQR
	}
	if data.QRImage == "" {
		if s, err := h.settings.Get(c.Request().Context()); err == nil {
			data.QRImage = s.DefaultPaymentQR
			data.Settings = s
		}
	}
	return h.render(c, "payment.tmpl", data)
}

func (h *Handler) success(c echo.Context) error {
	order, errMsg := h.orderByParam(c)
	if errMsg != "" {
		return h.render(c, "success.tmpl", pageData{Error: errMsg})
	}
	return h.render(c, "success.tmpl", pageData{Order: order, Product: order.Product})
}

func (h *Handler) policy(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h.render(c, name, pageData{})
	}
}
