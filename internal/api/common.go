// Package api exposes the open REST surface: catalog reads, checkout,
// order status and the settings singleton.
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/skillcart/skillcart/internal/catalog"
	"github.com/skillcart/skillcart/internal/domain"
	"github.com/skillcart/skillcart/internal/orders"
	"github.com/skillcart/skillcart/internal/settings"
	"github.com/skillcart/skillcart/internal/webserver"
)

var (
	ok              = webserver.Ok
	created         = webserver.Created
	fail            = webserver.Fail
	paged           = webserver.Paged
	parsePagination = webserver.ParsePagination
)

type Handler struct {
	catalog   catalog.Repository
	orders    *orders.Service
	settings  *settings.Service
	uploadDir string
}

func NewHandler(cat catalog.Repository, ord *orders.Service, st *settings.Service, uploadDir string) *Handler {
	return &Handler{catalog: cat, orders: ord, settings: st, uploadDir: uploadDir}
}

func (h *Handler) Register(g *echo.Group) {
	g.GET("/products", h.listProducts)
	g.GET("/products/featured", h.featuredProducts)
	g.GET("/products/by_price", h.productsByPrice)
	g.GET("/products/by_category", h.productsByCategory)
	g.GET("/products/:id", h.getProduct)

	g.GET("/categories", h.listCategories)
	g.GET("/categories/:slug", h.getCategory)
	g.GET("/categories/:slug/products", h.categoryProducts)

	g.GET("/tags", h.listTags)
	g.GET("/tags/:slug", h.getTag)
	g.GET("/tags/:slug/products", h.tagProducts)

	g.POST("/orders", h.createOrder)
	g.GET("/orders", h.listOrders)
	g.GET("/orders/by_email", h.ordersByEmail)
	g.GET("/orders/:id", h.getOrder)
	g.PATCH("/orders/:id/update_status", h.updateOrderStatus)

	g.GET("/settings", h.getSettings)
}

// productView mirrors the list serializer: the entity plus the resolved
// display image.
type productView struct {
	*domain.Product
	DisplayImage string `json:"display_image"`
}

func viewOf(p *domain.Product) productView {
	return productView{Product: p, DisplayImage: p.DisplayImage()}
}

func viewsOf(list []domain.Product) []productView {
	out := make([]productView, 0, len(list))
	for i := range list {
		out = append(out, viewOf(&list[i]))
	}
	return out
}

type productDetail struct {
	productView
	RelatedProducts []productView `json:"related_products"`
}
