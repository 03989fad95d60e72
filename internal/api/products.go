package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/skillcart/skillcart/internal/catalog"
	"github.com/skillcart/skillcart/internal/domain"
)

// listFilter builds the common product filter from query params.
// Unparseable values are skipped, never an error.
func listFilter(c echo.Context) catalog.ProductFilter {
	f := catalog.ProductFilter{
		Search: strings.TrimSpace(c.QueryParam("search")),
	}
	if v := c.QueryParam("category"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.CategoryID = id
		} else {
			f.CategorySlug = v
		}
	}
	if v := c.QueryParam("tags"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.TagID = id
		} else {
			f.TagSlug = v
		}
	}
	if v := c.QueryParam("is_featured"); v != "" {
		featured := v == "true" || v == "1"
		f.Featured = &featured
	}

	ordering := strings.TrimSpace(c.QueryParam("ordering"))
	if strings.HasPrefix(ordering, "-") {
		f.Desc = true
		ordering = ordering[1:]
	}
	f.OrderBy = ordering
	return f
}

func (h *Handler) listProducts(c echo.Context) error {
	products, err := h.catalog.ListProducts(c.Request().Context(), listFilter(c))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return ok(c, viewsOf(products))
}

func (h *Handler) featuredProducts(c echo.Context) error {
	featured := true
	products, err := h.catalog.ListProducts(c.Request().Context(), catalog.ProductFilter{Featured: &featured})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return ok(c, viewsOf(products))
}

func (h *Handler) productsByPrice(c echo.Context) error {
	f := catalog.ProductFilter{}
	// Malformed numbers silently drop the bound.
	if v := c.QueryParam("min_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.MinPrice = &d
		}
	}
	if v := c.QueryParam("max_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.MaxPrice = &d
		}
	}
	products, err := h.catalog.ListProducts(c.Request().Context(), f)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return ok(c, viewsOf(products))
}

func (h *Handler) productsByCategory(c echo.Context) error {
	products, err := h.catalog.ListProducts(c.Request().Context(), catalog.ProductFilter{
		CategorySlug: c.QueryParam("category"),
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return ok(c, viewsOf(products))
}

// getProduct resolves a numeric id or a slug and attaches the
// recommendation list.
func (h *Handler) getProduct(c echo.Context) error {
	ctx := c.Request().Context()
	param := c.Param("id")

	var p *domain.Product
	var err error
	if id, perr := strconv.ParseInt(param, 10, 64); perr == nil {
		p, err = h.catalog.GetProduct(ctx, id)
	} else {
		p, err = h.catalog.GetProductBySlug(ctx, param)
	}
	if errors.Is(err, catalog.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	related, err := h.catalog.RelatedProducts(ctx, p)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query related products", err.Error())
	}
	return ok(c, productDetail{
		productView:     viewOf(p),
		RelatedProducts: viewsOf(related),
	})
}
