package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/skillcart/skillcart/internal/catalog"
	"github.com/skillcart/skillcart/internal/domain"
	"github.com/skillcart/skillcart/pkg/common"
)

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

type categoryPayload struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (h *Handler) listCategories(c echo.Context) error {
	categories, err := h.catalog.ListCategories(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return ok(c, categories)
}

func (h *Handler) createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Category name is required", err.Error())
	}
	category := &domain.Category{
		ID:          common.UUIDint64(),
		Name:        strings.TrimSpace(payload.Name),
		Slug:        payload.Slug,
		Description: payload.Description,
	}
	if err := h.catalog.SaveCategory(c.Request().Context(), category); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create category", err.Error())
	}
	return created(c, category)
}

func (h *Handler) updateCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Category name is required", err.Error())
	}
	category := &domain.Category{
		ID:          id,
		Name:        strings.TrimSpace(payload.Name),
		Slug:        payload.Slug,
		Description: payload.Description,
	}
	if err := h.catalog.SaveCategory(c.Request().Context(), category); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update category", err.Error())
	}
	return ok(c, category)
}

func (h *Handler) deleteCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	if err := h.catalog.DeleteCategory(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete category", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

type tagPayload struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
	Slug string `json:"slug"`
}

func (h *Handler) listTags(c echo.Context) error {
	tags, err := h.catalog.ListTags(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query tags", err.Error())
	}
	return ok(c, tags)
}

func (h *Handler) createTag(c echo.Context) error {
	var payload tagPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse tag", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Tag name is required", err.Error())
	}
	tag := &domain.Tag{
		ID:   common.UUIDint64(),
		Name: strings.TrimSpace(payload.Name),
		Slug: payload.Slug,
	}
	if err := h.catalog.SaveTag(c.Request().Context(), tag); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create tag", err.Error())
	}
	return created(c, tag)
}

func (h *Handler) updateTag(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid tag ID", nil)
	}
	var payload tagPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse tag", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Tag name is required", err.Error())
	}
	tag := &domain.Tag{ID: id, Name: strings.TrimSpace(payload.Name), Slug: payload.Slug}
	if err := h.catalog.SaveTag(c.Request().Context(), tag); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update tag", err.Error())
	}
	return ok(c, tag)
}

func (h *Handler) deleteTag(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid tag ID", nil)
	}
	if err := h.catalog.DeleteTag(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete tag", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

type productPayload struct {
	Name             string           `json:"name" validate:"required,min=1,max=200"`
	Slug             string           `json:"slug"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"short_description" validate:"max=500"`
	Price            decimal.Decimal  `json:"price"`
	OriginalPrice    *decimal.Decimal `json:"original_price"`
	// When positive, the price is derived from it; otherwise it is
	// derived from the two prices.
	DiscountPercentage int               `json:"discount_percentage" validate:"min=0"`
	ImageURL           string            `json:"image_url"`
	PaymentQR          string            `json:"payment_qr"`
	CategoryID         *int64            `json:"category_id,string"`
	TagIDs             []int64           `json:"tag_ids"`
	BadgeText          string            `json:"badge_text" validate:"max=100"`
	Features           domain.StringList `json:"features"`
	WhatIncluded       domain.StringList `json:"what_included"`
	PerfectFor         domain.StringList `json:"perfect_for"`
	IsActive           *bool             `json:"is_active"`
	IsFeatured         bool              `json:"is_featured"`
}

func (p *productPayload) validatePrices() error {
	if p.Price.IsNegative() {
		return errors.New("price must be >= 0")
	}
	if p.OriginalPrice != nil && p.OriginalPrice.IsNegative() {
		return errors.New("original_price must be >= 0")
	}
	return nil
}

func (p *productPayload) apply(target *domain.Product) {
	target.Name = strings.TrimSpace(p.Name)
	target.Slug = p.Slug
	target.Description = p.Description
	target.ShortDescription = p.ShortDescription
	target.Price = p.Price
	target.OriginalPrice = p.OriginalPrice
	target.DiscountPercentage = p.DiscountPercentage
	target.ImageURL = p.ImageURL
	target.PaymentQR = p.PaymentQR
	target.CategoryID = p.CategoryID
	target.BadgeText = p.BadgeText
	target.Features = p.Features
	target.WhatIncluded = p.WhatIncluded
	target.PerfectFor = p.PerfectFor
	target.IsFeatured = p.IsFeatured
	if p.IsActive != nil {
		target.IsActive = *p.IsActive
	}
}

func (h *Handler) listProducts(c echo.Context) error {
	f := catalog.ProductFilter{Search: c.QueryParam("q"), IncludeInactive: true}
	products, err := h.catalog.ListProducts(c.Request().Context(), f)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return ok(c, products)
}

func (h *Handler) createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Product validation failed", err.Error())
	}
	if err := payload.validatePrices(); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Product validation failed", err.Error())
	}

	product := &domain.Product{ID: common.UUIDint64(), IsActive: true}
	payload.apply(product)
	tagIDs := payload.TagIDs
	if tagIDs == nil {
		tagIDs = []int64{}
	}
	if err := h.catalog.SaveProduct(c.Request().Context(), product, tagIDs); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	return created(c, product)
}

func (h *Handler) updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	product, err := h.catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Product validation failed", err.Error())
	}
	if err := payload.validatePrices(); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Product validation failed", err.Error())
	}

	payload.apply(product)
	product.Tags = nil
	if err := h.catalog.SaveProduct(c.Request().Context(), product, payload.TagIDs); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	return ok(c, product)
}

func (h *Handler) deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := h.catalog.DeleteProduct(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
