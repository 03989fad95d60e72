package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/skillcart/skillcart/internal/catalog"
)

func (h *Handler) listCategories(c echo.Context) error {
	categories, err := h.catalog.ListCategories(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return ok(c, categories)
}

func (h *Handler) getCategory(c echo.Context) error {
	category, err := h.catalog.GetCategoryBySlug(c.Request().Context(), c.Param("slug"))
	if errors.Is(err, catalog.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}
	return ok(c, category)
}

func (h *Handler) categoryProducts(c echo.Context) error {
	ctx := c.Request().Context()
	category, err := h.catalog.GetCategoryBySlug(ctx, c.Param("slug"))
	if errors.Is(err, catalog.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}
	products, err := h.catalog.ListProducts(ctx, catalog.ProductFilter{CategoryID: category.ID})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return ok(c, viewsOf(products))
}

func (h *Handler) listTags(c echo.Context) error {
	tags, err := h.catalog.ListTags(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query tags", err.Error())
	}
	return ok(c, tags)
}

func (h *Handler) getTag(c echo.Context) error {
	tag, err := h.catalog.GetTagBySlug(c.Request().Context(), c.Param("slug"))
	if errors.Is(err, catalog.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Tag not found", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query tag", err.Error())
	}
	return ok(c, tag)
}

func (h *Handler) tagProducts(c echo.Context) error {
	ctx := c.Request().Context()
	tag, err := h.catalog.GetTagBySlug(ctx, c.Param("slug"))
	if errors.Is(err, catalog.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Tag not found", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query tag", err.Error())
	}
	products, err := h.catalog.ListProducts(ctx, catalog.ProductFilter{TagID: tag.ID})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return ok(c, viewsOf(products))
}

func (h *Handler) getSettings(c echo.Context) error {
	st, err := h.settings.Get(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load settings", err.Error())
	}
	return ok(c, st)
}
