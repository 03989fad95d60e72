package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skillcart/skillcart/internal/domain"
)

func (h *Handler) getSettings(c echo.Context) error {
	s, err := h.settings.Get(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load site settings", err.Error())
	}
	return ok(c, s)
}

func (h *Handler) updateSettings(c echo.Context) error {
	var in domain.SiteSettings
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse settings", err.Error())
	}
	s, err := h.settings.Update(c.Request().Context(), &in)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update site settings", err.Error())
	}
	return ok(c, s)
}
