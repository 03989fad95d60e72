package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/skillcart/skillcart/internal/orders"
)

func (h *Handler) listOrders(c echo.Context) error {
	page, perPage := parsePagination(c)
	rows, total, err := h.orders.List(c.Request().Context(), c.QueryParam("status"), page, perPage)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, rows, total, page, perPage)
}

func (h *Handler) getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	order, err := h.orders.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}
	return ok(c, order)
}

func (h *Handler) deleteOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	if err := h.orders.Delete(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete order", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

type markVerifiedPayload struct {
	IDs []int64 `json:"ids" validate:"required,min=1"`
}

// markVerified is the bulk action behind the order list checkbox UI.
func (h *Handler) markVerified(c echo.Context) error {
	var payload markVerifiedPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order IDs", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "At least one order ID is required", err.Error())
	}
	count, err := h.orders.MarkVerified(c.Request().Context(), payload.IDs)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to mark orders verified", err.Error())
	}
	return ok(c, map[string]interface{}{"updated": count})
}
