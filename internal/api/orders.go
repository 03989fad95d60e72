package api

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/skillcart/skillcart/internal/orders"
)

// MaxScreenshotSize bounds payment screenshot uploads.
const MaxScreenshotSize = 20 << 20

type orderPayload struct {
	Email          string           `json:"email" form:"email" validate:"required,email"`
	Phone          string           `json:"phone" form:"phone" validate:"required"`
	CustomerName   string           `json:"customer_name" form:"customer_name"`
	Product        int64            `json:"product,string" form:"product" validate:"required"`
	Quantity       int              `json:"quantity" form:"quantity"`
	BumpOfferAdded bool             `json:"bump_offer_added" form:"bump_offer_added"`
	BumpOfferPrice *decimal.Decimal `json:"bump_offer_price" form:"bump_offer_price"`
}

// saveScreenshot validates and stores an optional multipart upload,
// returning the stored relative path.
func (h *Handler) saveScreenshot(c echo.Context) (string, error) {
	file, err := c.FormFile("payment_screenshot")
	if err != nil {
		// absent or not a multipart request
		return "", nil
	}
	if file.Size > MaxScreenshotSize {
		return "", errors.New("payment_screenshot exceeds the 20MB limit")
	}

	src, err := file.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	rel := filepath.Join("screenshots", name)
	dst, err := os.Create(filepath.Join(h.uploadDir, rel))
	if err != nil {
		return "", errors.Wrap(err, "store upload")
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", errors.Wrap(err, "store upload")
	}
	return rel, nil
}

func (h *Handler) createOrder(c echo.Context) error {
	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Order validation failed", err.Error())
	}
	if payload.Quantity < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Quantity must be at least 1", nil)
	}

	screenshot, err := h.saveScreenshot(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST",
			"Invalid payment screenshot", map[string]string{"payment_screenshot": err.Error()})
	}

	order, err := h.orders.Create(c.Request().Context(), orders.CreateInput{
		Email:          payload.Email,
		Phone:          payload.Phone,
		CustomerName:   payload.CustomerName,
		ProductID:      payload.Product,
		Quantity:       payload.Quantity,
		BumpOfferAdded: payload.BumpOfferAdded,
		BumpOfferPrice: payload.BumpOfferPrice,
		ScreenshotPath: screenshot,
	})
	if err != nil {
		// A rejected order must not leave its upload behind.
		if screenshot != "" {
			_ = os.Remove(filepath.Join(h.uploadDir, screenshot))
		}
		switch {
		case errors.Is(err, orders.ErrProductNotFound):
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Product not found or inactive", nil)
		case errors.Is(err, orders.ErrInvalidQuantity):
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Quantity must be at least 1", nil)
		default:
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create order", err.Error())
		}
	}
	return created(c, order)
}

func (h *Handler) listOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)
	list, total, err := h.orders.List(c.Request().Context(), c.QueryParam("status"), page, pageSize)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, list, total, page, pageSize)
}

func (h *Handler) getOrder(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	order, err := h.orders.Get(c.Request().Context(), id)
	if errors.Is(err, orders.ErrOrderNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}
	return ok(c, order)
}

type statusPayload struct {
	Status       string `json:"status" form:"status"`
	PaymentID    string `json:"payment_id" form:"payment_id"`
	DownloadLink string `json:"download_link" form:"download_link"`
}

func (h *Handler) updateOrderStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload statusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status update", err.Error())
	}

	order, err := h.orders.UpdateStatus(c.Request().Context(), id, orders.StatusUpdate{
		Status:       payload.Status,
		PaymentID:    payload.PaymentID,
		DownloadLink: payload.DownloadLink,
	})
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	case errors.Is(err, orders.ErrInvalidStatus):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown order status", payload.Status)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update order", err.Error())
	}
	return ok(c, order)
}

func (h *Handler) ordersByEmail(c echo.Context) error {
	email := strings.TrimSpace(c.QueryParam("email"))
	if email == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Email parameter required", nil)
	}
	list, err := h.orders.ByEmail(c.Request().Context(), email)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return ok(c, list)
}
