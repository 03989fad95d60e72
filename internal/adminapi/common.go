// Package adminapi exposes the JWT-protected management surface: catalog
// CRUD, order administration and settings updates.
package adminapi

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/skillcart/skillcart/config"
	"github.com/skillcart/skillcart/internal/catalog"
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
	cfg      *config.AppConfig
	catalog  catalog.Repository
	orders   *orders.Service
	settings *settings.Service
}

func NewHandler(cfg *config.AppConfig, cat catalog.Repository, ord *orders.Service, st *settings.Service) *Handler {
	return &Handler{cfg: cfg, catalog: cat, orders: ord, settings: st}
}

// Register wires the open login route and the protected admin group.
func (h *Handler) Register(root *echo.Echo, admin *echo.Group) {
	root.POST("/api/admin/login", h.login)

	admin.GET("/categories", h.listCategories)
	admin.POST("/categories", h.createCategory)
	admin.PUT("/categories/:id", h.updateCategory)
	admin.DELETE("/categories/:id", h.deleteCategory)

	admin.GET("/tags", h.listTags)
	admin.POST("/tags", h.createTag)
	admin.PUT("/tags/:id", h.updateTag)
	admin.DELETE("/tags/:id", h.deleteTag)

	admin.GET("/products", h.listProducts)
	admin.POST("/products", h.createProduct)
	admin.PUT("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)

	admin.GET("/orders", h.listOrders)
	admin.GET("/orders/:id", h.getOrder)
	admin.DELETE("/orders/:id", h.deleteOrder)
	admin.POST("/orders/mark_verified", h.markVerified)

	admin.GET("/settings", h.getSettings)
	admin.PUT("/settings", h.updateSettings)
}

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password required", nil)
	}
	if payload.Username != h.cfg.Web.AdminUsername || payload.Password != h.cfg.Web.AdminPassword {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}

	claims := jwt.MapClaims{
		"sub": payload.Username,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.Web.JwtSecret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to sign token", err.Error())
	}
	return ok(c, map[string]interface{}{"token": signed})
}
