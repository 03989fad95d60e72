// Package webserver owns the echo instance and the REST response
// envelope shared by the public and admin APIs.
package webserver

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/skillcart/skillcart/config"
)

type WebServer struct {
	cfg  *config.AppConfig
	root *echo.Echo
	api  *echo.Group
	adm  *echo.Group
}

type payloadValidator struct {
	validate *validator.Validate
}

func (v *payloadValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func NewWebServer(cfg *config.AppConfig) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &payloadValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI: true, LogStatus: true, LogMethod: true, LogError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Debug("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Error(v.Error))
			return nil
		},
	}))
	e.Static("/media", filepath.Join(cfg.System.Workdir, "uploads"))

	ws := &WebServer{cfg: cfg, root: e}
	ws.api = e.Group("/api")
	ws.adm = e.Group("/api/admin", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.Web.JwtSecret),
	}))
	return ws
}

// Root exposes the echo instance for page routes and login.
func (ws *WebServer) Root() *echo.Echo { return ws.root }

// API is the open read/checkout surface under /api.
func (ws *WebServer) API() *echo.Group { return ws.api }

// Admin is the JWT-protected management surface under /api/admin.
func (ws *WebServer) Admin() *echo.Group { return ws.adm }

func (ws *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", ws.cfg.Web.Host, ws.cfg.Web.Port)
	zap.L().Info("starting web server", zap.String("addr", addr))
	return ws.root.Start(addr)
}

// Ok writes a bare 200 with the payload.
func Ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// Created writes a 201 with the payload.
func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

// Fail writes the structured error envelope.
func Fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":    code,
		"message": message,
		"detail":  detail,
	})
}

// Paged writes a paginated listing envelope.
func Paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":   rows,
		"total":   total,
		"page":    page,
		"perPage": pageSize,
	})
}

// ParsePagination reads page/perPage query params with sane bounds.
func ParsePagination(c echo.Context) (page, pageSize int) {
	page = cast.ToInt(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize = cast.ToInt(c.QueryParam("perPage"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 500 {
		pageSize = 500
	}
	return page, pageSize
}
