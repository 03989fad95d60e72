package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skillcart/skillcart/config"
	"github.com/skillcart/skillcart/internal/catalog"
	"github.com/skillcart/skillcart/internal/domain"
	"github.com/skillcart/skillcart/internal/orders"
	"github.com/skillcart/skillcart/internal/settings"
	"github.com/skillcart/skillcart/internal/webserver"
)

// nopSender accepts every email without delivering anything.
type nopSender struct{}

func (nopSender) SendOrderConfirmation(context.Context, *domain.Order, *domain.Product) error {
	return nil
}

func (nopSender) SendDownloadLink(context.Context, *domain.Order, *domain.Product) error {
	return nil
}

func (nopSender) SendPaymentVerified(context.Context, *domain.Order, *domain.Product) error {
	return nil
}

func newOrderTestServer(t *testing.T) (*webserver.WebServer, *catalog.GormRepository, string) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	cfg := *config.DefaultAppConfig
	cfg.System.Workdir = t.TempDir()

	uploadDir := cfg.GetUploadDir()
	require.NoError(t, os.MkdirAll(filepath.Join(uploadDir, "screenshots"), 0o755))

	catalogRepo := catalog.NewGormRepository(db)
	orderService := orders.NewService(orders.NewGormRepository(db), catalogRepo, nopSender{})
	ws := webserver.NewWebServer(&cfg)
	NewHandler(catalogRepo, orderService, settings.NewService(db), uploadDir).Register(ws.API())
	return ws, catalogRepo, uploadDir
}

func postJSON(ws *webserver.WebServer, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ws.Root().ServeHTTP(rec, req)
	return rec
}

func TestCreateOrderEndpoint(t *testing.T) {
	ws, repo, _ := newOrderTestServer(t)
	p := seedAPIProduct(t, repo, "Checkout Target", "199", false)

	rec := postJSON(ws, "/api/orders",
		`{"email":"buyer@example.com","phone":"9999999999","product":"`+
			strconv.FormatInt(p.ID, 10)+`","quantity":2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "pending", out["status"])
	assert.Equal(t, "398", out["total_amount"])
}

func TestCreateOrderValidation(t *testing.T) {
	ws, repo, _ := newOrderTestServer(t)
	p := seedAPIProduct(t, repo, "Checkout Target", "199", false)

	// Missing email.
	rec := postJSON(ws, "/api/orders",
		`{"phone":"9999999999","product":"`+strconv.FormatInt(p.ID, 10)+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown product.
	rec = postJSON(ws, "/api/orders",
		`{"email":"a@b.c","phone":"9999999999","product":"12345"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func postMultipartOrder(t *testing.T, ws *webserver.WebServer, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("payment_screenshot", "proof.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/orders", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	ws.Root().ServeHTTP(rec, req)
	return rec
}

func TestCreateOrderStoresScreenshot(t *testing.T) {
	ws, repo, uploadDir := newOrderTestServer(t)
	p := seedAPIProduct(t, repo, "Checkout Target", "199", false)

	rec := postMultipartOrder(t, ws, map[string]string{
		"email":   "buyer@example.com",
		"phone":   "9999999999",
		"product": strconv.FormatInt(p.ID, 10),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	entries, err := os.ReadDir(filepath.Join(uploadDir, "screenshots"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRejectedOrderLeavesNoScreenshot(t *testing.T) {
	ws, _, uploadDir := newOrderTestServer(t)

	rec := postMultipartOrder(t, ws, map[string]string{
		"email":   "buyer@example.com",
		"phone":   "9999999999",
		"product": "424242",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	entries, err := os.ReadDir(filepath.Join(uploadDir, "screenshots"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	ws, repo, _ := newOrderTestServer(t)
	p := seedAPIProduct(t, repo, "Checkout Target", "199", false)

	rec := postJSON(ws, "/api/orders",
		`{"email":"buyer@example.com","phone":"9999999999","product":"`+
			strconv.FormatInt(p.ID, 10)+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	orderID := created["id"].(string)

	req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID+"/update_status",
		strings.NewReader(`{"status":"completed","download_link":"https://files.example.com/x.zip"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res := httptest.NewRecorder()
	ws.Root().ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var updated map[string]interface{}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &updated))
	assert.Equal(t, "completed", updated["status"])
	assert.Equal(t, true, updated["download_sent"])

	// Unknown status is rejected.
	req = httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID+"/update_status",
		strings.NewReader(`{"status":"shipped"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res = httptest.NewRecorder()
	ws.Root().ServeHTTP(res, req)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestOrdersByEmailEndpoint(t *testing.T) {
	ws, repo, _ := newOrderTestServer(t)
	p := seedAPIProduct(t, repo, "Checkout Target", "199", false)

	rec := postJSON(ws, "/api/orders",
		`{"email":"buyer@example.com","phone":"9999999999","product":"`+
			strconv.FormatInt(p.ID, 10)+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/by_email?email=buyer@example.com", nil)
	res := httptest.NewRecorder()
	ws.Root().ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	// Missing email parameter.
	req = httptest.NewRequest(http.MethodGet, "/api/orders/by_email", nil)
	res = httptest.NewRecorder()
	ws.Root().ServeHTTP(res, req)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}
