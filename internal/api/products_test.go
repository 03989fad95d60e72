package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skillcart/skillcart/internal/catalog"
	"github.com/skillcart/skillcart/internal/domain"
	"github.com/skillcart/skillcart/internal/settings"
	"github.com/skillcart/skillcart/pkg/common"
)

func newTestAPI(t *testing.T) (*echo.Echo, *catalog.GormRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	repo := catalog.NewGormRepository(db)
	e := echo.New()
	NewHandler(repo, nil, settings.NewService(db), t.TempDir()).Register(e.Group("/api"))
	return e, repo
}

func seedAPIProduct(t *testing.T, repo *catalog.GormRepository, name, price string, featured bool) *domain.Product {
	t.Helper()
	p := &domain.Product{
		ID:         common.UUIDint64(),
		Name:       name,
		Price:      mustDec(price),
		IsActive:   true,
		IsFeatured: featured,
	}
	require.NoError(t, repo.SaveProduct(context.Background(), p, nil))
	return p
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func doGet(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestListProductsEndpoint(t *testing.T) {
	e, repo := newTestAPI(t)
	seedAPIProduct(t, repo, "One", "100", false)
	seedAPIProduct(t, repo, "Two", "200", true)

	rec := doGet(e, "/api/products")
	require.Equal(t, http.StatusOK, rec.Code)

	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out, 2)
}

func TestFeaturedProductsEndpoint(t *testing.T) {
	e, repo := newTestAPI(t)
	seedAPIProduct(t, repo, "Plain", "100", false)
	featured := seedAPIProduct(t, repo, "Starred", "200", true)

	rec := doGet(e, "/api/products/featured")
	require.Equal(t, http.StatusOK, rec.Code)

	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, featured.Slug, out[0]["slug"])
}

func TestProductsByPriceIgnoresMalformedBounds(t *testing.T) {
	e, repo := newTestAPI(t)
	seedAPIProduct(t, repo, "Cheap", "50", false)
	seedAPIProduct(t, repo, "Costly", "500", false)

	// Valid bounds narrow the result.
	rec := doGet(e, "/api/products/by_price?min_price=100&max_price=600")
	require.Equal(t, http.StatusOK, rec.Code)
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Costly", out[0]["name"])

	// Garbage bounds are dropped, not rejected.
	rec = doGet(e, "/api/products/by_price?min_price=banana&max_price=")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out, 2)
}

func TestGetProductByIDAndSlug(t *testing.T) {
	e, repo := newTestAPI(t)
	p := seedAPIProduct(t, repo, "Lookup Target", "100", false)

	for _, target := range []string{
		"/api/products/" + p.Slug,
		"/api/products/" + strconv.FormatInt(p.ID, 10),
	} {
		rec := doGet(e, target)
		require.Equal(t, http.StatusOK, rec.Code, target)
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Equal(t, "Lookup Target", out["name"])
		_, hasRelated := out["related_products"]
		assert.True(t, hasRelated)
	}
}

func TestGetProductNotFound(t *testing.T) {
	e, _ := newTestAPI(t)
	rec := doGet(e, "/api/products/no-such-slug")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "NOT_FOUND", out["code"])
}

func TestCategoryProductsEndpoint(t *testing.T) {
	e, repo := newTestAPI(t)
	ctx := context.Background()

	cat := &domain.Category{ID: common.UUIDint64(), Name: "Courses"}
	require.NoError(t, repo.SaveCategory(ctx, cat))
	p := seedAPIProduct(t, repo, "In Category", "100", false)
	p.CategoryID = &cat.ID
	require.NoError(t, repo.SaveProduct(ctx, p, nil))
	seedAPIProduct(t, repo, "Elsewhere", "100", false)

	rec := doGet(e, "/api/categories/courses/products")
	require.Equal(t, http.StatusOK, rec.Code)
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "In Category", out[0]["name"])

	rec = doGet(e, "/api/categories/missing/products")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSettingsEndpoint(t *testing.T) {
	e, _ := newTestAPI(t)
	rec := doGet(e, "/api/settings")
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "SKILCART", out["site_name"])
}
