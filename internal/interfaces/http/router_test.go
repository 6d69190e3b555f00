package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-scanner/internal/application/dto"
	"github.com/jhoicas/stock-scanner/internal/application/stock"
	"github.com/jhoicas/stock-scanner/internal/infrastructure/metrics"
	"github.com/jhoicas/stock-scanner/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/stock-scanner/internal/interfaces/http"
	"github.com/jhoicas/stock-scanner/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	app     *fiber.App
	manager *stock.Manager
	metrics *metrics.Metrics
}

// buildTestApp monta el router completo sobre un gestor con almacenamiento en memoria.
func buildTestApp(t *testing.T) *testEnv {
	t.Helper()
	repo := storage.NewCollections(storage.NewMemoryStore(), logger.Nop(), nil)
	m := stock.NewManager(repo, logger.Nop())
	m.Initialize(context.Background())

	reg := prometheus.NewRegistry()
	mt := metrics.New(reg, "test")

	app := apphttp.NewApp("stock-scanner-test")
	apphttp.Router(app, apphttp.RouterDeps{
		AppName:  "stock-scanner-test",
		Stock:    m,
		Metrics:  mt,
		Gatherer: reg,
	})
	return &testEnv{app: app, manager: m, metrics: mt}
}

// do lanza la petición y decodifica el cuerpo en out (si no es nil).
func do(t *testing.T, app *fiber.App, method, path string, body any, out any) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// seed crea categoría y subcategoría por la API.
func seed(t *testing.T, app *fiber.App) (dto.CategoryResponse, dto.SubcategoryResponse) {
	t.Helper()
	var cat dto.CategoryResponse
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/categories", dto.CategoryRequest{Name: "Bebidas"}, &cat))
	var sub dto.SubcategoryResponse
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/subcategories",
		dto.CreateSubcategoryRequest{Name: "Refrescos", CategoryID: cat.ID}, &sub))
	return cat, sub
}

func createProduct(t *testing.T, app *fiber.App, subID, name, barcode string, qty int) dto.ProductResponse {
	t.Helper()
	var p dto.ProductResponse
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/products", dto.CreateProductRequest{
		Name: name, Barcode: barcode, Quantity: qty, SubcategoryID: subID,
	}, &p))
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_Health(t *testing.T) {
	env := buildTestApp(t)

	var out dto.HealthResponse
	assert.Equal(t, http.StatusOK, do(t, env.app, http.MethodGet, "/health", nil, &out))
	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, "stock-scanner-test", out.Service)
	assert.False(t, out.Loading)
	assert.Empty(t, out.LoadErrors)
}

func TestRouter_CategoriasCRUD(t *testing.T) {
	env := buildTestApp(t)
	cat, sub := seed(t, env.app)

	var list []dto.CategoryResponse
	assert.Equal(t, http.StatusOK, do(t, env.app, http.MethodGet, "/api/categories", nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Bebidas", list[0].Name)

	var renamed dto.CategoryResponse
	assert.Equal(t, http.StatusOK, do(t, env.app, http.MethodPut, "/api/categories/"+cat.ID, dto.CategoryRequest{Name: "Líquidos"}, &renamed))
	assert.Equal(t, "Líquidos", renamed.Name)
	assert.Equal(t, cat.CreatedAt.Unix(), renamed.CreatedAt.Unix())

	var subs []dto.SubcategoryResponse
	assert.Equal(t, http.StatusOK, do(t, env.app, http.MethodGet, "/api/categories/"+cat.ID+"/subcategories", nil, &subs))
	require.Len(t, subs, 1)
	assert.Equal(t, sub.ID, subs[0].ID)

	assert.Equal(t, http.StatusNoContent, do(t, env.app, http.MethodDelete, "/api/categories/"+cat.ID, nil, nil))
	assert.Empty(t, env.manager.Categories())
	assert.Empty(t, env.manager.Subcategories())
}

func TestRouter_ErroresDeValidacion(t *testing.T) {
	env := buildTestApp(t)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, do(t, env.app, http.MethodPost, "/api/categories", dto.CategoryRequest{Name: "   "}, &e))
	assert.Equal(t, "VALIDATION", e.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Equal(t, "INVALID_BODY", e.Code)

	assert.Equal(t, http.StatusNotFound, do(t, env.app, http.MethodPost, "/api/subcategories",
		dto.CreateSubcategoryRequest{Name: "Huérfana", CategoryID: "no-existe"}, &e))
	assert.Equal(t, "NOT_FOUND", e.Code)

	assert.Equal(t, http.StatusNotFound, do(t, env.app, http.MethodDelete, "/api/subcategories/no-existe", nil, &e))
	assert.Equal(t, http.StatusNotFound, do(t, env.app, http.MethodGet, "/api/categories/no-existe/subcategories", nil, &e))
}

func TestRouter_ProductoYStock(t *testing.T) {
	env := buildTestApp(t)
	_, sub := seed(t, env.app)
	p := createProduct(t, env.app, sub.ID, "Cola 1L", "7701234567890", 10)
	assert.Equal(t, 10, p.Quantity)

	var mv dto.StockMovementResponse
	assert.Equal(t, http.StatusCreated, do(t, env.app, http.MethodPost, "/api/products/"+p.ID+"/stock",
		dto.StockAdjustmentRequest{Type: "remove", Quantity: 4}, &mv))
	assert.Equal(t, "remove", mv.Type)
	assert.Equal(t, 10, mv.PreviousQuantity)
	assert.Equal(t, 6, mv.NewQuantity)
	assert.Equal(t, 4, mv.Quantity)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, do(t, env.app, http.MethodPost, "/api/products/"+p.ID+"/stock",
		dto.StockAdjustmentRequest{Type: "remove", Quantity: 7}, &e))
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)

	assert.Equal(t, http.StatusBadRequest, do(t, env.app, http.MethodPost, "/api/products/"+p.ID+"/stock",
		dto.StockAdjustmentRequest{Type: "transfer", Quantity: 1}, &e))
	assert.Equal(t, "VALIDATION", e.Code)

	assert.Equal(t, http.StatusCreated, do(t, env.app, http.MethodPost, "/api/products/"+p.ID+"/stock",
		dto.StockAdjustmentRequest{Type: "modify", Quantity: 20}, &mv))
	assert.Equal(t, 20, mv.NewQuantity)

	var got dto.ProductResponse
	assert.Equal(t, http.StatusOK, do(t, env.app, http.MethodGet, "/api/products/"+p.ID, nil, &got))
	assert.Equal(t, 20, got.Quantity)

	var history []dto.StockMovementResponse
	assert.Equal(t, http.StatusOK, do(t, env.app, http.MethodGet, "/api/products/"+p.ID+"/movements", nil, &history))
	require.Len(t, history, 3)
	assert.Equal(t, []string{"add", "remove", "modify"}, []string{history[0].Type, history[1].Type, history[2].Type})

	var all []dto.StockMovementResponse
	assert.Equal(t, http.StatusOK, do(t, env.app, http.MethodGet, "/api/movements", nil, &all))
	assert.Len(t, all, 3)

	assert.Equal(t, http.StatusNotFound, do(t, env.app, http.MethodGet, "/api/products/no-existe", nil, &e))
	assert.Equal(t, http.StatusNotFound, do(t, env.app, http.MethodGet, "/api/products/no-existe/movements", nil, &e))
}

func TestRouter_UpdateProducto(t *testing.T) {
	env := buildTestApp(t)
	_, sub := seed(t, env.app)
	p := createProduct(t, env.app, sub.ID, "Cola", "111", 1)

	var got dto.ProductResponse
	assert.Equal(t, http.StatusOK, do(t, env.app, http.MethodPut, "/api/products/"+p.ID,
		dto.UpdateProductRequest{Name: "Cola Zero", Description: "sin azúcar"}, &got))
	assert.Equal(t, "Cola Zero", got.Name)
	assert.Equal(t, "sin azúcar", got.Description)
	assert.Equal(t, 1, got.Quantity)
	assert.Len(t, env.manager.StockMovements(), 1)
}

func TestRouter_CodigoDeBarrasYEscaner(t *testing.T) {
	env := buildTestApp(t)
	_, sub := seed(t, env.app)
	p := createProduct(t, env.app, sub.ID, "Agua", "7700000000001", 3)

	var got dto.ProductResponse
	assert.Equal(t, http.StatusOK, do(t, env.app, http.MethodGet, "/api/products/barcode/7700000000001", nil, &got))
	assert.Equal(t, p.ID, got.ID)

	var scan dto.ScanResponse
	assert.Equal(t, http.StatusOK, do(t, env.app, http.MethodPost, "/api/scan", dto.ScanRequest{Barcode: "7700000000001"}, &scan))
	assert.True(t, scan.Found)
	require.NotNil(t, scan.Product)
	assert.Equal(t, p.ID, scan.Product.ID)

	assert.Equal(t, http.StatusOK, do(t, env.app, http.MethodPost, "/api/scan", dto.ScanRequest{Barcode: "999"}, &scan))
	assert.False(t, scan.Found)
	assert.Nil(t, scan.Product)
	assert.Equal(t, "999", scan.Barcode)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, do(t, env.app, http.MethodPost, "/api/scan", dto.ScanRequest{}, &e))
	assert.Equal(t, http.StatusNotFound, do(t, env.app, http.MethodGet, "/api/products/barcode/999", nil, &e))
}

func TestRouter_Search(t *testing.T) {
	env := buildTestApp(t)
	_, sub := seed(t, env.app)
	createProduct(t, env.app, sub.ID, "Refresco de limón", "1", 1)

	var results []struct {
		Type string          `json:"type"`
		Item json.RawMessage `json:"item"`
	}
	assert.Equal(t, http.StatusOK, do(t, env.app, http.MethodGet, "/api/search?q=REFRESCO", nil, &results))
	require.Len(t, results, 2)
	assert.Equal(t, "subcategory", results[0].Type)
	assert.Equal(t, "product", results[1].Type)

	assert.Equal(t, http.StatusOK, do(t, env.app, http.MethodGet, "/api/search?q=%20%20", nil, &results))
	assert.Empty(t, results)
}

func TestRouter_ListarProductosDeSubcategoria(t *testing.T) {
	env := buildTestApp(t)
	_, sub := seed(t, env.app)
	createProduct(t, env.app, sub.ID, "A", "1", 1)
	createProduct(t, env.app, sub.ID, "B", "2", 2)

	var list []dto.ProductResponse
	assert.Equal(t, http.StatusOK, do(t, env.app, http.MethodGet, "/api/subcategories/"+sub.ID+"/products", nil, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Name)
	assert.Equal(t, "B", list[1].Name)

	assert.Equal(t, http.StatusOK, do(t, env.app, http.MethodGet, "/api/products", nil, &list))
	assert.Len(t, list, 2)

	assert.Equal(t, http.StatusNoContent, do(t, env.app, http.MethodDelete, "/api/subcategories/"+sub.ID, nil, nil))
	assert.Empty(t, env.manager.Products())
	assert.Empty(t, env.manager.StockMovements())
}

func TestRouter_Metricas(t *testing.T) {
	env := buildTestApp(t)
	_, sub := seed(t, env.app)
	p := createProduct(t, env.app, sub.ID, "A", "1", 1)

	var got dto.ProductResponse
	do(t, env.app, http.MethodGet, "/api/products/"+p.ID, nil, &got)
	var e dto.ErrorResponse
	do(t, env.app, http.MethodGet, "/api/products/no-existe", nil, &e)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/products/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/products/:id", "404")))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "test_http_requests_total")
}

// postForm envía un cuerpo application/x-www-form-urlencoded.
func postForm(t *testing.T, app *fiber.App, method, path string, form url.Values) int {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode
}

func TestRouter_CuerpoFormularioNoSeCorrompeConPeticionesPosteriores(t *testing.T) {
	env := buildTestApp(t)

	require.Equal(t, http.StatusCreated, postForm(t, env.app, http.MethodPost, "/api/categories", url.Values{"name": {"Bebidas"}}))
	cat := env.manager.Categories()[0]
	require.Equal(t, http.StatusCreated, postForm(t, env.app, http.MethodPost, "/api/subcategories",
		url.Values{"name": {"Refrescos"}, "category_id": {cat.ID}}))
	sub := env.manager.Subcategories()[0]
	require.Equal(t, http.StatusCreated, postForm(t, env.app, http.MethodPost, "/api/products",
		url.Values{"name": {"Cola"}, "barcode": {"770123"}, "quantity": {"3"}, "subcategory_id": {sub.ID}}))

	for i := 0; i < 20; i++ {
		postForm(t, env.app, http.MethodPost, "/api/categories", url.Values{"name": {"ZZZZZZZZZZZZZZZZZZZZ"}})
		var list []dto.CategoryResponse
		do(t, env.app, http.MethodGet, "/api/categories", nil, &list)
	}

	assert.Equal(t, "Bebidas", env.manager.Categories()[0].Name)
	got, ok := env.manager.GetSubcategory(sub.ID)
	require.True(t, ok)
	assert.Equal(t, "Refrescos", got.Name)
	assert.Equal(t, cat.ID, got.CategoryID)

	p := env.manager.Products()[0]
	assert.Equal(t, "Cola", p.Name)
	assert.Equal(t, "770123", p.Barcode)
	assert.Equal(t, sub.ID, p.SubcategoryID)
}

func TestRouter_CodigoDeBarrasConCaracteresReservados(t *testing.T) {
	env := buildTestApp(t)
	_, sub := seed(t, env.app)
	p := createProduct(t, env.app, sub.ID, "Libro", " ISBN 978/84%1 ", 1)

	var got dto.ProductResponse
	assert.Equal(t, http.StatusOK, do(t, env.app, http.MethodGet, "/api/products/barcode/"+url.PathEscape("ISBN 978/84%1"), nil, &got))
	assert.Equal(t, p.ID, got.ID)

	var scan dto.ScanResponse
	assert.Equal(t, http.StatusOK, do(t, env.app, http.MethodPost, "/api/scan", dto.ScanRequest{Barcode: "ISBN 978/84%1"}, &scan))
	assert.True(t, scan.Found)
	assert.Equal(t, p.ID, scan.Product.ID)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, do(t, env.app, http.MethodGet, "/api/products/barcode/%20", nil, &e))
	assert.Equal(t, "VALIDATION", e.Code)
}

func TestRouter_SwaggerUI(t *testing.T) {
	repo := storage.NewCollections(storage.NewMemoryStore(), logger.Nop(), nil)
	m := stock.NewManager(repo, logger.Nop())
	m.Initialize(context.Background())

	app := apphttp.NewApp("stock-scanner-test")
	apphttp.Router(app, apphttp.RouterDeps{Stock: m, DocsFile: "../../../docs/swagger.json"})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	// Sin archivo no se monta /docs.
	env := buildTestApp(t)
	resp2, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil), -1)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}
