package http

import (
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stock-scanner/internal/application/dto"
	"github.com/jhoicas/stock-scanner/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName  string
	Stock    *stock.Manager
	Metrics  HTTPObserver        // nil = sin middleware de métricas
	Gatherer prometheus.Gatherer // nil = sin /metrics
	DocsFile string              // swagger.json; vacío = sin /docs
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
	}
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
	// Swagger UI: http://localhost:<port>/docs
	if deps.DocsFile != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: deps.DocsFile,
			Path:     "docs",
			Title:    "Stock Scanner API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		out := dto.HealthResponse{Status: "ok", Service: deps.AppName, Loading: deps.Stock.Loading()}
		if errs := deps.Stock.LoadErrors(); len(errs) > 0 {
			out.Status = "degraded"
			out.LoadErrors = make(map[string]string, len(errs))
			for k, err := range errs {
				out.LoadErrors[k] = err.Error()
			}
		}
		return c.JSON(out)
	})

	api := app.Group("/api")

	categoryHandler := NewCategoryHandler(deps.Stock)
	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)
	categories.Get("/:id/subcategories", categoryHandler.ListSubcategories)

	subcategories := api.Group("/subcategories")
	subcategories.Post("/", categoryHandler.CreateSubcategory)
	subcategories.Put("/:id", categoryHandler.UpdateSubcategory)
	subcategories.Delete("/:id", categoryHandler.DeleteSubcategory)
	subcategories.Get("/:id/products", categoryHandler.ListProducts)

	productHandler := NewProductHandler(deps.Stock)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/barcode/:barcode", productHandler.GetByBarcode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Post("/:id/stock", productHandler.AdjustStock)
	products.Get("/:id/movements", productHandler.Movements)

	api.Get("/movements", productHandler.AllMovements)
	api.Post("/scan", productHandler.Scan)
	api.Get("/search", productHandler.Search)
}
