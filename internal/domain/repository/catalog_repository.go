package repository

import (
	"context"

	"github.com/jhoicas/stock-scanner/internal/domain/entity"
)

// CatalogRepository define el puerto de persistencia de las cuatro colecciones (DIP).
// Cada colección se lee y se escribe completa. Una colección ausente se devuelve vacía
// y sin error; los fallos de lectura/escritura se devuelven como error para que el
// llamador decida.
type CatalogRepository interface {
	LoadCategories(ctx context.Context) ([]entity.Category, error)
	SaveCategories(ctx context.Context, categories []entity.Category) error

	LoadSubcategories(ctx context.Context) ([]entity.Subcategory, error)
	SaveSubcategories(ctx context.Context, subcategories []entity.Subcategory) error

	LoadProducts(ctx context.Context) ([]entity.Product, error)
	SaveProducts(ctx context.Context, products []entity.Product) error

	LoadStockMovements(ctx context.Context) ([]entity.StockMovement, error)
	SaveStockMovements(ctx context.Context, movements []entity.StockMovement) error
}
