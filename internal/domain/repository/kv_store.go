package repository

import "context"

// Claves de las cuatro colecciones en el almacén clave-valor.
const (
	KeyCategories     = "categories"
	KeySubcategories  = "subcategories"
	KeyProducts       = "products"
	KeyStockMovements = "stock_movements"
)

// KVStore define el puerto de almacenamiento de blobs (DIP).
// Get devuelve found=false cuando la clave nunca se escribió.
type KVStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}
