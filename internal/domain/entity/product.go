package entity

import "time"

// Product representa un artículo escaneable del inventario.
// Quantity nunca es negativa; Barcode no es único (la búsqueda devuelve el primero).
type Product struct {
	ID            string
	Name          string
	Description   string
	Barcode       string
	Quantity      int
	SubcategoryID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
