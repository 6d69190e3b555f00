package dto

import (
	"time"

	"github.com/jhoicas/stock-scanner/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto (normalmente tras escanear un código nuevo).
type CreateProductRequest struct {
	Name          string `json:"name" form:"name"`
	Description   string `json:"description" form:"description"`
	Barcode       string `json:"barcode" form:"barcode"`
	Quantity      int    `json:"quantity" form:"quantity"`
	SubcategoryID string `json:"subcategory_id" form:"subcategory_id"`
}

// UpdateProductRequest entrada para modificar nombre y descripción.
type UpdateProductRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

// StockAdjustmentRequest acción sobre el stock: add/remove suman o restan, modify fija el valor.
type StockAdjustmentRequest struct {
	Type     string `json:"type" form:"type"`
	Quantity int    `json:"quantity" form:"quantity"`
}

// ScanRequest código leído por el escáner.
type ScanRequest struct {
	Barcode string `json:"barcode" form:"barcode"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Barcode       string    `json:"barcode"`
	Quantity      int       `json:"quantity"`
	SubcategoryID string    `json:"subcategory_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StockMovementResponse salida de un movimiento.
type StockMovementResponse struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	Type             string    `json:"type"`
	Quantity         int       `json:"quantity"`
	PreviousQuantity int       `json:"previous_quantity"`
	NewQuantity      int       `json:"new_quantity"`
	Timestamp        time.Time `json:"timestamp"`
}

// ScanResponse resultado del escaneo; Product es nil si el código no existe.
type ScanResponse struct {
	Barcode string           `json:"barcode"`
	Found   bool             `json:"found"`
	Product *ProductResponse `json:"product"`
}

// SearchResultResponse resultado etiquetado de búsqueda.
type SearchResultResponse struct {
	Type string `json:"type"`
	Item any    `json:"item"`
}

// ToProductResponse convierte la entidad.
func ToProductResponse(p entity.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Barcode:       p.Barcode,
		Quantity:      p.Quantity,
		SubcategoryID: p.SubcategoryID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToProductList convierte una lista.
func ToProductList(list []entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ToProductResponse(p))
	}
	return out
}

// ToStockMovementResponse convierte la entidad.
func ToStockMovementResponse(m entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		Type:             string(m.Type),
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		Timestamp:        m.Timestamp,
	}
}

// ToStockMovementList convierte una lista.
func ToStockMovementList(list []entity.StockMovement) []StockMovementResponse {
	out := make([]StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToStockMovementResponse(m))
	}
	return out
}

// ToScanResponse convierte el resultado del escáner.
func ToScanResponse(r entity.ScanResult) ScanResponse {
	out := ScanResponse{Barcode: r.Barcode, Found: r.Found}
	if r.Product != nil {
		p := ToProductResponse(*r.Product)
		out.Product = &p
	}
	return out
}

// ToSearchResults convierte los resultados conservando el orden.
func ToSearchResults(list []entity.SearchResult) []SearchResultResponse {
	out := make([]SearchResultResponse, 0, len(list))
	for _, r := range list {
		var item any
		switch r.Type {
		case entity.SearchResultCategory:
			item = ToCategoryResponse(*r.Category)
		case entity.SearchResultSubcategory:
			item = ToSubcategoryResponse(*r.Subcategory)
		case entity.SearchResultProduct:
			item = ToProductResponse(*r.Product)
		}
		out = append(out, SearchResultResponse{Type: string(r.Type), Item: item})
	}
	return out
}
