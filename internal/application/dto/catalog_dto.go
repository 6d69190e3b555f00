package dto

import (
	"time"

	"github.com/jhoicas/stock-scanner/internal/domain/entity"
)

// CategoryRequest entrada para crear o renombrar una categoría.
type CategoryRequest struct {
	Name string `json:"name" form:"name"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSubcategoryRequest entrada para crear una subcategoría.
type CreateSubcategoryRequest struct {
	Name       string `json:"name" form:"name"`
	CategoryID string `json:"category_id" form:"category_id"`
}

// UpdateSubcategoryRequest entrada para renombrar una subcategoría.
type UpdateSubcategoryRequest struct {
	Name string `json:"name" form:"name"`
}

// SubcategoryResponse salida de una subcategoría.
type SubcategoryResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CategoryID string    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToCategoryResponse convierte la entidad.
func ToCategoryResponse(c entity.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

// ToCategoryList convierte una lista (nunca nil, para serializar []).
func ToCategoryList(list []entity.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToCategoryResponse(c))
	}
	return out
}

// ToSubcategoryResponse convierte la entidad.
func ToSubcategoryResponse(s entity.Subcategory) SubcategoryResponse {
	return SubcategoryResponse{ID: s.ID, Name: s.Name, CategoryID: s.CategoryID, CreatedAt: s.CreatedAt}
}

// ToSubcategoryList convierte una lista.
func ToSubcategoryList(list []entity.Subcategory) []SubcategoryResponse {
	out := make([]SubcategoryResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ToSubcategoryResponse(s))
	}
	return out
}
