package stock

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/stock-scanner/internal/domain/entity"
)

// Search busca la consulta como subcadena, sin distinguir mayúsculas (case folding Unicode),
// en nombres de categorías, nombres de subcategorías y nombre o descripción de productos.
// Devuelve categorías, luego subcategorías, luego productos; sin ranking ni límite.
func (m *Manager) Search(query string) []entity.SearchResult {
	// cases.Caser no es seguro para uso concurrente; uno por llamada.
	fold := cases.Fold()
	q := fold.String(query)
	contains := func(s string) bool {
		return strings.Contains(fold.String(s), q)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := []entity.SearchResult{}
	for i := range m.categories {
		if contains(m.categories[i].Name) {
			c := m.categories[i]
			results = append(results, entity.SearchResult{Type: entity.SearchResultCategory, Category: &c})
		}
	}
	for i := range m.subcategories {
		if contains(m.subcategories[i].Name) {
			s := m.subcategories[i]
			results = append(results, entity.SearchResult{Type: entity.SearchResultSubcategory, Subcategory: &s})
		}
	}
	for i := range m.products {
		p := m.products[i]
		if contains(p.Name) || contains(p.Description) {
			results = append(results, entity.SearchResult{Type: entity.SearchResultProduct, Product: &p})
		}
	}
	m.rec.ObserveOperation("search", nil)
	return results
}
