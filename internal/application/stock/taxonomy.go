package stock

import (
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/stock-scanner/internal/domain"
	"github.com/jhoicas/stock-scanner/internal/domain/entity"
)

// AddCategory crea una categoría con nombre recortado.
func (m *Manager) AddCategory(ctx context.Context, name string) (_ entity.Category, err error) {
	defer func() { m.rec.ObserveOperation("add_category", err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return entity.Category{}, domain.ErrNameRequired
	}
	category := entity.Category{ID: m.newID(), Name: name, CreatedAt: m.now()}

	m.mu.Lock()
	m.categories = append(m.categories, category)
	w := m.categoriesWriteLocked(m.nextSeqLocked())
	m.publishSizesLocked()
	m.mu.Unlock()

	m.persist(ctx, w)
	m.log.Debug().Str("category_id", category.ID).Msg("categoría creada")
	return category, nil
}

// UpdateCategory renombra una categoría. Solo cambia el nombre.
func (m *Manager) UpdateCategory(ctx context.Context, id, name string) (_ entity.Category, err error) {
	defer func() { m.rec.ObserveOperation("update_category", err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return entity.Category{}, domain.ErrNameRequired
	}

	m.mu.Lock()
	idx := slices.IndexFunc(m.categories, func(c entity.Category) bool { return c.ID == id })
	if idx < 0 {
		m.mu.Unlock()
		return entity.Category{}, domain.ErrCategoryNotFound
	}
	m.categories[idx].Name = name
	updated := m.categories[idx]
	w := m.categoriesWriteLocked(m.nextSeqLocked())
	m.mu.Unlock()

	m.persist(ctx, w)
	return updated, nil
}

// RemoveCategory elimina la categoría y en cascada sus subcategorías, los productos
// de esas subcategorías y los movimientos de esos productos. Los hijos se eliminan
// antes que el registro padre.
func (m *Manager) RemoveCategory(ctx context.Context, id string) (err error) {
	defer func() { m.rec.ObserveOperation("remove_category", err) }()

	m.mu.Lock()
	if !slices.ContainsFunc(m.categories, func(c entity.Category) bool { return c.ID == id }) {
		m.mu.Unlock()
		return domain.ErrCategoryNotFound
	}
	subIDs := map[string]struct{}{}
	for _, s := range m.subcategories {
		if s.CategoryID == id {
			subIDs[s.ID] = struct{}{}
		}
	}
	removed := m.removeSubcategoriesLocked(subIDs)
	m.categories = slices.DeleteFunc(m.categories, func(c entity.Category) bool { return c.ID == id })

	seq := m.nextSeqLocked()
	writes := []write{
		m.productsWriteLocked(seq),
		m.movementsWriteLocked(seq),
		m.subcategoriesWriteLocked(seq),
		m.categoriesWriteLocked(seq),
	}
	m.publishSizesLocked()
	m.mu.Unlock()

	m.persist(ctx, writes...)
	m.log.Debug().
		Str("category_id", id).
		Int("subcategories", len(subIDs)).
		Int("products", removed.products).
		Int("stock_movements", removed.movements).
		Msg("categoría eliminada")
	return nil
}

// AddSubcategory crea una subcategoría bajo categoryID.
func (m *Manager) AddSubcategory(ctx context.Context, name, categoryID string) (_ entity.Subcategory, err error) {
	defer func() { m.rec.ObserveOperation("add_subcategory", err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return entity.Subcategory{}, domain.ErrNameRequired
	}
	if categoryID == "" {
		return entity.Subcategory{}, domain.ErrCategoryNotFound
	}
	subcategory := entity.Subcategory{ID: m.newID(), Name: name, CategoryID: categoryID, CreatedAt: m.now()}

	m.mu.Lock()
	if m.strict && !slices.ContainsFunc(m.categories, func(c entity.Category) bool { return c.ID == categoryID }) {
		m.mu.Unlock()
		return entity.Subcategory{}, domain.ErrCategoryNotFound
	}
	m.subcategories = append(m.subcategories, subcategory)
	w := m.subcategoriesWriteLocked(m.nextSeqLocked())
	m.publishSizesLocked()
	m.mu.Unlock()

	m.persist(ctx, w)
	m.log.Debug().Str("subcategory_id", subcategory.ID).Str("category_id", categoryID).Msg("subcategoría creada")
	return subcategory, nil
}

// UpdateSubcategory renombra una subcategoría.
func (m *Manager) UpdateSubcategory(ctx context.Context, id, name string) (_ entity.Subcategory, err error) {
	defer func() { m.rec.ObserveOperation("update_subcategory", err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return entity.Subcategory{}, domain.ErrNameRequired
	}

	m.mu.Lock()
	idx := slices.IndexFunc(m.subcategories, func(s entity.Subcategory) bool { return s.ID == id })
	if idx < 0 {
		m.mu.Unlock()
		return entity.Subcategory{}, domain.ErrSubcategoryNotFound
	}
	m.subcategories[idx].Name = name
	updated := m.subcategories[idx]
	w := m.subcategoriesWriteLocked(m.nextSeqLocked())
	m.mu.Unlock()

	m.persist(ctx, w)
	return updated, nil
}

// RemoveSubcategory elimina la subcategoría, sus productos y los movimientos de esos productos.
// Persiste productos, movimientos y subcategorías, en ese orden.
func (m *Manager) RemoveSubcategory(ctx context.Context, id string) (err error) {
	defer func() { m.rec.ObserveOperation("remove_subcategory", err) }()

	m.mu.Lock()
	if !slices.ContainsFunc(m.subcategories, func(s entity.Subcategory) bool { return s.ID == id }) {
		m.mu.Unlock()
		return domain.ErrSubcategoryNotFound
	}
	removed := m.removeSubcategoriesLocked(map[string]struct{}{id: {}})

	seq := m.nextSeqLocked()
	writes := []write{
		m.productsWriteLocked(seq),
		m.movementsWriteLocked(seq),
		m.subcategoriesWriteLocked(seq),
	}
	m.publishSizesLocked()
	m.mu.Unlock()

	m.persist(ctx, writes...)
	m.log.Debug().
		Str("subcategory_id", id).
		Int("products", removed.products).
		Int("stock_movements", removed.movements).
		Msg("subcategoría eliminada")
	return nil
}

// GetCategory busca una categoría por id.
func (m *Manager) GetCategory(id string) (entity.Category, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.categories {
		if c.ID == id {
			return c, true
		}
	}
	return entity.Category{}, false
}

// GetSubcategory busca una subcategoría por id.
func (m *Manager) GetSubcategory(id string) (entity.Subcategory, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.subcategories {
		if s.ID == id {
			return s, true
		}
	}
	return entity.Subcategory{}, false
}

// GetSubcategoriesByCategory subcategorías de una categoría, en el orden de la colección.
func (m *Manager) GetSubcategoriesByCategory(categoryID string) []entity.Subcategory {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []entity.Subcategory{}
	for _, s := range m.subcategories {
		if s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out
}

type removal struct {
	products  int
	movements int
}

// removeSubcategoriesLocked quita las subcategorías indicadas con sus productos y los
// movimientos de esos productos. Requiere m.mu tomado en escritura.
func (m *Manager) removeSubcategoriesLocked(subIDs map[string]struct{}) removal {
	productIDs := map[string]struct{}{}
	for _, p := range m.products {
		if _, ok := subIDs[p.SubcategoryID]; ok {
			productIDs[p.ID] = struct{}{}
		}
	}

	before := len(m.movements)
	m.products = slices.DeleteFunc(m.products, func(p entity.Product) bool {
		_, ok := productIDs[p.ID]
		return ok
	})
	m.movements = slices.DeleteFunc(m.movements, func(mv entity.StockMovement) bool {
		_, ok := productIDs[mv.ProductID]
		return ok
	})
	m.subcategories = slices.DeleteFunc(m.subcategories, func(s entity.Subcategory) bool {
		_, ok := subIDs[s.ID]
		return ok
	})
	return removal{products: len(productIDs), movements: before - len(m.movements)}
}
