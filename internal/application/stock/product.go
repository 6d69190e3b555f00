package stock

import (
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/stock-scanner/internal/domain"
	"github.com/jhoicas/stock-scanner/internal/domain/entity"
)

// NewProduct datos de entrada para AddProduct.
type NewProduct struct {
	Name          string
	Description   string
	Barcode       string
	Quantity      int
	SubcategoryID string
}

// AddProduct crea el producto y registra un movimiento "add" de 0 a Quantity.
// No valida unicidad del código de barras.
func (m *Manager) AddProduct(ctx context.Context, in NewProduct) (_ entity.Product, err error) {
	defer func() { m.rec.ObserveOperation("add_product", err) }()

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return entity.Product{}, domain.ErrNameRequired
	}
	if in.Quantity < 0 {
		return entity.Product{}, domain.ErrInvalidQuantity
	}
	if in.SubcategoryID == "" {
		return entity.Product{}, domain.ErrSubcategoryNotFound
	}

	now := m.now()
	product := entity.Product{
		ID:            m.newID(),
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		Barcode:       strings.TrimSpace(in.Barcode),
		Quantity:      in.Quantity,
		SubcategoryID: in.SubcategoryID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	movement := entity.StockMovement{
		ID:               m.newID(),
		ProductID:        product.ID,
		Type:             entity.MovementTypeAdd,
		Quantity:         in.Quantity,
		PreviousQuantity: 0,
		NewQuantity:      in.Quantity,
		Timestamp:        now,
	}

	m.mu.Lock()
	if m.strict && !slices.ContainsFunc(m.subcategories, func(s entity.Subcategory) bool { return s.ID == in.SubcategoryID }) {
		m.mu.Unlock()
		return entity.Product{}, domain.ErrSubcategoryNotFound
	}
	m.products = append(m.products, product)
	m.movements = append(m.movements, movement)
	seq := m.nextSeqLocked()
	writes := []write{m.productsWriteLocked(seq), m.movementsWriteLocked(seq)}
	m.publishSizesLocked()
	m.mu.Unlock()

	m.persist(ctx, writes...)
	m.log.Debug().Str("product_id", product.ID).Str("barcode", product.Barcode).Int("quantity", product.Quantity).Msg("producto creado")
	return product, nil
}

// UpdateProduct reemplaza nombre y descripción. No genera movimiento de stock.
func (m *Manager) UpdateProduct(ctx context.Context, id, name, description string) (_ entity.Product, err error) {
	defer func() { m.rec.ObserveOperation("update_product", err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return entity.Product{}, domain.ErrNameRequired
	}

	m.mu.Lock()
	idx := m.productIndexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return entity.Product{}, domain.ErrProductNotFound
	}
	m.products[idx].Name = name
	m.products[idx].Description = strings.TrimSpace(description)
	m.products[idx].UpdatedAt = m.now()
	updated := m.products[idx]
	w := m.productsWriteLocked(m.nextSeqLocked())
	m.mu.Unlock()

	m.persist(ctx, w)
	return updated, nil
}

// UpdateProductQuantity fija la cantidad del producto y agrega exactamente un
// movimiento con el delta absoluto. El llamador debe garantizar newQuantity >= 0.
func (m *Manager) UpdateProductQuantity(ctx context.Context, productID string, newQuantity int, t entity.MovementType) (_ entity.StockMovement, err error) {
	defer func() { m.rec.ObserveOperation("update_product_quantity", err) }()

	if !t.Valid() {
		return entity.StockMovement{}, domain.ErrInvalidMovementType
	}
	if newQuantity < 0 {
		return entity.StockMovement{}, domain.ErrInvalidQuantity
	}

	m.mu.Lock()
	idx := m.productIndexLocked(productID)
	if idx < 0 {
		m.mu.Unlock()
		return entity.StockMovement{}, domain.ErrProductNotFound
	}
	movement := m.setQuantityLocked(idx, newQuantity, t)
	seq := m.nextSeqLocked()
	writes := []write{m.productsWriteLocked(seq), m.movementsWriteLocked(seq)}
	m.publishSizesLocked()
	m.mu.Unlock()

	m.persist(ctx, writes...)
	m.log.Debug().
		Str("product_id", productID).
		Str("type", string(t)).
		Int("previous", movement.PreviousQuantity).
		Int("new", movement.NewQuantity).
		Msg("cantidad actualizada")
	return movement, nil
}

// AdjustStock aplica una acción de la ficha de producto:
// add suma amount, remove resta amount (sin dejar stock negativo), modify fija amount.
func (m *Manager) AdjustStock(ctx context.Context, productID string, t entity.MovementType, amount int) (_ entity.StockMovement, err error) {
	defer func() { m.rec.ObserveOperation("adjust_stock", err) }()

	switch t {
	case entity.MovementTypeAdd, entity.MovementTypeRemove:
		if amount <= 0 {
			return entity.StockMovement{}, domain.ErrInvalidQuantity
		}
	case entity.MovementTypeModify:
		if amount < 0 {
			return entity.StockMovement{}, domain.ErrInvalidQuantity
		}
	default:
		return entity.StockMovement{}, domain.ErrInvalidMovementType
	}

	// Lectura y escritura bajo el mismo lock para que dos ajustes concurrentes no se pisen.
	m.mu.Lock()
	idx := m.productIndexLocked(productID)
	if idx < 0 {
		m.mu.Unlock()
		return entity.StockMovement{}, domain.ErrProductNotFound
	}
	current := m.products[idx].Quantity
	var target int
	switch t {
	case entity.MovementTypeAdd:
		target = current + amount
	case entity.MovementTypeRemove:
		if amount > current {
			m.mu.Unlock()
			return entity.StockMovement{}, domain.ErrInsufficientStock
		}
		target = current - amount
	case entity.MovementTypeModify:
		target = amount
	}
	movement := m.setQuantityLocked(idx, target, t)
	seq := m.nextSeqLocked()
	writes := []write{m.productsWriteLocked(seq), m.movementsWriteLocked(seq)}
	m.publishSizesLocked()
	m.mu.Unlock()

	m.persist(ctx, writes...)
	return movement, nil
}

// GetProduct busca un producto por id.
func (m *Manager) GetProduct(id string) (entity.Product, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx := m.productIndexLocked(id)
	if idx < 0 {
		return entity.Product{}, false
	}
	return m.products[idx], true
}

// GetProductByBarcode primer producto con ese código exacto, en orden de colección.
func (m *Manager) GetProductByBarcode(barcode string) (entity.Product, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.products {
		if p.Barcode == barcode {
			return p, true
		}
	}
	return entity.Product{}, false
}

// GetProductsBySubcategory productos de una subcategoría, en orden de colección.
func (m *Manager) GetProductsBySubcategory(subcategoryID string) []entity.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []entity.Product{}
	for _, p := range m.products {
		if p.SubcategoryID == subcategoryID {
			out = append(out, p)
		}
	}
	return out
}

// MovementsByProduct historial de un producto en orden de registro.
func (m *Manager) MovementsByProduct(productID string) []entity.StockMovement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []entity.StockMovement{}
	for _, mv := range m.movements {
		if mv.ProductID == productID {
			out = append(out, mv)
		}
	}
	return out
}

// Scan resuelve un código leído por el escáner. Si no hay producto, el llamador
// ofrece crearlo con ese código.
func (m *Manager) Scan(barcode string) entity.ScanResult {
	barcode = strings.TrimSpace(barcode)
	p, ok := m.GetProductByBarcode(barcode)
	m.rec.ObserveOperation("scan", nil)
	if !ok {
		return entity.ScanResult{Barcode: barcode}
	}
	return entity.ScanResult{Barcode: barcode, Found: true, Product: &p}
}

func (m *Manager) productIndexLocked(id string) int {
	return slices.IndexFunc(m.products, func(p entity.Product) bool { return p.ID == id })
}

// setQuantityLocked actualiza el producto idx y agrega el movimiento. Requiere m.mu en escritura.
func (m *Manager) setQuantityLocked(idx, newQuantity int, t entity.MovementType) entity.StockMovement {
	now := m.now()
	previous := m.products[idx].Quantity
	m.products[idx].Quantity = newQuantity
	m.products[idx].UpdatedAt = now

	delta := newQuantity - previous
	if delta < 0 {
		delta = -delta
	}
	movement := entity.StockMovement{
		ID:               m.newID(),
		ProductID:        m.products[idx].ID,
		Type:             t,
		Quantity:         delta,
		PreviousQuantity: previous,
		NewQuantity:      newQuantity,
		Timestamp:        now,
	}
	m.movements = append(m.movements, movement)
	return movement
}
