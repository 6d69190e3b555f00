package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/stock-scanner/internal/domain"
	"github.com/jhoicas/stock-scanner/internal/domain/entity"
	"github.com/jhoicas/stock-scanner/internal/domain/repository"
	"github.com/jhoicas/stock-scanner/pkg/logger"
)

var _ repository.CatalogRepository = (*Collections)(nil)

// Operaciones reportadas al Recorder.
const (
	OpLoad = "load"
	OpSave = "save"
)

// Recorder recibe el resultado de cada lectura/escritura (métricas).
type Recorder interface {
	ObserveStorage(collection, operation string, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveStorage(string, string, error) {}

// RejectedRecordsError indica que parte de una colección no pasó la validación de esquema.
// Los registros válidos se devuelven igualmente junto con este error.
type RejectedRecordsError struct {
	Collection string
	Loaded     int
	Rejected   int
}

func (e *RejectedRecordsError) Error() string {
	return fmt.Sprintf("%s: %d registros rechazados (%d cargados)", e.Collection, e.Rejected, e.Loaded)
}

// Unwrap permite errors.Is(err, domain.ErrCorruptData).
func (e *RejectedRecordsError) Unwrap() error { return domain.ErrCorruptData }

// Collections adaptador de persistencia: serializa cada colección completa como
// un array JSON bajo su clave en el KVStore.
type Collections struct {
	kv  repository.KVStore
	log *logger.Logger
	rec Recorder
}

// NewCollections construye el adaptador. rec puede ser nil.
func NewCollections(kv repository.KVStore, log *logger.Logger, rec Recorder) *Collections {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Collections{kv: kv, log: log.Component("storage"), rec: rec}
}

// LoadCategories lee la colección de categorías.
func (c *Collections) LoadCategories(ctx context.Context) ([]entity.Category, error) {
	return load(ctx, c, repository.KeyCategories, categoryFromRecord)
}

// SaveCategories reemplaza la colección de categorías.
func (c *Collections) SaveCategories(ctx context.Context, categories []entity.Category) error {
	return save(ctx, c, repository.KeyCategories, categories, categoryToRecord)
}

// LoadSubcategories lee la colección de subcategorías.
func (c *Collections) LoadSubcategories(ctx context.Context) ([]entity.Subcategory, error) {
	return load(ctx, c, repository.KeySubcategories, subcategoryFromRecord)
}

// SaveSubcategories reemplaza la colección de subcategorías.
func (c *Collections) SaveSubcategories(ctx context.Context, subcategories []entity.Subcategory) error {
	return save(ctx, c, repository.KeySubcategories, subcategories, subcategoryToRecord)
}

// LoadProducts lee la colección de productos.
func (c *Collections) LoadProducts(ctx context.Context) ([]entity.Product, error) {
	return load(ctx, c, repository.KeyProducts, productFromRecord)
}

// SaveProducts reemplaza la colección de productos.
func (c *Collections) SaveProducts(ctx context.Context, products []entity.Product) error {
	return save(ctx, c, repository.KeyProducts, products, productToRecord)
}

// LoadStockMovements lee el historial de movimientos.
func (c *Collections) LoadStockMovements(ctx context.Context) ([]entity.StockMovement, error) {
	return load(ctx, c, repository.KeyStockMovements, stockMovementFromRecord)
}

// SaveStockMovements reemplaza el historial de movimientos.
func (c *Collections) SaveStockMovements(ctx context.Context, movements []entity.StockMovement) error {
	return save(ctx, c, repository.KeyStockMovements, movements, stockMovementToRecord)
}

// load lee la clave, valida cada registro y descarta los inválidos.
func load[R any, E any](ctx context.Context, c *Collections, key string, fromRecord func(R) (E, error)) (out []E, err error) {
	defer func() { c.rec.ObserveStorage(key, OpLoad, err) }()

	raw, found, err := c.kv.Get(ctx, key)
	if err != nil {
		c.log.Error().Err(err).Str("collection", key).Msg("lectura de colección")
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrStorageRead, key, err)
	}
	if !found {
		return []E{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		c.log.Error().Err(err).Str("collection", key).Msg("colección ilegible")
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptData, key, err)
	}

	out = make([]E, 0, len(items))
	rejected := 0
	for i, item := range items {
		var rec R
		if err := json.Unmarshal(item, &rec); err != nil {
			rejected++
			c.log.Warn().Err(err).Str("collection", key).Int("index", i).Msg("registro rechazado")
			continue
		}
		e, err := fromRecord(rec)
		if err != nil {
			rejected++
			c.log.Warn().Err(err).Str("collection", key).Int("index", i).Msg("registro rechazado")
			continue
		}
		out = append(out, e)
	}
	if rejected > 0 {
		return out, &RejectedRecordsError{Collection: key, Loaded: len(out), Rejected: rejected}
	}
	c.log.Debug().Str("collection", key).Int("count", len(out)).Msg("colección cargada")
	return out, nil
}

// save serializa la colección completa y la escribe; no reintenta.
func save[E any, R any](ctx context.Context, c *Collections, key string, items []E, toRecord func(E) R) (err error) {
	defer func() { c.rec.ObserveStorage(key, OpSave, err) }()

	records := make([]R, 0, len(items))
	for _, e := range items {
		records = append(records, toRecord(e))
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrStorageWrite, key, err)
	}
	if err := c.kv.Set(ctx, key, raw); err != nil {
		c.log.Error().Err(err).Str("collection", key).Msg("escritura de colección")
		return fmt.Errorf("%w: %s: %v", domain.ErrStorageWrite, key, err)
	}
	return nil
}
