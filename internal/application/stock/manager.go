package stock

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-scanner/internal/domain/entity"
	"github.com/jhoicas/stock-scanner/internal/domain/repository"
	"github.com/jhoicas/stock-scanner/pkg/logger"
)

// Recorder recibe métricas del gestor. metrics.Metrics lo implementa.
type Recorder interface {
	ObserveOperation(operation string, err error)
	SetCatalogSize(collection string, n int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, error) {}
func (nopRecorder) SetCatalogSize(string, int)    {}

// Option configura el Manager.
type Option func(*Manager)

// WithRecorder publica métricas de operaciones y tamaños de colección.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.rec = r }
}

// WithIDGenerator reemplaza el generador de ids (uuid v4 por defecto).
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) { m.newID = fn }
}

// WithClock reemplaza time.Now.
func WithClock(fn func() time.Time) Option {
	return func(m *Manager) { m.now = fn }
}

// WithStrictReferences valida que categoryID/subcategoryID existan al crear (true por defecto).
func WithStrictReferences(strict bool) Option {
	return func(m *Manager) { m.strict = strict }
}

// Manager es el dueño de las cuatro colecciones en memoria. Cada mutación se aplica
// primero en memoria y después se persiste la colección afectada completa.
// Un fallo de escritura se registra y no deshace el cambio en memoria.
type Manager struct {
	repo   repository.CatalogRepository
	log    *logger.Logger
	rec    Recorder
	newID  func() string
	now    func() time.Time
	strict bool

	loading atomic.Bool

	mu            sync.RWMutex
	categories    []entity.Category
	subcategories []entity.Subcategory
	products      []entity.Product
	movements     []entity.StockMovement
	loadErrs      map[string]error
	seq           uint64

	persistMu sync.Mutex
	written   map[string]uint64
}

// NewManager construye el gestor. Loading() es true hasta que termine Initialize.
func NewManager(repo repository.CatalogRepository, log *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		repo:     repo,
		log:      log.Component("stock"),
		rec:      nopRecorder{},
		newID:    func() string { return uuid.New().String() },
		now:      time.Now,
		strict:   true,
		loadErrs: map[string]error{},
		written:  map[string]uint64{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.loading.Store(true)
	return m
}

// Loading indica si la carga inicial sigue en curso.
func (m *Manager) Loading() bool {
	return m.loading.Load()
}

// Initialize carga las cuatro colecciones en paralelo. Si una falla, esa colección
// queda vacía (o con sus registros válidos) y el error queda en LoadErrors; las demás
// no se ven afectadas. Nunca devuelve error por fallos de almacenamiento.
func (m *Manager) Initialize(ctx context.Context) {
	m.loading.Store(true)
	defer m.loading.Store(false)

	var (
		categories    []entity.Category
		subcategories []entity.Subcategory
		products      []entity.Product
		movements     []entity.StockMovement
		errs          [4]error
	)

	// Las goroutines nunca devuelven error: cada colección maneja el suyo.
	var g errgroup.Group
	g.Go(func() error {
		categories, errs[0] = m.repo.LoadCategories(ctx)
		return nil
	})
	g.Go(func() error {
		subcategories, errs[1] = m.repo.LoadSubcategories(ctx)
		return nil
	})
	g.Go(func() error {
		products, errs[2] = m.repo.LoadProducts(ctx)
		return nil
	})
	g.Go(func() error {
		movements, errs[3] = m.repo.LoadStockMovements(ctx)
		return nil
	})
	_ = g.Wait()

	loadErrs := map[string]error{}
	keys := [4]string{repository.KeyCategories, repository.KeySubcategories, repository.KeyProducts, repository.KeyStockMovements}
	for i, err := range errs {
		if err != nil {
			loadErrs[keys[i]] = err
			m.log.Warn().Err(err).Str("collection", keys[i]).Msg("colección cargada con errores")
		}
	}

	m.mu.Lock()
	m.categories = nonNil(categories)
	m.subcategories = nonNil(subcategories)
	m.products = nonNil(products)
	m.movements = nonNil(movements)
	m.loadErrs = loadErrs
	m.publishSizesLocked()
	m.mu.Unlock()

	m.log.Info().
		Int("categories", len(categories)).
		Int("subcategories", len(subcategories)).
		Int("products", len(products)).
		Int("stock_movements", len(movements)).
		Int("failed_collections", len(loadErrs)).
		Msg("datos cargados")
}

// LoadErrors devuelve, por colección, el error de la última carga (vacío si todo fue bien).
// Permite distinguir "colección vacía" de "lectura fallida".
func (m *Manager) LoadErrors() map[string]error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]error, len(m.loadErrs))
	for k, v := range m.loadErrs {
		out[k] = v
	}
	return out
}

// Categories devuelve una copia de las categorías.
func (m *Manager) Categories() []entity.Category {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.categories)
}

// Subcategories devuelve una copia de las subcategorías.
func (m *Manager) Subcategories() []entity.Subcategory {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.subcategories)
}

// Products devuelve una copia de los productos.
func (m *Manager) Products() []entity.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.products)
}

// StockMovements devuelve una copia del historial de movimientos.
func (m *Manager) StockMovements() []entity.StockMovement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.movements)
}

// write es una escritura pendiente de una colección, con el número de secuencia
// de la mutación que la produjo.
type write struct {
	collection string
	seq        uint64
	save       func(ctx context.Context) error
}

// nextSeqLocked requiere m.mu tomado en escritura.
func (m *Manager) nextSeqLocked() uint64 {
	m.seq++
	return m.seq
}

func (m *Manager) categoriesWriteLocked(seq uint64) write {
	snapshot := slices.Clone(m.categories)
	return write{repository.KeyCategories, seq, func(ctx context.Context) error {
		return m.repo.SaveCategories(ctx, snapshot)
	}}
}

func (m *Manager) subcategoriesWriteLocked(seq uint64) write {
	snapshot := slices.Clone(m.subcategories)
	return write{repository.KeySubcategories, seq, func(ctx context.Context) error {
		return m.repo.SaveSubcategories(ctx, snapshot)
	}}
}

func (m *Manager) productsWriteLocked(seq uint64) write {
	snapshot := slices.Clone(m.products)
	return write{repository.KeyProducts, seq, func(ctx context.Context) error {
		return m.repo.SaveProducts(ctx, snapshot)
	}}
}

func (m *Manager) movementsWriteLocked(seq uint64) write {
	snapshot := slices.Clone(m.movements)
	return write{repository.KeyStockMovements, seq, func(ctx context.Context) error {
		return m.repo.SaveStockMovements(ctx, snapshot)
	}}
}

// persist ejecuta las escrituras en orden. Una instantánea más vieja que la última
// escrita para esa colección se descarta: gana la última mutación, no la última escritura.
// Los errores se registran y se absorben.
func (m *Manager) persist(ctx context.Context, writes ...write) {
	m.persistMu.Lock()
	defer m.persistMu.Unlock()

	for _, w := range writes {
		if w.seq < m.written[w.collection] {
			m.log.Debug().Str("collection", w.collection).Uint64("seq", w.seq).Msg("instantánea obsoleta descartada")
			continue
		}
		if err := w.save(ctx); err != nil {
			m.log.Error().Err(err).Str("collection", w.collection).Msg("no se pudo persistir la colección; el estado en memoria se mantiene")
			continue
		}
		m.written[w.collection] = w.seq
	}
}

// publishSizesLocked requiere m.mu tomado.
func (m *Manager) publishSizesLocked() {
	m.rec.SetCatalogSize(repository.KeyCategories, len(m.categories))
	m.rec.SetCatalogSize(repository.KeySubcategories, len(m.subcategories))
	m.rec.SetCatalogSize(repository.KeyProducts, len(m.products))
	m.rec.SetCatalogSize(repository.KeyStockMovements, len(m.movements))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
