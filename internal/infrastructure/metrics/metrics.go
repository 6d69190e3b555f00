package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resultados posibles de una operación.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics agrupa los colectores Prometheus de la aplicación.
type Metrics struct {
	StockOperations     *prometheus.CounterVec
	StorageOperations   *prometheus.CounterVec
	CatalogItems        *prometheus.GaugeVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New crea y registra los colectores con el prefijo dado.
// En tests se pasa un prometheus.NewRegistry() para no chocar con el registro global.
func New(reg prometheus.Registerer, prefix string) *Metrics {
	m := &Metrics{
		StockOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_stock_operations_total",
				Help: "Total de operaciones del gestor de stock",
			},
			[]string{"operation", "result"},
		),
		StorageOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_storage_operations_total",
				Help: "Total de lecturas/escrituras de colecciones",
			},
			[]string{"collection", "operation", "result"},
		),
		CatalogItems: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_catalog_items",
				Help: "Número de elementos en memoria por colección",
			},
			[]string{"collection"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
	reg.MustRegister(
		m.StockOperations,
		m.StorageOperations,
		m.CatalogItems,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

// ObserveOperation cuenta una operación del gestor de stock.
func (m *Metrics) ObserveOperation(operation string, err error) {
	m.StockOperations.WithLabelValues(operation, result(err)).Inc()
}

// ObserveStorage cuenta una lectura o escritura de colección.
func (m *Metrics) ObserveStorage(collection, operation string, err error) {
	m.StorageOperations.WithLabelValues(collection, operation, result(err)).Inc()
}

// SetCatalogSize publica el tamaño actual de una colección.
func (m *Metrics) SetCatalogSize(collection string, n int) {
	m.CatalogItems.WithLabelValues(collection).Set(float64(n))
}

// ObserveHTTP registra una petición HTTP terminada.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
