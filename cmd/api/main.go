package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/afero"

	"github.com/jhoicas/stock-scanner/internal/application/stock"
	"github.com/jhoicas/stock-scanner/internal/domain/repository"
	"github.com/jhoicas/stock-scanner/internal/infrastructure/metrics"
	"github.com/jhoicas/stock-scanner/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-scanner/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/stock-scanner/internal/interfaces/http"
	"github.com/jhoicas/stock-scanner/pkg/config"
	"github.com/jhoicas/stock-scanner/pkg/logger"
)

// @title        Stock Scanner API
// @version      1.0
// @description  Inventario por categorías con escáner de códigos de barras.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var kv repository.KVStore
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		kv = storage.NewMemoryStore()
	case config.StorageDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		kv = postgres.NewKVStore(pool)
	default:
		store, err := storage.NewFileStore(afero.NewOsFs(), cfg.Storage.DataDir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.Storage.DataDir).Msg("directorio de datos")
		}
		kv = store
	}

	var (
		storageRec storage.Recorder
		stockOpts  = []stock.Option{stock.WithStrictReferences(cfg.Stock.StrictReferences)}
		deps       = httpRouter.RouterDeps{AppName: cfg.App.Name}
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.New(reg, cfg.Metrics.Prefix)
		storageRec = m
		stockOpts = append(stockOpts, stock.WithRecorder(m))
		deps.Metrics = m
		deps.Gatherer = reg
	}

	if ok, _ := afero.Exists(afero.NewOsFs(), cfg.HTTP.DocsFile); ok {
		deps.DocsFile = cfg.HTTP.DocsFile
	} else {
		log.Warn().Str("file", cfg.HTTP.DocsFile).Msg("swagger.json no encontrado; /docs deshabilitado")
	}

	repo := storage.NewCollections(kv, log.Component("storage"), storageRec)
	manager := stock.NewManager(repo, log.Component("stock"), stockOpts...)
	deps.Stock = manager

	// Carga completa antes de aceptar peticiones.
	manager.Initialize(ctx)

	app := httpRouter.NewApp(cfg.App.Name)
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
