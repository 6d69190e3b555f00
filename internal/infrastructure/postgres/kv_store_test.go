package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/stock-scanner/internal/domain/entity"
	"github.com/jhoicas/stock-scanner/internal/domain/repository"
	"github.com/jhoicas/stock-scanner/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-scanner/internal/infrastructure/storage"
	"github.com/jhoicas/stock-scanner/pkg/logger"
)

// setupDB levanta PostgreSQL en un contenedor y aplica las migraciones.
// Requiere Docker; se activa con STOCK_PG_INTEGRATION=1.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if os.Getenv("STOCK_PG_INTEGRATION") != "1" {
		t.Skip("STOCK_PG_INTEGRATION!=1: se omite el test con contenedor")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "testuser",
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_DB":       "testdb",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

func TestKVStore_GetSet(t *testing.T) {
	pool := setupDB(t)
	store := postgres.NewKVStore(pool)
	ctx := context.Background()

	_, found, err := store.Get(ctx, repository.KeyCategories)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, repository.KeyCategories, []byte(`[{"id":"a"}]`)))
	require.NoError(t, store.Set(ctx, repository.KeyCategories, []byte(`[{"id":"b"}]`)))

	value, found, err := store.Get(ctx, repository.KeyCategories)
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"id":"b"}]`, string(value))
}

func TestKVStore_ConColecciones(t *testing.T) {
	pool := setupDB(t)
	collections := storage.NewCollections(postgres.NewKVStore(pool), logger.Nop(), nil)
	ctx := context.Background()

	movements := []entity.StockMovement{{
		ID: "m1", ProductID: "p1", Type: entity.MovementTypeRemove,
		Quantity: 2, PreviousQuantity: 5, NewQuantity: 3,
		Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}}
	require.NoError(t, collections.SaveStockMovements(ctx, movements))

	got, err := collections.LoadStockMovements(ctx)
	require.NoError(t, err)
	assert.Equal(t, movements, got)
}
