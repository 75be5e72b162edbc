package postgres_test

import (
	"context"
	"math"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-fournitures/internal/application/dto"
	"github.com/jhoicas/gestion-fournitures/internal/application/inventory"
	"github.com/jhoicas/gestion-fournitures/internal/application/numbering"
	"github.com/jhoicas/gestion-fournitures/internal/application/ordering"
	"github.com/jhoicas/gestion-fournitures/internal/application/usecase"
	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
	"github.com/jhoicas/gestion-fournitures/internal/infrastructure/postgres"
	"github.com/jhoicas/gestion-fournitures/pkg/config"
	"github.com/jhoicas/gestion-fournitures/pkg/logger"
)

// Requiere una base PostgreSQL desechable: TEST_DATABASE_URL=postgres://...
// El job de CI (.github/workflows/ci.yml) la levanta como servicio.
func newRunner(t *testing.T) *postgres.TxRunner {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))
	return postgres.NewTxRunner(pool)
}

func TestPostgres_SalidasConcurrentesYRecepcion(t *testing.T) {
	runner := newRunner(t)
	ctx := context.Background()
	log := logger.NewNop()
	journal := inventory.NewMovementJournal(runner)
	ledger := inventory.NewStockLedger(runner, journal, log)
	numbers := numbering.NewGenerator(runner, numbering.DefaultAttempts, log)
	types := usecase.NewSupplyTypeUseCase(runner, log)
	supplies := usecase.NewSupplyUseCase(runner, ledger, numbers, log)
	orders := ordering.NewOrderUseCase(runner, ledger, numbers, ordering.DefaultOptions, log)

	typ, err := types.Create(ctx, dto.CreateSupplyTypeRequest{Name: "Test " + uuid.NewString()})
	require.NoError(t, err)
	s, err := supplies.Create(ctx, "", dto.CreateSupplyRequest{
		TypeID: typ.ID, Designation: "Ramettes A4", Unit: "PACK",
		StockMax: 120, AlertThreshold: 10, InitialStock: 100,
	})
	require.NoError(t, err)

	var ok, insufficient atomic.Int32
	var wg sync.WaitGroup
	for range 30 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Issue(ctx, inventory.StockChangeInput{SupplyID: s.ID, Quantity: 7})
			switch {
			case err == nil:
				ok.Add(1)
			case domain.KindOf(err) == domain.ErrInsufficientStock:
				insufficient.Add(1)
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 14, ok.Load())
	assert.EqualValues(t, 16, insufficient.Load())

	got, err := supplies.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)

	movs, err := journal.Query(ctx, repository.MovementFilter{SupplyID: s.ID})
	require.NoError(t, err)
	assert.Len(t, movs, 15, "INITIAL + 14 salidas")

	o, err := orders.Create(ctx, ordering.CreateOrderInput{SupplyID: s.ID, Quantity: 50})
	require.NoError(t, err)
	_, err = orders.Validate(ctx, o.ID, "admin")
	require.NoError(t, err)
	_, err = orders.Receive(ctx, o.ID, "")
	require.NoError(t, err)

	got, err = supplies.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 52, got.Stock)

	_, err = supplies.Create(ctx, "", dto.CreateSupplyRequest{
		TypeID: typ.ID, Reference: s.Reference, Designation: "Duplicada", Unit: "UNIT", StockMax: 5, AlertThreshold: 1,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateReference)
}

func TestPostgres_LimitesYIdsMalFormados(t *testing.T) {
	runner := newRunner(t)
	ctx := context.Background()
	log := logger.NewNop()
	journal := inventory.NewMovementJournal(runner)
	ledger := inventory.NewStockLedger(runner, journal, log)
	numbers := numbering.NewGenerator(runner, numbering.DefaultAttempts, log)
	types := usecase.NewSupplyTypeUseCase(runner, log)
	supplies := usecase.NewSupplyUseCase(runner, ledger, numbers, log)
	orders := ordering.NewOrderUseCase(runner, ledger, numbers, ordering.DefaultOptions, log)

	name := "Limites " + uuid.NewString()
	typ, err := types.Create(ctx, dto.CreateSupplyTypeRequest{Name: name})
	require.NoError(t, err)
	_, err = types.Create(ctx, dto.CreateSupplyTypeRequest{Name: "  " + strings.ToUpper(name) + " "})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	s, err := supplies.Create(ctx, "", dto.CreateSupplyRequest{
		TypeID: typ.ID, Designation: "Toner", Unit: "UNIT", StockMax: 10, AlertThreshold: 2, InitialStock: 1,
	})
	require.NoError(t, err)

	_, err = ledger.Receive(ctx, inventory.StockChangeInput{SupplyID: s.ID, Quantity: math.MaxInt})
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	_, err = orders.Create(ctx, ordering.CreateOrderInput{SupplyID: s.ID, Quantity: math.MaxInt})
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	got, err := supplies.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)

	_, err = supplies.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = orders.Get(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = ledger.Issue(ctx, inventory.StockChangeInput{SupplyID: "abc", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = supplies.Create(ctx, "", dto.CreateSupplyRequest{
		TypeID: "x", Designation: "Sans type", Unit: "UNIT", StockMax: 10, AlertThreshold: 2,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	movs, err := journal.Query(ctx, repository.MovementFilter{SupplyID: "abc"})
	require.NoError(t, err)
	assert.Empty(t, movs)
}
