package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
	"github.com/jhoicas/gestion-fournitures/internal/infrastructure/memory"
)

func seed(t *testing.T, store *memory.Store) {
	t.Helper()
	err := store.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		if err := repos.Types.Create(ctx, &entity.SupplyType{ID: "t-1", Name: "Papeterie"}); err != nil {
			return err
		}
		return repos.Supplies.Create(ctx, entity.RestoreSupply(entity.Supply{
			ID: "s-1", TypeID: "t-1", Reference: "F001", Designation: "Stylos",
			Unit: entity.UnitBox, StockMax: 20, AlertThreshold: 5, Active: true,
		}, 10))
	})
	require.NoError(t, err)
}

func stockOf(t *testing.T, store *memory.Store, id string) int {
	t.Helper()
	var stock int
	require.NoError(t, store.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		s, err := repos.Supplies.GetByID(ctx, id)
		if err != nil {
			return err
		}
		stock = s.Stock()
		return nil
	}))
	return stock
}

func TestRun_ErrorDescartaLosCambios(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)
	boom := errors.New("fallo")

	err := store.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		s, err := repos.Stock.GetForUpdate(ctx, "s-1")
		if err != nil {
			return err
		}
		if err := s.ApplyExit(4); err != nil {
			return err
		}
		if err := repos.Stock.SaveStock(ctx, s); err != nil {
			return err
		}
		if err := repos.Movements.Create(ctx, &entity.Movement{
			ID: "m-1", SupplyID: "s-1", Kind: entity.MovementExit, Timestamp: time.Now(),
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 10, stockOf(t, store, "s-1"))

	err = store.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		_, err := repos.Movements.GetByID(ctx, "m-1")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "el movimiento tampoco se publica")
}

func TestRun_ContextoCancelado(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.Run(ctx, func(context.Context, repository.TxRepos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestRepos_ErroresDeDominio(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)

	err := store.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		_, err := repos.Supplies.GetByID(ctx, "no-existe")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = repos.Orders.GetByID(ctx, "no-existe")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		err = repos.Types.Create(ctx, &entity.SupplyType{ID: "t-2", Name: "PAPETERIE"})
		assert.ErrorIs(t, err, domain.ErrDuplicate)

		err = repos.Supplies.Create(ctx, entity.RestoreSupply(entity.Supply{
			ID: "s-2", TypeID: "t-1", Reference: "F001", Unit: entity.UnitUnit, StockMax: 1, Active: true,
		}, 0))
		assert.ErrorIs(t, err, domain.ErrDuplicateReference)

		err = repos.Movements.Create(ctx, &entity.Movement{ID: "m-x", SupplyID: "no-existe", Kind: entity.MovementEntry})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		err = repos.Types.Delete(ctx, "t-1")
		assert.ErrorIs(t, err, domain.ErrConflict)
		return nil
	})
	require.NoError(t, err)
}

func TestSupplies_ListOrdenaReferenciasNumericamente(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)
	err := store.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		for _, ref := range []string{"F010", "F002"} {
			if err := repos.Supplies.Create(ctx, entity.RestoreSupply(entity.Supply{
				ID: "id-" + ref, TypeID: "t-1", Reference: ref, Unit: entity.UnitUnit, StockMax: 5, AlertThreshold: 1, Active: true,
			}, 3)); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	var refs []string
	var max int
	require.NoError(t, store.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		list, err := repos.Supplies.List(ctx, repository.SupplyFilter{})
		if err != nil {
			return err
		}
		for _, s := range list {
			refs = append(refs, s.Reference)
		}
		max, err = repos.Supplies.MaxReferenceNumber(ctx)
		return err
	}))
	assert.Equal(t, []string{"F001", "F002", "F010"}, refs)
	assert.Equal(t, 10, max)
}
