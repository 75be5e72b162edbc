package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-fournitures/internal/application/inventory"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
)

func TestReplenishment_ListaOrdenadaPorDeficit(t *testing.T) {
	f := newFixture(t)
	uc := inventory.NewReplenishmentUseCase(f.store)

	poco := f.seedSupply(t, 4, 20, 5)    // déficit 1
	vacio := f.seedSupply(t, 0, 10, 6)   // déficit 6
	_ = f.seedSupply(t, 15, 20, 5)       // fuera de alerta
	medio := f.seedSupply(t, 2, 20, 5)   // déficit 3, con pedido en curso
	f.seedOrder(t, medio, 10, entity.OrderInTransit)

	list, err := uc.GenerateReplenishmentList(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, vacio, list[0].SupplyID)
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, 7, list[0].SuggestedOrderQty)

	assert.Equal(t, medio, list[1].SupplyID)
	assert.Equal(t, 10, list[1].PendingQuantity)
	assert.Equal(t, 4, list[1].SuggestedOrderQty)

	assert.Equal(t, poco, list[2].SupplyID)
	assert.Equal(t, 3, list[2].Priority)
	assert.Equal(t, 2, list[2].SuggestedOrderQty)
}

func TestReplenishment_FiltroPorTipoSinResultados(t *testing.T) {
	f := newFixture(t)
	f.seedSupply(t, 0, 10, 6)

	list, err := inventory.NewReplenishmentUseCase(f.store).GenerateReplenishmentList(context.Background(), "otro-tipo")
	require.NoError(t, err)
	assert.Empty(t, list)
}
