package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-fournitures/internal/application/dto"
	"github.com/jhoicas/gestion-fournitures/internal/domain"
)

func TestSupplyType_NombreUnicoSinMayusculas(t *testing.T) {
	c := newCatalog(t)

	_, err := c.types.Create(context.Background(), dto.CreateSupplyTypeRequest{Name: "  PAPETERIE "})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = c.types.Create(context.Background(), dto.CreateSupplyTypeRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.types.Create(context.Background(), dto.CreateSupplyTypeRequest{Name: "Informatique"})
	require.NoError(t, err)

	list, err := c.types.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Informatique", list[0].Name)
	assert.Equal(t, "Papeterie", list[1].Name)
}

func TestSupplyType_DeleteConFournitures(t *testing.T) {
	c := newCatalog(t)
	_, err := c.supplies.Create(context.Background(), "u-1", c.request("Ramette"))
	require.NoError(t, err)

	err = c.types.Delete(context.Background(), c.typeID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	empty, err := c.types.Create(context.Background(), dto.CreateSupplyTypeRequest{Name: "Vide"})
	require.NoError(t, err)
	require.NoError(t, c.types.Delete(context.Background(), empty.ID))

	assert.ErrorIs(t, c.types.Delete(context.Background(), empty.ID), domain.ErrNotFound)
}
