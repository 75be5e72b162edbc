package entity_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
)

func newSupply(stock, max, threshold int) *entity.Supply {
	return entity.RestoreSupply(entity.Supply{
		ID:             "s-1",
		TypeID:         "t-1",
		Reference:      "F001",
		Designation:    "Ramette A4",
		Unit:           entity.UnitBox,
		StockMax:       max,
		AlertThreshold: threshold,
		Active:         true,
	}, stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas y salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyEntry_RespetaStockMax(t *testing.T) {
	s := newSupply(10, 10, 3)

	err := s.ApplyEntry(1)
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	assert.Equal(t, 10, s.Stock(), "el stock no cambia si la entrada falla")

	s = newSupply(5, 10, 3)
	require.NoError(t, s.ApplyEntry(5))
	assert.Equal(t, 10, s.Stock())
}

func TestApplyEntry_CantidadEnormeNoDesborda(t *testing.T) {
	s := newSupply(1, 10, 3)

	for _, q := range []int{math.MaxInt, math.MaxInt - 5, entity.MaxQuantity} {
		assert.ErrorIs(t, s.ApplyEntry(q), domain.ErrCapacityExceeded)
		assert.Equal(t, 1, s.Stock())
	}
	assert.False(t, s.Fits(math.MaxInt))
	assert.True(t, s.Fits(9))
	assert.False(t, s.Fits(10))
}

func TestApplyExit_NuncaNegativo(t *testing.T) {
	s := newSupply(10, 10, 3)

	assert.ErrorIs(t, s.ApplyExit(15), domain.ErrInsufficientStock)
	assert.Equal(t, 10, s.Stock())

	require.NoError(t, s.ApplyExit(10))
	assert.Equal(t, 0, s.Stock())
}

func TestApply_CantidadNoPositiva(t *testing.T) {
	s := newSupply(5, 10, 3)
	for _, q := range []int{0, -1} {
		assert.ErrorIs(t, s.ApplyEntry(q), domain.ErrInvalidQuantity)
		assert.ErrorIs(t, s.ApplyExit(q), domain.ErrInvalidQuantity)
	}
	assert.Equal(t, 5, s.Stock())
}

// ──────────────────────────────────────────────────────────────────────────────
// Alerta y validación
// ──────────────────────────────────────────────────────────────────────────────

func TestInAlert_Umbral(t *testing.T) {
	assert.True(t, newSupply(3, 10, 3).InAlert(), "stock igual al umbral está en alerta")
	assert.True(t, newSupply(0, 10, 3).InAlert())
	assert.False(t, newSupply(4, 10, 3).InAlert())
}

func TestStockPercentage(t *testing.T) {
	assert.InDelta(t, 25.0, newSupply(5, 20, 3).StockPercentage(), 0.001)
	assert.InDelta(t, 0.0, newSupply(5, 0, 0).StockPercentage(), 0.001)
}

func TestValidate(t *testing.T) {
	require.NoError(t, newSupply(0, 10, 3).Validate())

	cases := map[string]func(s *entity.Supply){
		"designación vacía":  func(s *entity.Supply) { s.Designation = "  " },
		"sin tipo":           func(s *entity.Supply) { s.TypeID = "" },
		"unidad desconocida": func(s *entity.Supply) { s.Unit = "KG" },
		"stock_max cero":     func(s *entity.Supply) { s.StockMax = 0; s.AlertThreshold = 0 },
		"umbral = máximo":    func(s *entity.Supply) { s.AlertThreshold = 10 },
		"umbral negativo":    func(s *entity.Supply) { s.AlertThreshold = -1 },
		"stock_max enorme":   func(s *entity.Supply) { s.StockMax = math.MaxInt },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := newSupply(0, 10, 3)
			mutate(s)
			assert.ErrorIs(t, s.Validate(), domain.ErrInvalidInput)
		})
	}
}

func TestNormalizeTypeName(t *testing.T) {
	assert.Equal(t, entity.NormalizeTypeName("Papeterie"), entity.NormalizeTypeName("  PAPETERIE "))
	assert.NotEqual(t, entity.NormalizeTypeName("Papeterie"), entity.NormalizeTypeName("Toner"))
}
