package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gestion-fournitures/internal/domain/inventory"
)

func TestReorderQuantity(t *testing.T) {
	tests := []struct {
		name                            string
		stock, max, threshold, pending int
		want                            int
	}{
		{"en alerta sin pedidos", 2, 20, 5, 0, 4},
		{"en alerta cubierto por pedidos, mínimo forzado", 2, 20, 5, 18, 4},
		{"en alerta con pedidos que exceden el máximo", 2, 20, 5, 30, 4},
		{"en alerta con hueco menor que la necesidad", 2, 20, 5, 15, 3},
		{"stock cero", 0, 10, 0, 0, 1},
		{"fuera de alerta completa hasta el máximo", 10, 20, 5, 0, 10},
		{"fuera de alerta con pedidos en curso", 10, 20, 5, 6, 4},
		{"fuera de alerta y cubierto", 10, 20, 5, 10, 0},
		{"lleno", 20, 20, 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inventory.ReorderQuantity(tt.stock, tt.max, tt.threshold, tt.pending))
		})
	}
}
