package repository

import (
	"context"

	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
)

// OrderFilter filtros de listado de pedidos.
type OrderFilter struct {
	SupplyID string
	Statuses []entity.OrderStatus
	Limit    int
	Offset   int
}

// OrderRepository define el puerto de persistencia para Order (DIP).
type OrderRepository interface {
	// Create devuelve domain.ErrDuplicateNumber si el número ya existe.
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate obtiene el pedido y bloquea su fila.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// Update persiste estado, fechas de transición, validador y notas. El número no cambia.
	Update(ctx context.Context, o *entity.Order) error
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, error)
	// SumQuantity suma las cantidades de los pedidos de la fourniture en los estados dados.
	SumQuantity(ctx context.Context, supplyID string, statuses []entity.OrderStatus) (int, error)
	// SumQuantityBySupply igual que SumQuantity agrupado por fourniture.
	SumQuantityBySupply(ctx context.Context, supplyIDs []string, statuses []entity.OrderStatus) (map[string]int, error)
	// MaxNumberSequence mayor secuencia entre los números con el prefijo dado (0 si no hay).
	MaxNumberSequence(ctx context.Context, prefix string) (int, error)
}
