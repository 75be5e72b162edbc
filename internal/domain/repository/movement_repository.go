package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
)

// MovementFilter filtros del historial. Por defecto, del más reciente al más antiguo.
type MovementFilter struct {
	SupplyID  string
	OrderID   string
	Kind      entity.MovementKind
	From      *time.Time
	To        *time.Time
	Ascending bool
	Limit     int
	Offset    int
}

// MovementRepository puerto del diario de movimientos: solo inserción y consulta.
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	List(ctx context.Context, f MovementFilter) ([]*entity.Movement, error)
}
