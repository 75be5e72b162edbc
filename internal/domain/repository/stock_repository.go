package repository

import (
	"context"

	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
)

// StockRepository puerto de escritura del stock. Solo se entrega dentro de una transacción.
type StockRepository interface {
	// GetForUpdate obtiene la fourniture y bloquea su fila (SELECT ... FOR UPDATE).
	// Cualquier operación que deba serializarse por fourniture la toma primero.
	GetForUpdate(ctx context.Context, supplyID string) (*entity.Supply, error)
	// SaveStock persiste el stock actual de la fourniture. Solo lo llama el libro de stock.
	SaveStock(ctx context.Context, s *entity.Supply) error
}
