package repository

import (
	"context"

	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
)

// SupplyFilter filtros de listado de fournitures.
type SupplyFilter struct {
	TypeID     string
	InAlert    bool
	ActiveOnly bool
	Limit      int
	Offset     int
}

// SupplyRepository define el puerto de persistencia para Supply (DIP).
// Ningún método escribe el stock: eso es exclusivo de StockRepository.
type SupplyRepository interface {
	// Create inserta la fourniture con su stock inicial.
	// Devuelve domain.ErrDuplicateReference si la referencia ya existe.
	Create(ctx context.Context, s *entity.Supply) error
	GetByID(ctx context.Context, id string) (*entity.Supply, error)
	GetByReference(ctx context.Context, reference string) (*entity.Supply, error)
	// Update actualiza campos editables (designación, unidad, tipo, máximos, activo).
	Update(ctx context.Context, s *entity.Supply) error
	List(ctx context.Context, f SupplyFilter) ([]*entity.Supply, error)
	// MaxReferenceNumber mayor sufijo numérico entre las referencias F\d+ (0 si no hay).
	MaxReferenceNumber(ctx context.Context) (int, error)
}
