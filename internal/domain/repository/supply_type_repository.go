package repository

import (
	"context"

	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
)

// SupplyTypeRepository define el puerto de persistencia para SupplyType (DIP).
type SupplyTypeRepository interface {
	// Create devuelve domain.ErrDuplicate si el nombre ya existe (sin distinguir mayúsculas).
	Create(ctx context.Context, t *entity.SupplyType) error
	GetByID(ctx context.Context, id string) (*entity.SupplyType, error)
	GetByName(ctx context.Context, name string) (*entity.SupplyType, error)
	List(ctx context.Context) ([]*entity.SupplyType, error)
	// CountSupplies número de fournitures que referencian el tipo.
	CountSupplies(ctx context.Context, typeID string) (int, error)
	Delete(ctx context.Context, id string) error
}
