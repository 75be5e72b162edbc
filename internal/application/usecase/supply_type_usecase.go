package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestion-fournitures/internal/application/dto"
	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
	"github.com/jhoicas/gestion-fournitures/pkg/logger"
)

// SupplyTypeUseCase casos de uso para los tipos de fourniture.
type SupplyTypeUseCase struct {
	txRunner repository.TxRunner
	log      *logger.Logger
}

// NewSupplyTypeUseCase construye el caso de uso.
func NewSupplyTypeUseCase(txRunner repository.TxRunner, log *logger.Logger) *SupplyTypeUseCase {
	return &SupplyTypeUseCase{txRunner: txRunner, log: log.Component("supply_types")}
}

// Create crea un tipo. El nombre es único sin distinguir mayúsculas.
func (uc *SupplyTypeUseCase) Create(ctx context.Context, in dto.CreateSupplyTypeRequest) (*dto.SupplyTypeResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "supply_type", "", map[string]any{"name": in.Name})
	}
	t := &entity.SupplyType{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		existing, err := repos.Types.GetByName(ctx, name)
		if err != nil && !isNotFound(err) {
			return err
		}
		if existing != nil {
			return domain.NewError(domain.ErrDuplicate, "supply_type", existing.Name, nil)
		}
		return repos.Types.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("type_id", t.ID).Str("name", t.Name).Msg("tipo creado")
	return toSupplyTypeResponse(t), nil
}

// List lista los tipos ordenados por nombre.
func (uc *SupplyTypeUseCase) List(ctx context.Context) ([]dto.SupplyTypeResponse, error) {
	var types []*entity.SupplyType
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		var err error
		types, err = repos.Types.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplyTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, *toSupplyTypeResponse(t))
	}
	return out, nil
}

// Delete elimina un tipo sin fournitures asociadas.
func (uc *SupplyTypeUseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		t, err := repos.Types.GetByID(ctx, id)
		if err != nil {
			return err
		}
		n, err := repos.Types.CountSupplies(ctx, t.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.NewError(domain.ErrConflict, "supply_type", t.Name, map[string]any{"supplies": n})
		}
		return repos.Types.Delete(ctx, t.ID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("type_id", id).Msg("tipo eliminado")
	return nil
}

func toSupplyTypeResponse(t *entity.SupplyType) *dto.SupplyTypeResponse {
	return &dto.SupplyTypeResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
}

func isNotFound(err error) bool {
	return domain.KindOf(err) == domain.ErrNotFound
}
