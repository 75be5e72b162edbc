package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/gestion-fournitures/internal/application/dto"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
	"github.com/jhoicas/gestion-fournitures/internal/domain/inventory"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de fournitures a pedir (las que están en alerta).
type ReplenishmentUseCase struct {
	txRunner repository.TxRunner
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(txRunner repository.TxRunner) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{txRunner: txRunner}
}

// GenerateReplenishmentList devuelve las fournitures activas en alerta con la cantidad
// sugerida de pedido. typeID puede ser vacío para considerar todo el catálogo.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, typeID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	var (
		supplies []*entity.Supply
		pending  map[string]int
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		var err error
		// 1. Fournitures activas en alerta
		supplies, err = repos.Supplies.List(ctx, repository.SupplyFilter{
			TypeID:     typeID,
			InAlert:    true,
			ActiveOnly: true,
		})
		if err != nil || len(supplies) == 0 {
			return err
		}
		// 2. Cantidad en curso por fourniture
		ids := make([]string, 0, len(supplies))
		for _, s := range supplies {
			ids = append(ids, s.ID)
		}
		pending, err = repos.Orders.SumQuantityBySupply(ctx, ids, entity.InFlightOrderStatuses)
		return err
	})
	if err != nil {
		return nil, err
	}

	// 3. Sugerencias; se omiten las que no requieren pedido
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(supplies))
	for _, s := range supplies {
		qty := inventory.ReorderQuantity(s.Stock(), s.StockMax, s.AlertThreshold, pending[s.ID])
		if qty <= 0 {
			continue
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			SupplyID:          s.ID,
			Reference:         s.Reference,
			Designation:       s.Designation,
			Unit:              string(s.Unit),
			CurrentStock:      s.Stock(),
			StockMax:          s.StockMax,
			AlertThreshold:    s.AlertThreshold,
			PendingQuantity:   pending[s.ID],
			Deficit:           s.AlertThreshold - s.Stock(),
			SuggestedOrderQty: qty,
		})
	}

	// 4. Ordenar: mayor déficit primero, luego referencia
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Deficit != b.Deficit {
			return a.Deficit > b.Deficit
		}
		return a.Reference < b.Reference
	})

	// 5. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
