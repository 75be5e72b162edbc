package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-fournitures/internal/application/dto"
	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP a StockLedger.Apply.
// La cantidad llega como decimal y debe ser un entero positivo.
func (l *StockLedger) RegisterMovementFromRequest(ctx context.Context, kind entity.MovementKind, userID string, in dto.RegisterMovementRequest) (int, error) {
	qty, err := IntegerQuantity(in.SupplyID, in.Quantity)
	if err != nil {
		return 0, err
	}
	return l.Apply(ctx, kind, StockChangeInput{
		SupplyID: in.SupplyID,
		Quantity: qty,
		UserID:   userID,
		Notes:    in.Notes,
		Source:   entity.SourceManual,
	})
}

var maxQuantity = decimal.NewFromInt(entity.MaxQuantity)

// IntegerQuantity convierte una cantidad decimal en entera (> 0, sin parte fraccionaria,
// como mucho entity.MaxQuantity).
func IntegerQuantity(supplyID string, q decimal.Decimal) (int, error) {
	if !q.IsPositive() || !q.Equal(q.Truncate(0)) || q.GreaterThan(maxQuantity) {
		return 0, domain.NewError(domain.ErrInvalidQuantity, "supply", supplyID, map[string]any{"quantity": q.String()})
	}
	return int(q.IntPart()), nil
}

// ToMovementResponse mapea la entidad al DTO de salida.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID,
		SupplyID:  m.SupplyID,
		Kind:      string(m.Kind),
		Source:    string(m.Source),
		Quantity:  m.Quantity,
		Timestamp: m.Timestamp,
		UserID:    m.UserID,
		Notes:     m.Notes,
		OrderID:   m.OrderID,
	}
}
