package entity

import (
	"time"

	"github.com/jhoicas/gestion-fournitures/internal/domain"
)

// OrderStatus estado del ciclo de vida de un pedido.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderValidated OrderStatus = "VALIDATED"
	OrderInTransit OrderStatus = "IN_TRANSIT"
	OrderReceived  OrderStatus = "RECEIVED"  // terminal
	OrderCancelled OrderStatus = "CANCELLED" // terminal
)

// OpenOrderStatuses estados en los que un pedido sigue abierto.
var OpenOrderStatuses = []OrderStatus{OrderPending, OrderValidated, OrderInTransit}

// InFlightOrderStatuses estados que cuentan como cantidad pendiente de recibir.
var InFlightOrderStatuses = []OrderStatus{OrderValidated, OrderInTransit}

// Order pedido de reposición de una fourniture.
type Order struct {
	ID          string
	SupplyID    string
	Quantity    int
	Number      string // CMD-YYYY-MM-NNN, inmutable
	Status      OrderStatus
	CreatedAt   time.Time
	ValidatedAt *time.Time
	InTransitAt *time.Time
	ReceivedAt  *time.Time
	CancelledAt *time.Time
	CreatedBy   string
	ValidatedBy string
	Notes       string
}

// IsOpen verdadero en PENDING, VALIDATED o IN_TRANSIT.
func (o *Order) IsOpen() bool {
	switch o.Status {
	case OrderPending, OrderValidated, OrderInTransit:
		return true
	}
	return false
}

func (o *Order) transitionError(to OrderStatus) error {
	return domain.NewError(domain.ErrInvalidTransition, "order", o.Number, map[string]any{
		"from": o.Status, "to": to,
	})
}

// Validate PENDING -> VALIDATED.
func (o *Order) Validate(userID string, now time.Time) error {
	if o.Status != OrderPending {
		return o.transitionError(OrderValidated)
	}
	o.Status = OrderValidated
	o.ValidatedBy = userID
	o.ValidatedAt = &now
	return nil
}

// MarkInTransit PENDING|VALIDATED -> IN_TRANSIT.
func (o *Order) MarkInTransit(now time.Time) error {
	if o.Status != OrderPending && o.Status != OrderValidated {
		return o.transitionError(OrderInTransit)
	}
	o.Status = OrderInTransit
	o.InTransitAt = &now
	return nil
}

// CanReceive indica si el pedido admite la recepción (VALIDATED o IN_TRANSIT).
func (o *Order) CanReceive() error {
	if o.Status != OrderValidated && o.Status != OrderInTransit {
		return o.transitionError(OrderReceived)
	}
	return nil
}

// MarkReceived VALIDATED|IN_TRANSIT -> RECEIVED. El stock lo actualiza el libro.
func (o *Order) MarkReceived(now time.Time) error {
	if err := o.CanReceive(); err != nil {
		return err
	}
	o.Status = OrderReceived
	o.ReceivedAt = &now
	return nil
}

// Cancel cualquier estado abierto -> CANCELLED.
func (o *Order) Cancel(now time.Time) error {
	switch o.Status {
	case OrderReceived:
		return domain.NewError(domain.ErrAlreadyReceived, "order", o.Number, nil)
	case OrderCancelled:
		return o.transitionError(OrderCancelled)
	}
	o.Status = OrderCancelled
	o.CancelledAt = &now
	return nil
}

// OverduePolicy plazos a partir de los cuales un pedido se considera atrasado.
type OverduePolicy struct {
	Validated time.Duration
	InTransit time.Duration
}

// DefaultOverduePolicy 7 días validado, 3 días en tránsito.
var DefaultOverduePolicy = OverduePolicy{
	Validated: 7 * 24 * time.Hour,
	InTransit: 3 * 24 * time.Hour,
}

// IsOverdue evalúa el pedido según la política, medido desde la transición correspondiente.
func (p OverduePolicy) IsOverdue(o *Order, now time.Time) bool {
	switch o.Status {
	case OrderValidated:
		return o.ValidatedAt != nil && now.Sub(*o.ValidatedAt) > p.Validated
	case OrderInTransit:
		return o.InTransitAt != nil && now.Sub(*o.InTransitAt) > p.InTransit
	}
	return false
}

// IsOverdue usa DefaultOverduePolicy.
func (o *Order) IsOverdue(now time.Time) bool {
	return DefaultOverduePolicy.IsOverdue(o, now)
}
