package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind dirección de un movimiento de stock.
type MovementKind string

const (
	MovementEntry MovementKind = "ENTRY" // entrada
	MovementExit  MovementKind = "EXIT"  // salida
)

// Valid indica si el tipo es ENTRY o EXIT.
func (k MovementKind) Valid() bool {
	return k == MovementEntry || k == MovementExit
}

// MovementSource origen del movimiento (trazabilidad).
type MovementSource string

const (
	SourceManual         MovementSource = "MANUAL"
	SourceAdjustment     MovementSource = "ADJUSTMENT"
	SourceOrderReception MovementSource = "ORDER_RECEPTION"
	SourceInitial        MovementSource = "INITIAL"
)

// Movement registro inmutable de un cambio de stock. Solo se agrega, nunca se edita.
type Movement struct {
	ID        string
	SupplyID  string
	Kind      MovementKind
	Source    MovementSource
	Quantity  decimal.Decimal // siempre positiva; la dirección la da Kind
	Timestamp time.Time
	UserID    string // vacío si no hay usuario
	Notes     string
	OrderID   string // pedido cuya recepción generó el movimiento (opcional)
}

// SignedQuantity cantidad con signo: positiva en entradas, negativa en salidas.
func (m *Movement) SignedQuantity() decimal.Decimal {
	if m.Kind == MovementExit {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
