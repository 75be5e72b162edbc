package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/supplies/:id/receive|issue y /api/movements.
type RegisterMovementRequest struct {
	SupplyID string          `json:"supply_id,omitempty"`
	Kind     string          `json:"kind,omitempty"` // ENTRY | EXIT (solo en /api/movements)
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes"`
}

// AdjustStockRequest body para POST /api/supplies/:id/adjust.
type AdjustStockRequest struct {
	Target int    `json:"target"`
	Reason string `json:"reason"`
}

// StockChangeResponse resultado de una entrada o salida.
type StockChangeResponse struct {
	SupplyID string `json:"supply_id"`
	Stock    int    `json:"stock"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID        string          `json:"id"`
	SupplyID  string          `json:"supply_id"`
	Kind      string          `json:"kind"`
	Source    string          `json:"source"`
	Quantity  decimal.Decimal `json:"quantity"`
	Timestamp time.Time       `json:"timestamp"`
	UserID    string          `json:"user_id,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	OrderID   string          `json:"order_id,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReorderQuantityResponse cantidad sugerida de pedido.
type ReorderQuantityResponse struct {
	SupplyID string `json:"supply_id"`
	Quantity int    `json:"quantity"`
}

// ReplenishmentSuggestionDTO una fourniture en alerta con su cantidad sugerida de pedido.
type ReplenishmentSuggestionDTO struct {
	SupplyID          string `json:"supply_id"`
	Reference         string `json:"reference"`
	Designation       string `json:"designation"`
	Unit              string `json:"unit"`
	CurrentStock      int    `json:"current_stock"`
	StockMax          int    `json:"stock_max"`
	AlertThreshold    int    `json:"alert_threshold"`
	PendingQuantity   int    `json:"pending_quantity"` // pedidos VALIDATED / IN_TRANSIT
	Deficit           int    `json:"deficit"`          // umbral - stock
	SuggestedOrderQty int    `json:"suggested_order_qty"`
	Priority          int    `json:"priority"` // 1 = más urgente
}
