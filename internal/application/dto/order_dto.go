package dto

import "time"

// CreateOrderRequest entrada para crear un pedido.
type CreateOrderRequest struct {
	SupplyID string `json:"supply_id"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID          string     `json:"id"`
	SupplyID    string     `json:"supply_id"`
	Number      string     `json:"number"`
	Quantity    int        `json:"quantity"`
	Status      string     `json:"status"`
	Overdue     bool       `json:"overdue"`
	CreatedAt   time.Time  `json:"created_at"`
	ValidatedAt *time.Time `json:"validated_at,omitempty"`
	InTransitAt *time.Time `json:"in_transit_at,omitempty"`
	ReceivedAt  *time.Time `json:"received_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedBy   string     `json:"created_by,omitempty"`
	ValidatedBy string     `json:"validated_by,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
