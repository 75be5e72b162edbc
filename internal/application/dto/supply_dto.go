package dto

import "time"

// CreateSupplyTypeRequest entrada para crear un tipo de fourniture.
type CreateSupplyTypeRequest struct {
	Name string `json:"name"`
}

// SupplyTypeResponse salida de un tipo.
type SupplyTypeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSupplyRequest entrada para crear una fourniture.
// Reference vacío = se asigna la siguiente (F001, F002, ...).
type CreateSupplyRequest struct {
	TypeID         string `json:"type_id"`
	Reference      string `json:"reference,omitempty"`
	Designation    string `json:"designation"`
	Unit           string `json:"unit"`
	StockMax       int    `json:"stock_max"`
	AlertThreshold int    `json:"alert_threshold"`
	InitialStock   int    `json:"initial_stock"`
}

// UpdateSupplyRequest entrada para actualizar una fourniture (sin stock ni referencia).
type UpdateSupplyRequest struct {
	TypeID         *string `json:"type_id"`
	Designation    *string `json:"designation"`
	Unit           *string `json:"unit"`
	StockMax       *int    `json:"stock_max"`
	AlertThreshold *int    `json:"alert_threshold"`
}

// SupplyResponse salida de una fourniture.
type SupplyResponse struct {
	ID              string    `json:"id"`
	TypeID          string    `json:"type_id"`
	Reference       string    `json:"reference"`
	Designation     string    `json:"designation"`
	Unit            string    `json:"unit"`
	Stock           int       `json:"stock"`
	StockMax        int       `json:"stock_max"`
	AlertThreshold  int       `json:"alert_threshold"`
	StockPercentage float64   `json:"stock_percentage"`
	InAlert         bool      `json:"in_alert"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SupplyListResponse lista paginada de fournitures.
type SupplyListResponse struct {
	Items []SupplyResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// NextReferenceResponse siguiente referencia disponible (informativa).
type NextReferenceResponse struct {
	Reference string `json:"reference"`
}
