package entity

import (
	"math"
	"strings"
	"time"

	"github.com/jhoicas/gestion-fournitures/internal/domain"
)

// Unit unidad de medida de una fourniture.
type Unit string

const (
	UnitUnit   Unit = "UNIT"
	UnitCarton Unit = "CARTON"
	UnitBox    Unit = "BOX"
	UnitLot    Unit = "LOT"
	UnitPack   Unit = "PACK"
)

// Valid indica si la unidad pertenece al catálogo.
func (u Unit) Valid() bool {
	switch u {
	case UnitUnit, UnitCarton, UnitBox, UnitLot, UnitPack:
		return true
	}
	return false
}

// MaxQuantity tope de stock_max y de cualquier cantidad (columnas INTEGER del almacén).
const MaxQuantity = math.MaxInt32

// Supply representa una fourniture (artículo de stock).
// El stock no es un campo exportado: solo cambia mediante ApplyEntry/ApplyExit,
// que usa el libro de stock dentro de una transacción.
type Supply struct {
	ID             string
	TypeID         string
	Reference      string // F001, F002, ... inmutable una vez asignada
	Designation    string
	Unit           Unit
	StockMax       int
	AlertThreshold int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time

	stock int
}

// RestoreSupply reconstruye una fourniture con el stock persistido.
// Uso exclusivo de los adaptadores de persistencia.
func RestoreSupply(s Supply, stock int) *Supply {
	s.stock = stock
	return &s
}

// Stock devuelve el stock actual.
func (s *Supply) Stock() int { return s.stock }

// InAlert es verdadero cuando stock <= umbral de alerta.
func (s *Supply) InAlert() bool { return s.stock <= s.AlertThreshold }

// StockPercentage porcentaje del stock respecto al máximo.
func (s *Supply) StockPercentage() float64 {
	if s.StockMax <= 0 {
		return 0
	}
	return float64(s.stock) / float64(s.StockMax) * 100
}

// Validate comprueba las invariantes de los campos editables.
func (s *Supply) Validate() error {
	details := map[string]any{}
	switch {
	case strings.TrimSpace(s.Designation) == "":
		details["designation"] = s.Designation
	case strings.TrimSpace(s.TypeID) == "":
		details["type_id"] = s.TypeID
	case !s.Unit.Valid():
		details["unit"] = s.Unit
	case s.StockMax < 1 || s.StockMax > MaxQuantity:
		details["stock_max"] = s.StockMax
	case s.AlertThreshold < 0 || s.AlertThreshold >= s.StockMax:
		details["alert_threshold"] = s.AlertThreshold
		details["stock_max"] = s.StockMax
	default:
		return nil
	}
	return domain.NewError(domain.ErrInvalidInput, "supply", s.Reference, details)
}

// ApplyEntry suma qty al stock respetando stock_max.
func (s *Supply) ApplyEntry(qty int) error {
	if qty <= 0 {
		return domain.NewError(domain.ErrInvalidQuantity, "supply", s.ID, map[string]any{"quantity": qty})
	}
	if !s.Fits(qty) {
		return domain.NewError(domain.ErrCapacityExceeded, "supply", s.ID, map[string]any{
			"stock": s.stock, "quantity": qty, "stock_max": s.StockMax,
		})
	}
	s.stock += qty
	return nil
}

// Fits indica si stock + qty <= stock_max, sin sumar (qty puede ser enorme).
func (s *Supply) Fits(qty int) bool {
	return qty <= s.StockMax-s.stock
}

// ApplyExit resta qty del stock; nunca deja el stock negativo.
func (s *Supply) ApplyExit(qty int) error {
	if qty <= 0 {
		return domain.NewError(domain.ErrInvalidQuantity, "supply", s.ID, map[string]any{"quantity": qty})
	}
	if qty > s.stock {
		return domain.NewError(domain.ErrInsufficientStock, "supply", s.ID, map[string]any{
			"requested": qty, "available": s.stock,
		})
	}
	s.stock -= qty
	return nil
}
