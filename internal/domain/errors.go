package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas). Cada fallo del núcleo se clasifica
// en exactamente uno de estos tipos; ver KindOf.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidQuantity    = errors.New("cantidad inválida")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrCapacityExceeded   = errors.New("capacidad máxima excedida")
	ErrNoOpAdjustment     = errors.New("ajuste sin cambio de stock")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrDuplicateOpenOrder = errors.New("ya existe un pedido abierto para la fourniture")
	ErrInactiveSupply     = errors.New("fourniture inactiva")
	ErrAlreadyReceived    = errors.New("pedido ya recibido")
	ErrInvalidMovement    = errors.New("movimiento inválido")
	ErrDuplicateReference = errors.New("referencia duplicada")
	ErrDuplicateNumber    = errors.New("número de pedido duplicado")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInfrastructure     = errors.New("fallo de infraestructura")
)

// kinds en orden de precedencia para KindOf.
var kinds = []error{
	ErrNotFound,
	ErrInvalidInput,
	ErrInvalidQuantity,
	ErrInsufficientStock,
	ErrCapacityExceeded,
	ErrNoOpAdjustment,
	ErrInvalidTransition,
	ErrDuplicateOpenOrder,
	ErrInactiveSupply,
	ErrAlreadyReceived,
	ErrInvalidMovement,
	ErrDuplicateReference,
	ErrDuplicateNumber,
	ErrDuplicate,
	ErrConflict,
	ErrUnauthorized,
	ErrForbidden,
	ErrInfrastructure,
}

// Error agrega contexto (entidad, id y valores intentados) a un error de dominio.
// errors.Is(err, domain.ErrInsufficientStock) sigue funcionando gracias a Unwrap.
type Error struct {
	Kind    error
	Entity  string
	ID      string
	Details map[string]any
}

// NewError construye un error de dominio con contexto. details puede ser nil.
func NewError(kind error, entity, id string, details map[string]any) *Error {
	return &Error{Kind: kind, Entity: entity, ID: id, Details: details}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Entity != "" || e.ID != "" {
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(e.Entity + " " + e.ID))
	}
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, e.Details[k]))
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, " "))
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Kind }

// KindOf devuelve el tipo de dominio de err. Cualquier error no clasificado
// (BD caída, contexto cancelado, etc.) se considera ErrInfrastructure.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrInfrastructure
}

// IsBusiness indica si err es un fallo de validación o de regla de negocio
// (detectado antes de mutar, sin efectos parciales).
func IsBusiness(err error) bool {
	k := KindOf(err)
	return k != nil && k != ErrInfrastructure
}
