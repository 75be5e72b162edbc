package entity

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// SupplyType categoría de fournitures. El nombre es único sin distinguir mayúsculas.
type SupplyType struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// NormalizeTypeName devuelve la clave de comparación del nombre (case folding Unicode).
func NormalizeTypeName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
