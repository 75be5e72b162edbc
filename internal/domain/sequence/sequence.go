// Package sequence define el formato de los identificadores legibles:
// referencias de fourniture (F001) y números de pedido (CMD-YYYY-MM-NNN).
package sequence

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jhoicas/gestion-fournitures/internal/domain"
)

// Claves de bloqueo para serializar la generación en el almacén.
const (
	SupplyReferenceKey = "supply_reference"
	OrderNumberKey     = "order_number"
)

// MaxSequence mayor sufijo numérico de referencias y números de pedido (9 dígitos).
const MaxSequence = 999_999_999

var (
	referenceRe   = regexp.MustCompile(`^F(\d{1,9})$`)
	orderNumberRe = regexp.MustCompile(`^CMD-(\d{4})-(\d{2})-(\d{3,9})$`)
)

// FormatReference F + n con al menos 3 dígitos.
func FormatReference(n int) string {
	return fmt.Sprintf("F%03d", n)
}

// ParseReference devuelve el sufijo numérico de una referencia F\d+.
func ParseReference(ref string) (int, bool) {
	m := referenceRe.FindStringSubmatch(ref)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ValidReference indica si ref tiene el formato F\d+ con como mucho 9 dígitos.
func ValidReference(ref string) bool {
	_, ok := ParseReference(ref)
	return ok
}

// NextReference siguiente referencia dado el mayor sufijo existente (0 si no hay ninguna).
func NextReference(maxSuffix int) (string, error) {
	if err := checkNext(SupplyReferenceKey, maxSuffix); err != nil {
		return "", err
	}
	return FormatReference(maxSuffix + 1), nil
}

// checkNext ErrConflict cuando la secuencia está agotada.
func checkNext(key string, max int) error {
	if max < 0 || max >= MaxSequence {
		return domain.NewError(domain.ErrConflict, "sequence", key, map[string]any{"max": MaxSequence})
	}
	return nil
}

// OrderNumberPrefix prefijo del mes: CMD-2024-03-.
func OrderNumberPrefix(now time.Time) string {
	return fmt.Sprintf("CMD-%04d-%02d-", now.Year(), int(now.Month()))
}

// FormatOrderNumber CMD-YYYY-MM-NNN.
func FormatOrderNumber(now time.Time, seq int) string {
	return fmt.Sprintf("%s%03d", OrderNumberPrefix(now), seq)
}

// ParseOrderNumber devuelve año, mes y secuencia de un número de pedido.
func ParseOrderNumber(number string) (year int, month time.Month, seq int, ok bool) {
	m := orderNumberRe.FindStringSubmatch(number)
	if m == nil {
		return 0, 0, 0, false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	s, err := strconv.Atoi(m[3])
	if err != nil || mo < 1 || mo > 12 {
		return 0, 0, 0, false
	}
	return y, time.Month(mo), s, true
}

// NextOrderNumber siguiente número del mes de now dado la mayor secuencia del mes.
func NextOrderNumber(now time.Time, maxSeq int) (string, error) {
	if err := checkNext(OrderNumberKey, maxSeq); err != nil {
		return "", err
	}
	return FormatOrderNumber(now, maxSeq+1), nil
}
