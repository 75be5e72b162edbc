// Package numbering genera las referencias de fourniture y los números de pedido.
// La generación ocurre dentro de la transacción que inserta la entidad: bloqueo de la
// secuencia, lectura del máximo y formato. La restricción única del almacén respalda
// el bloqueo y Retry repite la transacción completa si aun así se pierde la carrera.
package numbering

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
	"github.com/jhoicas/gestion-fournitures/internal/domain/sequence"
	"github.com/jhoicas/gestion-fournitures/pkg/logger"
)

// DefaultAttempts intentos de una transacción que genera un identificador.
const DefaultAttempts = 3

// Generator genera identificadores legibles.
type Generator struct {
	txRunner repository.TxRunner
	attempts int
	log      *logger.Logger
	now      func() time.Time
}

// NewGenerator construye el generador. attempts < 2 se eleva a 2.
func NewGenerator(txRunner repository.TxRunner, attempts int, log *logger.Logger) *Generator {
	if attempts < 2 {
		attempts = 2
	}
	return &Generator{txRunner: txRunner, attempts: attempts, log: log.Component("numbering"), now: time.Now}
}

// NextSupplyReference siguiente referencia F\d+ dentro de la transacción del caller.
func (g *Generator) NextSupplyReference(ctx context.Context, repos repository.TxRepos) (string, error) {
	if err := repos.Sequences.Lock(ctx, sequence.SupplyReferenceKey); err != nil {
		return "", err
	}
	max, err := repos.Supplies.MaxReferenceNumber(ctx)
	if err != nil {
		return "", err
	}
	return sequence.NextReference(max)
}

// NextOrderNumber siguiente número CMD-YYYY-MM-NNN del mes de now dentro de la transacción del caller.
func (g *Generator) NextOrderNumber(ctx context.Context, repos repository.TxRepos, now time.Time) (string, error) {
	if err := repos.Sequences.Lock(ctx, sequence.OrderNumberKey); err != nil {
		return "", err
	}
	max, err := repos.Orders.MaxNumberSequence(ctx, sequence.OrderNumberPrefix(now))
	if err != nil {
		return "", err
	}
	return sequence.NextOrderNumber(now, max)
}

// PeekSupplyReference referencia que se asignaría ahora (informativa, no reserva).
func (g *Generator) PeekSupplyReference(ctx context.Context) (string, error) {
	var ref string
	err := g.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		max, err := repos.Supplies.MaxReferenceNumber(ctx)
		if err != nil {
			return err
		}
		ref, err = sequence.NextReference(max)
		return err
	})
	return ref, err
}

// PeekOrderNumber número de pedido que se asignaría ahora (informativo, no reserva).
func (g *Generator) PeekOrderNumber(ctx context.Context) (string, error) {
	now := g.now()
	var number string
	err := g.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		max, err := repos.Orders.MaxNumberSequence(ctx, sequence.OrderNumberPrefix(now))
		if err != nil {
			return err
		}
		number, err = sequence.NextOrderNumber(now, max)
		return err
	})
	return number, err
}

// Retry ejecuta fn hasta g.attempts veces mientras falle por identificador duplicado.
// fn debe abrir su propia transacción: tras una violación única la transacción queda abortada.
func (g *Generator) Retry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= g.attempts; attempt++ {
		err = fn(ctx)
		if !IsSequenceConflict(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		g.log.Warn().Err(err).Int("attempt", attempt).Msg("identificador duplicado, reintentando")
	}
	return err
}

// IsSequenceConflict verdadero si err es una carrera perdida por la secuencia.
func IsSequenceConflict(err error) bool {
	return errors.Is(err, domain.ErrDuplicateReference) || errors.Is(err, domain.ErrDuplicateNumber)
}
