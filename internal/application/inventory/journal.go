package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
)

// Límites de paginación del historial.
const (
	defaultJournalLimit = 50
	maxJournalLimit     = 500
)

// MovementJournal historial de movimientos: solo agrega y consulta, nunca edita.
type MovementJournal struct {
	txRunner repository.TxRunner
}

// NewMovementJournal construye el diario.
func NewMovementJournal(txRunner repository.TxRunner) *MovementJournal {
	return &MovementJournal{txRunner: txRunner}
}

// Append valida y agrega un movimiento en su propia transacción. Devuelve su id.
func (j *MovementJournal) Append(ctx context.Context, m *entity.Movement) (string, error) {
	err := j.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		return j.appendTo(ctx, repos.Movements, m)
	})
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

// Query lista movimientos filtrados, del más reciente al más antiguo salvo Ascending.
func (j *MovementJournal) Query(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	if f.Kind != "" && !f.Kind.Valid() {
		return nil, domain.NewError(domain.ErrInvalidInput, "movement", "", map[string]any{"kind": f.Kind})
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, domain.NewError(domain.ErrInvalidInput, "movement", "", map[string]any{"from": *f.From, "to": *f.To})
	}
	if f.Limit <= 0 {
		f.Limit = defaultJournalLimit
	}
	if f.Limit > maxJournalLimit {
		f.Limit = maxJournalLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var out []*entity.Movement
	err := j.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		var err error
		out, err = repos.Movements.List(ctx, f)
		return err
	})
	return out, err
}

func (j *MovementJournal) appendTo(ctx context.Context, repo repository.MovementRepository, m *entity.Movement) error {
	if err := validateMovement(m); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Source == "" {
		m.Source = entity.SourceManual
	}
	return repo.Create(ctx, m)
}

func validateMovement(m *entity.Movement) error {
	if m == nil {
		return domain.NewError(domain.ErrInvalidMovement, "movement", "", nil)
	}
	details := map[string]any{}
	switch {
	case !m.Kind.Valid():
		details["kind"] = m.Kind
	case !m.Quantity.IsPositive():
		details["quantity"] = m.Quantity.String()
	case m.SupplyID == "":
		details["supply_id"] = m.SupplyID
	case m.Timestamp.IsZero():
		details["timestamp"] = m.Timestamp
	default:
		return nil
	}
	return domain.NewError(domain.ErrInvalidMovement, "movement", m.ID, details)
}
