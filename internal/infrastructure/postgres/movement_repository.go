package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, supply_id, kind, source, quantity, ts, user_id, notes, order_id`

// MovementRepo diario de movimientos sobre PostgreSQL: INSERT y SELECT, nunca UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `INSERT INTO movements (` + movementColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.SupplyID, m.Kind, m.Source, m.Quantity, m.Timestamp,
		nullable(m.UserID), m.Notes, nullable(m.OrderID),
	)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidText(err) {
			return domain.NewError(domain.ErrNotFound, "supply", m.SupplyID, map[string]any{"order_id": m.OrderID})
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	if !validID(id) {
		return nil, domain.NewError(domain.ErrNotFound, "movement", id, nil)
	}
	return scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id), id)
}

func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	for _, id := range []string{f.SupplyID, f.OrderID} {
		if id != "" && !validID(id) {
			return nil, nil
		}
	}
	if f.SupplyID != "" {
		add("supply_id = $%d", f.SupplyID)
	}
	if f.OrderID != "" {
		add("order_id = $%d", f.OrderID)
	}
	if f.Kind != "" {
		add("kind = $%d", string(f.Kind))
	}
	if f.From != nil {
		add("ts >= $%d", *f.From)
	}
	if f.To != nil {
		add("ts <= $%d", *f.To)
	}

	query := `SELECT ` + movementColumns + ` FROM movements`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if f.Ascending {
		query += " ORDER BY ts ASC, seq ASC"
	} else {
		query += " ORDER BY ts DESC, seq DESC"
	}
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var out []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows, "")
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMovement(row pgx.Row, key string) (*entity.Movement, error) {
	var (
		m               entity.Movement
		userID, orderID *string
	)
	err := row.Scan(&m.ID, &m.SupplyID, &m.Kind, &m.Source, &m.Quantity, &m.Timestamp, &userID, &m.Notes, &orderID)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.NewError(domain.ErrNotFound, "movement", key, nil)
		}
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	m.UserID, m.OrderID = deref(userID), deref(orderID)
	return &m, nil
}
