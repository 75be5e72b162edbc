package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, supply_id, number, quantity, status, created_at, validated_at, in_transit_at,
	received_at, cancelled_at, created_by, validated_by, notes`

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.SupplyID, o.Number, o.Quantity, o.Status, o.CreatedAt, o.ValidatedAt, o.InTransitAt,
		o.ReceivedAt, o.CancelledAt, nullable(o.CreatedBy), nullable(o.ValidatedBy), o.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) && violatedConstraint(err) == constraintOrderNumber {
			return domain.NewError(domain.ErrDuplicateNumber, "order", o.Number, nil)
		}
		if isForeignKeyViolation(err) || isInvalidText(err) {
			return domain.NewError(domain.ErrNotFound, "supply", o.SupplyID, nil)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	if !validID(id) {
		return nil, domain.NewError(domain.ErrNotFound, "order", id, nil)
	}
	return scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id), id)
}

// GetForUpdate obtiene el pedido y bloquea la fila (SELECT FOR UPDATE).
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	if !validID(id) {
		return nil, domain.NewError(domain.ErrNotFound, "order", id, nil)
	}
	return scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id), id)
}

// Update persiste estado y fechas; número, fourniture y cantidad son inmutables.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders
		SET status = $2, validated_at = $3, in_transit_at = $4, received_at = $5, cancelled_at = $6,
		    validated_by = $7, notes = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		o.ID, o.Status, o.ValidatedAt, o.InTransitAt, o.ReceivedAt, o.CancelledAt,
		nullable(o.ValidatedBy), o.Notes,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, "order", o.ID, nil)
	}
	return nil
}

func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var (
		conds []string
		args  []any
	)
	if f.SupplyID != "" {
		if !validID(f.SupplyID) {
			return nil, nil
		}
		args = append(args, f.SupplyID)
		conds = append(conds, fmt.Sprintf("supply_id = $%d", len(args)))
	}
	if len(f.Statuses) > 0 {
		args = append(args, statusStrings(f.Statuses))
		conds = append(conds, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, number DESC"
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
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var out []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows, "")
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrderRepo) SumQuantity(ctx context.Context, supplyID string, statuses []entity.OrderStatus) (int, error) {
	if !validID(supplyID) {
		return 0, nil
	}
	query := `SELECT COALESCE(SUM(quantity), 0) FROM orders WHERE supply_id = $1 AND status = ANY($2)`
	var n int64
	if err := r.q.QueryRow(ctx, query, supplyID, statusStrings(statuses)).Scan(&n); err != nil {
		return 0, fmt.Errorf("sum order quantity: %w", err)
	}
	return int(n), nil
}

func (r *OrderRepo) SumQuantityBySupply(ctx context.Context, supplyIDs []string, statuses []entity.OrderStatus) (map[string]int, error) {
	out := make(map[string]int, len(supplyIDs))
	if len(supplyIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT supply_id, SUM(quantity)
		FROM orders WHERE supply_id = ANY($1::uuid[]) AND status = ANY($2)
		GROUP BY supply_id`
	rows, err := r.q.Query(ctx, query, supplyIDs, statusStrings(statuses))
	if err != nil {
		return nil, fmt.Errorf("sum order quantity by supply: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id string
			n  int64
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan order sum: %w", err)
		}
		out[id] = int(n)
	}
	return out, rows.Err()
}

// MaxNumberSequence mayor sufijo numérico entre los números que empiezan por prefix.
func (r *OrderRepo) MaxNumberSequence(ctx context.Context, prefix string) (int, error) {
	query := `
		SELECT COALESCE(MAX(substring(number FROM length($1::text) + 1)::bigint), 0)
		FROM orders
		WHERE starts_with(number, $1::text) AND substring(number FROM length($1::text) + 1) ~ '^[0-9]{1,9}$'`
	var n int64
	if err := r.q.QueryRow(ctx, query, prefix).Scan(&n); err != nil {
		return 0, fmt.Errorf("max order number: %w", err)
	}
	return int(n), nil
}

func scanOrder(row pgx.Row, key string) (*entity.Order, error) {
	var (
		o                        entity.Order
		createdBy, validatedBy   *string
		validatedAt, inTransitAt *time.Time
		receivedAt, cancelledAt  *time.Time
	)
	err := row.Scan(
		&o.ID, &o.SupplyID, &o.Number, &o.Quantity, &o.Status, &o.CreatedAt, &validatedAt, &inTransitAt,
		&receivedAt, &cancelledAt, &createdBy, &validatedBy, &o.Notes,
	)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.NewError(domain.ErrNotFound, "order", key, nil)
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	o.ValidatedAt, o.InTransitAt, o.ReceivedAt, o.CancelledAt = validatedAt, inTransitAt, receivedAt, cancelledAt
	o.CreatedBy, o.ValidatedBy = deref(createdBy), deref(validatedBy)
	return &o, nil
}

func statusStrings(statuses []entity.OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
