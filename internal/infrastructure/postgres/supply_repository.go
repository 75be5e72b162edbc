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

var _ repository.SupplyRepository = (*SupplyRepo)(nil)

const supplyColumns = `id, type_id, reference, designation, unit, stock, stock_max, alert_threshold, active, created_at, updated_at`

// SupplyRepo implementación de SupplyRepository sobre PostgreSQL (usable con pool o tx).
type SupplyRepo struct {
	q Querier
}

// NewSupplyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplyRepository(q Querier) *SupplyRepo {
	return &SupplyRepo{q: q}
}

// Create inserta la fourniture con su stock actual (0 para altas nuevas).
func (r *SupplyRepo) Create(ctx context.Context, s *entity.Supply) error {
	query := `
		INSERT INTO supplies (` + supplyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.TypeID, s.Reference, s.Designation, s.Unit, s.Stock(),
		s.StockMax, s.AlertThreshold, s.Active, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) && violatedConstraint(err) == constraintSupplyReference {
			return domain.NewError(domain.ErrDuplicateReference, "supply", s.Reference, nil)
		}
		if isForeignKeyViolation(err) || isInvalidText(err) {
			return domain.NewError(domain.ErrNotFound, "supply_type", s.TypeID, nil)
		}
		return fmt.Errorf("insert supply: %w", err)
	}
	return nil
}

func (r *SupplyRepo) GetByID(ctx context.Context, id string) (*entity.Supply, error) {
	if !validID(id) {
		return nil, domain.NewError(domain.ErrNotFound, "supply", id, nil)
	}
	return scanSupply(r.q.QueryRow(ctx, `SELECT `+supplyColumns+` FROM supplies WHERE id = $1`, id), id)
}

func (r *SupplyRepo) GetByReference(ctx context.Context, reference string) (*entity.Supply, error) {
	return scanSupply(r.q.QueryRow(ctx, `SELECT `+supplyColumns+` FROM supplies WHERE reference = $1`, reference), reference)
}

// Update no toca stock ni referencia.
func (r *SupplyRepo) Update(ctx context.Context, s *entity.Supply) error {
	query := `
		UPDATE supplies
		SET type_id = $2, designation = $3, unit = $4, stock_max = $5, alert_threshold = $6,
		    active = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.TypeID, s.Designation, s.Unit, s.StockMax, s.AlertThreshold, s.Active, s.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidText(err) {
			return domain.NewError(domain.ErrNotFound, "supply_type", s.TypeID, nil)
		}
		return fmt.Errorf("update supply: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, "supply", s.ID, nil)
	}
	return nil
}

func (r *SupplyRepo) List(ctx context.Context, f repository.SupplyFilter) ([]*entity.Supply, error) {
	var (
		conds []string
		args  []any
	)
	if f.TypeID != "" {
		if !validID(f.TypeID) {
			return nil, nil
		}
		args = append(args, f.TypeID)
		conds = append(conds, fmt.Sprintf("type_id = $%d", len(args)))
	}
	if f.ActiveOnly {
		conds = append(conds, "active")
	}
	if f.InAlert {
		conds = append(conds, "stock <= alert_threshold")
	}
	query := `SELECT ` + supplyColumns + ` FROM supplies`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY length(reference), reference"
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
		return nil, fmt.Errorf("list supplies: %w", err)
	}
	defer rows.Close()
	var out []*entity.Supply
	for rows.Next() {
		s, err := scanSupply(rows, "")
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// MaxReferenceNumber solo considera sufijos de hasta 9 dígitos, igual que sequence.ParseReference.
func (r *SupplyRepo) MaxReferenceNumber(ctx context.Context) (int, error) {
	query := `
		SELECT COALESCE(MAX(substring(reference FROM 2)::bigint), 0)
		FROM supplies WHERE reference ~ '^F[0-9]{1,9}$'`
	var n int64
	if err := r.q.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("max reference: %w", err)
	}
	return int(n), nil
}

func scanSupply(row pgx.Row, key string) (*entity.Supply, error) {
	var (
		s     entity.Supply
		stock int
	)
	err := row.Scan(
		&s.ID, &s.TypeID, &s.Reference, &s.Designation, &s.Unit, &stock,
		&s.StockMax, &s.AlertThreshold, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.NewError(domain.ErrNotFound, "supply", key, nil)
		}
		return nil, fmt.Errorf("scan supply: %w", err)
	}
	return entity.RestoreSupply(s, stock), nil
}
