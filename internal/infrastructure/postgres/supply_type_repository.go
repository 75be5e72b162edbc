package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
)

var _ repository.SupplyTypeRepository = (*SupplyTypeRepo)(nil)

// SupplyTypeRepo implementación de SupplyTypeRepository sobre PostgreSQL (usable con pool o tx).
type SupplyTypeRepo struct {
	q Querier
}

// NewSupplyTypeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplyTypeRepository(q Querier) *SupplyTypeRepo {
	return &SupplyTypeRepo{q: q}
}

func (r *SupplyTypeRepo) Create(ctx context.Context, t *entity.SupplyType) error {
	query := `INSERT INTO supply_types (id, name, name_key, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, t.ID, t.Name, entity.NormalizeTypeName(t.Name), t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewError(domain.ErrDuplicate, "supply_type", t.Name, map[string]any{
				"constraint": violatedConstraint(err),
			})
		}
		return fmt.Errorf("insert supply type: %w", err)
	}
	return nil
}

func (r *SupplyTypeRepo) GetByID(ctx context.Context, id string) (*entity.SupplyType, error) {
	if !validID(id) {
		return nil, domain.NewError(domain.ErrNotFound, "supply_type", id, nil)
	}
	query := `SELECT id, name, created_at FROM supply_types WHERE id = $1`
	return r.getOne(ctx, query, id, id)
}

// GetByName busca por name_key, la misma clave (entity.NormalizeTypeName) que usa el
// índice único y el almacén en memoria.
func (r *SupplyTypeRepo) GetByName(ctx context.Context, name string) (*entity.SupplyType, error) {
	query := `SELECT id, name, created_at FROM supply_types WHERE name_key = $1`
	return r.getOne(ctx, query, entity.NormalizeTypeName(name), name)
}

func (r *SupplyTypeRepo) getOne(ctx context.Context, query, arg, key string) (*entity.SupplyType, error) {
	var t entity.SupplyType
	err := r.q.QueryRow(ctx, query, arg).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.NewError(domain.ErrNotFound, "supply_type", key, nil)
		}
		return nil, fmt.Errorf("get supply type: %w", err)
	}
	return &t, nil
}

func (r *SupplyTypeRepo) List(ctx context.Context) ([]*entity.SupplyType, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, created_at FROM supply_types ORDER BY name_key`)
	if err != nil {
		return nil, fmt.Errorf("list supply types: %w", err)
	}
	defer rows.Close()
	var out []*entity.SupplyType
	for rows.Next() {
		var t entity.SupplyType
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supply type: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r *SupplyTypeRepo) CountSupplies(ctx context.Context, typeID string) (int, error) {
	if !validID(typeID) {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM supplies WHERE type_id = $1`, typeID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count supplies: %w", err)
	}
	return n, nil
}

func (r *SupplyTypeRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.NewError(domain.ErrNotFound, "supply_type", id, nil)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM supply_types WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewError(domain.ErrConflict, "supply_type", id, nil)
		}
		return fmt.Errorf("delete supply type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, "supply_type", id, nil)
	}
	return nil
}
