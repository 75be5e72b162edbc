package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo escritura del stock de fournitures (usable solo con tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar la tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// GetForUpdate obtiene la fourniture y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, supplyID string) (*entity.Supply, error) {
	if !validID(supplyID) {
		return nil, domain.NewError(domain.ErrNotFound, "supply", supplyID, nil)
	}
	query := `SELECT ` + supplyColumns + ` FROM supplies WHERE id = $1 FOR UPDATE`
	return scanSupply(r.q.QueryRow(ctx, query, supplyID), supplyID)
}

// SaveStock persiste el stock. La CHECK de la tabla respalda 0 <= stock <= stock_max.
func (r *StockRepo) SaveStock(ctx context.Context, s *entity.Supply) error {
	query := `UPDATE supplies SET stock = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Stock(), s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, "supply", s.ID, nil)
	}
	return nil
}
