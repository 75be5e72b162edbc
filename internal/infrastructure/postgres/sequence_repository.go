package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo bloqueos consultivos de PostgreSQL para las secuencias de identificadores.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Debe recibir una tx: el bloqueo dura lo que la tx.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Lock pg_advisory_xact_lock sobre el hash de key; se libera con Commit/Rollback.
func (r *SequenceRepo) Lock(ctx context.Context, key string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("advisory lock %s: %w", key, err)
	}
	return nil
}
