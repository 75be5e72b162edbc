// Package memory implementa los puertos de persistencia en memoria (tests y STORE_DRIVER=memory).
//
// Las transacciones son serializables: Run toma el mutex del almacén, ejecuta fn sobre una
// copia del estado y la publica solo si fn no devuelve error. Dentro de fn solo deben usarse
// los repositorios recibidos.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type state struct {
	types     map[string]entity.SupplyType
	supplies  map[string]entity.Supply
	orders    map[string]entity.Order
	movements []entity.Movement // solo se agrega
}

func newState() *state {
	return &state{
		types:    map[string]entity.SupplyType{},
		supplies: map[string]entity.Supply{},
		orders:   map[string]entity.Order{},
	}
}

func (s *state) clone() *state {
	return &state{
		types:    maps.Clone(s.types),
		supplies: maps.Clone(s.supplies),
		orders:   maps.Clone(s.orders),
		// capacidad = longitud: un append en la copia nunca pisa el arreglo publicado
		movements: s.movements[:len(s.movements):len(s.movements)],
	}
}

// Store almacén en memoria.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn en una transacción todo-o-nada.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	if err := fn(ctx, reposFor(work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

func reposFor(st *state) repository.TxRepos {
	return repository.TxRepos{
		Types:     &supplyTypeRepo{st: st},
		Supplies:  &supplyRepo{st: st},
		Stock:     &stockRepo{st: st},
		Movements: &movementRepo{st: st},
		Orders:    &orderRepo{st: st},
		Sequences: sequenceRepo{},
	}
}

// sequenceRepo no necesita bloquear: Run ya serializa las transacciones.
type sequenceRepo struct{}

func (sequenceRepo) Lock(ctx context.Context, _ string) error { return ctx.Err() }

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
