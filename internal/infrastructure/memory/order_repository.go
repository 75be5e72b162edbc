package memory

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
	"github.com/jhoicas/gestion-fournitures/internal/domain/sequence"
)

var (
	_ repository.OrderRepository    = (*orderRepo)(nil)
	_ repository.MovementRepository = (*movementRepo)(nil)
)

type orderRepo struct{ st *state }

func (r *orderRepo) Create(_ context.Context, o *entity.Order) error {
	if _, ok := r.st.supplies[o.SupplyID]; !ok {
		return domain.NewError(domain.ErrNotFound, "supply", o.SupplyID, nil)
	}
	for _, existing := range r.st.orders {
		if existing.Number == o.Number {
			return domain.NewError(domain.ErrDuplicateNumber, "order", o.Number, nil)
		}
	}
	r.st.orders[o.ID] = *o
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := r.st.orders[id]
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, "order", id, nil)
	}
	return &o, nil
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) Update(_ context.Context, o *entity.Order) error {
	current, ok := r.st.orders[o.ID]
	if !ok {
		return domain.NewError(domain.ErrNotFound, "order", o.ID, nil)
	}
	next := *o
	next.Number = current.Number
	next.SupplyID = current.SupplyID
	next.Quantity = current.Quantity
	next.CreatedAt = current.CreatedAt
	r.st.orders[o.ID] = next
	return nil
}

func (r *orderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	out := make([]*entity.Order, 0)
	for _, o := range r.st.orders {
		if f.SupplyID != "" && o.SupplyID != f.SupplyID {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, o.Status) {
			continue
		}
		out = append(out, &o)
	}
	slices.SortFunc(out, func(a, b *entity.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.Number, a.Number)
	})
	return page(out, f.Limit, f.Offset), nil
}

func (r *orderRepo) SumQuantity(_ context.Context, supplyID string, statuses []entity.OrderStatus) (int, error) {
	total := 0
	for _, o := range r.st.orders {
		if o.SupplyID == supplyID && slices.Contains(statuses, o.Status) {
			total += o.Quantity
		}
	}
	return total, nil
}

func (r *orderRepo) SumQuantityBySupply(_ context.Context, supplyIDs []string, statuses []entity.OrderStatus) (map[string]int, error) {
	out := make(map[string]int, len(supplyIDs))
	for _, o := range r.st.orders {
		if slices.Contains(supplyIDs, o.SupplyID) && slices.Contains(statuses, o.Status) {
			out[o.SupplyID] += o.Quantity
		}
	}
	return out, nil
}

func (r *orderRepo) MaxNumberSequence(_ context.Context, prefix string) (int, error) {
	max := 0
	for _, o := range r.st.orders {
		suffix, ok := strings.CutPrefix(o.Number, prefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n <= sequence.MaxSequence && n > max {
			max = n
		}
	}
	return max, nil
}

type movementRepo struct{ st *state }

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	if _, ok := r.st.supplies[m.SupplyID]; !ok {
		return domain.NewError(domain.ErrNotFound, "supply", m.SupplyID, nil)
	}
	r.st.movements = append(r.st.movements, *m)
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	for _, m := range r.st.movements {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, domain.NewError(domain.ErrNotFound, "movement", id, nil)
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	out := make([]*entity.Movement, 0)
	for i := range r.st.movements {
		m := r.st.movements[i]
		if f.SupplyID != "" && m.SupplyID != f.SupplyID {
			continue
		}
		if f.OrderID != "" && m.OrderID != f.OrderID {
			continue
		}
		if f.Kind != "" && m.Kind != f.Kind {
			continue
		}
		if f.From != nil && m.Timestamp.Before(*f.From) {
			continue
		}
		if f.To != nil && m.Timestamp.After(*f.To) {
			continue
		}
		out = append(out, &m)
	}
	// orden de inserción como desempate (estable)
	slices.SortStableFunc(out, func(a, b *entity.Movement) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	if !f.Ascending {
		slices.Reverse(out)
	}
	return page(out, f.Limit, f.Offset), nil
}
