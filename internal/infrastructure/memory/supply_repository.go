package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
	"github.com/jhoicas/gestion-fournitures/internal/domain/sequence"
)

var (
	_ repository.SupplyTypeRepository = (*supplyTypeRepo)(nil)
	_ repository.SupplyRepository     = (*supplyRepo)(nil)
	_ repository.StockRepository      = (*stockRepo)(nil)
)

type supplyTypeRepo struct{ st *state }

func (r *supplyTypeRepo) Create(_ context.Context, t *entity.SupplyType) error {
	key := entity.NormalizeTypeName(t.Name)
	for _, existing := range r.st.types {
		if entity.NormalizeTypeName(existing.Name) == key {
			return domain.NewError(domain.ErrDuplicate, "supply_type", t.Name, nil)
		}
	}
	r.st.types[t.ID] = *t
	return nil
}

func (r *supplyTypeRepo) GetByID(_ context.Context, id string) (*entity.SupplyType, error) {
	t, ok := r.st.types[id]
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, "supply_type", id, nil)
	}
	return &t, nil
}

func (r *supplyTypeRepo) GetByName(_ context.Context, name string) (*entity.SupplyType, error) {
	key := entity.NormalizeTypeName(name)
	for _, t := range r.st.types {
		if entity.NormalizeTypeName(t.Name) == key {
			return &t, nil
		}
	}
	return nil, domain.NewError(domain.ErrNotFound, "supply_type", name, nil)
}

func (r *supplyTypeRepo) List(_ context.Context) ([]*entity.SupplyType, error) {
	out := make([]*entity.SupplyType, 0, len(r.st.types))
	for _, t := range r.st.types {
		out = append(out, &t)
	}
	slices.SortFunc(out, func(a, b *entity.SupplyType) int {
		return strings.Compare(entity.NormalizeTypeName(a.Name), entity.NormalizeTypeName(b.Name))
	})
	return out, nil
}

func (r *supplyTypeRepo) CountSupplies(_ context.Context, typeID string) (int, error) {
	n := 0
	for _, s := range r.st.supplies {
		if s.TypeID == typeID {
			n++
		}
	}
	return n, nil
}

func (r *supplyTypeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.st.types[id]; !ok {
		return domain.NewError(domain.ErrNotFound, "supply_type", id, nil)
	}
	// equivalente a la FK ON DELETE RESTRICT
	if n, _ := r.CountSupplies(ctx, id); n > 0 {
		return domain.NewError(domain.ErrConflict, "supply_type", id, map[string]any{"supplies": n})
	}
	delete(r.st.types, id)
	return nil
}

type supplyRepo struct{ st *state }

func (r *supplyRepo) Create(_ context.Context, s *entity.Supply) error {
	if _, ok := r.st.types[s.TypeID]; !ok {
		return domain.NewError(domain.ErrNotFound, "supply_type", s.TypeID, nil)
	}
	for _, existing := range r.st.supplies {
		if existing.Reference == s.Reference {
			return domain.NewError(domain.ErrDuplicateReference, "supply", s.Reference, nil)
		}
	}
	r.st.supplies[s.ID] = *s
	return nil
}

func (r *supplyRepo) GetByID(_ context.Context, id string) (*entity.Supply, error) {
	s, ok := r.st.supplies[id]
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, "supply", id, nil)
	}
	return &s, nil
}

func (r *supplyRepo) GetByReference(_ context.Context, reference string) (*entity.Supply, error) {
	for _, s := range r.st.supplies {
		if s.Reference == reference {
			return &s, nil
		}
	}
	return nil, domain.NewError(domain.ErrNotFound, "supply", reference, nil)
}

// Update conserva el stock almacenado: solo SaveStock lo cambia.
func (r *supplyRepo) Update(_ context.Context, s *entity.Supply) error {
	current, ok := r.st.supplies[s.ID]
	if !ok {
		return domain.NewError(domain.ErrNotFound, "supply", s.ID, nil)
	}
	next := entity.RestoreSupply(*s, current.Stock())
	next.Reference = current.Reference
	next.CreatedAt = current.CreatedAt
	r.st.supplies[s.ID] = *next
	return nil
}

func (r *supplyRepo) List(_ context.Context, f repository.SupplyFilter) ([]*entity.Supply, error) {
	out := make([]*entity.Supply, 0, len(r.st.supplies))
	for _, s := range r.st.supplies {
		if f.TypeID != "" && s.TypeID != f.TypeID {
			continue
		}
		if f.ActiveOnly && !s.Active {
			continue
		}
		if f.InAlert && !s.InAlert() {
			continue
		}
		out = append(out, &s)
	}
	slices.SortFunc(out, func(a, b *entity.Supply) int { return compareReferences(a.Reference, b.Reference) })
	return page(out, f.Limit, f.Offset), nil
}

func (r *supplyRepo) MaxReferenceNumber(_ context.Context) (int, error) {
	max := 0
	for _, s := range r.st.supplies {
		if n, ok := sequence.ParseReference(s.Reference); ok && n > max {
			max = n
		}
	}
	return max, nil
}

// compareReferences ordena F2 antes que F10.
func compareReferences(a, b string) int {
	na, okA := sequence.ParseReference(a)
	nb, okB := sequence.ParseReference(b)
	if okA && okB && na != nb {
		if na < nb {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

type stockRepo struct{ st *state }

// GetForUpdate no bloquea: la transacción en memoria ya es exclusiva.
func (r *stockRepo) GetForUpdate(_ context.Context, supplyID string) (*entity.Supply, error) {
	s, ok := r.st.supplies[supplyID]
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, "supply", supplyID, nil)
	}
	return &s, nil
}

func (r *stockRepo) SaveStock(_ context.Context, s *entity.Supply) error {
	current, ok := r.st.supplies[s.ID]
	if !ok {
		return domain.NewError(domain.ErrNotFound, "supply", s.ID, nil)
	}
	next := entity.RestoreSupply(current, s.Stock())
	next.UpdatedAt = s.UpdatedAt
	r.st.supplies[s.ID] = *next
	return nil
}
