package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestion-fournitures/internal/application/dto"
	"github.com/jhoicas/gestion-fournitures/internal/application/inventory"
	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
	"github.com/jhoicas/gestion-fournitures/internal/domain/sequence"
	"github.com/jhoicas/gestion-fournitures/pkg/logger"
)

// StockReceiver entrada de stock dentro de una transacción (stock inicial).
type StockReceiver interface {
	ReceiveInTx(ctx context.Context, repos repository.TxRepos, in inventory.StockChangeInput) (*entity.Movement, error)
}

// ReferenceGenerator asigna referencias F\d+ dentro de una transacción.
type ReferenceGenerator interface {
	NextSupplyReference(ctx context.Context, repos repository.TxRepos) (string, error)
	Retry(ctx context.Context, fn func(ctx context.Context) error) error
}

// SupplyUseCase casos de uso del catálogo de fournitures. Es el punto de entrada
// validado también para importaciones masivas.
type SupplyUseCase struct {
	txRunner repository.TxRunner
	stock    StockReceiver
	refs     ReferenceGenerator
	log      *logger.Logger
}

// NewSupplyUseCase construye el caso de uso.
func NewSupplyUseCase(txRunner repository.TxRunner, stock StockReceiver, refs ReferenceGenerator, log *logger.Logger) *SupplyUseCase {
	return &SupplyUseCase{txRunner: txRunner, stock: stock, refs: refs, log: log.Component("supplies")}
}

// Create crea una fourniture. Sin referencia se asigna la siguiente disponible; un stock
// inicial positivo se registra como movimiento INITIAL en la misma transacción.
func (uc *SupplyUseCase) Create(ctx context.Context, userID string, in dto.CreateSupplyRequest) (*dto.SupplyResponse, error) {
	ref := strings.TrimSpace(in.Reference)
	if ref != "" && !sequence.ValidReference(ref) {
		return nil, domain.NewError(domain.ErrInvalidInput, "supply", ref, map[string]any{"reference": ref})
	}
	if in.InitialStock < 0 {
		return nil, domain.NewError(domain.ErrInvalidQuantity, "supply", ref, map[string]any{"initial_stock": in.InitialStock})
	}

	now := time.Now()
	draft := entity.Supply{
		TypeID:         in.TypeID,
		Reference:      ref,
		Designation:    strings.TrimSpace(in.Designation),
		Unit:           entity.Unit(strings.ToUpper(strings.TrimSpace(in.Unit))),
		StockMax:       in.StockMax,
		AlertThreshold: in.AlertThreshold,
		Active:         true,
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if in.InitialStock > in.StockMax {
		return nil, domain.NewError(domain.ErrCapacityExceeded, "supply", ref, map[string]any{
			"initial_stock": in.InitialStock, "stock_max": in.StockMax,
		})
	}

	var created *entity.Supply
	run := func(ctx context.Context) error {
		return uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
			if _, err := repos.Types.GetByID(ctx, draft.TypeID); err != nil {
				return err
			}
			s := entity.RestoreSupply(draft, 0)
			s.ID = uuid.New().String()
			s.CreatedAt = now
			s.UpdatedAt = now
			if s.Reference == "" {
				next, err := uc.refs.NextSupplyReference(ctx, repos)
				if err != nil {
					return err
				}
				s.Reference = next
			}
			if err := repos.Supplies.Create(ctx, s); err != nil {
				return err
			}
			if in.InitialStock > 0 {
				if _, err := uc.stock.ReceiveInTx(ctx, repos, inventory.StockChangeInput{
					SupplyID: s.ID,
					Quantity: in.InitialStock,
					UserID:   userID,
					Notes:    "Stock initial",
					Source:   entity.SourceInitial,
				}); err != nil {
					return err
				}
				// ReceiveInTx trabaja sobre su propia copia
				s = entity.RestoreSupply(*s, in.InitialStock)
			}
			created = s
			return nil
		})
	}

	var err error
	if ref == "" {
		err = uc.refs.Retry(ctx, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("supply_id", created.ID).
		Str("reference", created.Reference).
		Int("stock", created.Stock()).
		Msg("fourniture creada")
	return ToSupplyResponse(created), nil
}

// GetByID obtiene una fourniture por ID.
func (uc *SupplyUseCase) GetByID(ctx context.Context, id string) (*dto.SupplyResponse, error) {
	var s *entity.Supply
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		var err error
		s, err = repos.Supplies.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToSupplyResponse(s), nil
}

// List lista fournitures por tipo, alerta y estado.
func (uc *SupplyUseCase) List(ctx context.Context, f repository.SupplyFilter) (*dto.SupplyListResponse, error) {
	page := dto.PageRequest{Limit: f.Limit, Offset: f.Offset}
	page.DefaultPage()
	f.Limit, f.Offset = page.Limit, page.Offset

	var supplies []*entity.Supply
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		var err error
		supplies, err = repos.Supplies.List(ctx, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplyResponse, 0, len(supplies))
	for _, s := range supplies {
		items = append(items, *ToSupplyResponse(s))
	}
	return &dto.SupplyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}, nil
}

// Update actualiza los campos editables. El stock y la referencia no se modifican aquí.
func (uc *SupplyUseCase) Update(ctx context.Context, id string, in dto.UpdateSupplyRequest) (*dto.SupplyResponse, error) {
	var updated *entity.Supply
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		s, err := repos.Stock.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if in.TypeID != nil && *in.TypeID != s.TypeID {
			if _, err := repos.Types.GetByID(ctx, *in.TypeID); err != nil {
				return err
			}
			s.TypeID = *in.TypeID
		}
		if in.Designation != nil {
			s.Designation = strings.TrimSpace(*in.Designation)
		}
		if in.Unit != nil {
			s.Unit = entity.Unit(strings.ToUpper(strings.TrimSpace(*in.Unit)))
		}
		if in.StockMax != nil {
			s.StockMax = *in.StockMax
		}
		if in.AlertThreshold != nil {
			s.AlertThreshold = *in.AlertThreshold
		}
		if err := s.Validate(); err != nil {
			return err
		}
		if s.Stock() > s.StockMax {
			return domain.NewError(domain.ErrInvalidInput, "supply", s.Reference, map[string]any{
				"stock": s.Stock(), "stock_max": s.StockMax,
			})
		}
		s.UpdatedAt = time.Now()
		if err := repos.Supplies.Update(ctx, s); err != nil {
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("supply_id", updated.ID).Str("reference", updated.Reference).Msg("fourniture actualizada")
	return ToSupplyResponse(updated), nil
}

// Deactivate baja lógica: solo con stock 0 y sin pedidos abiertos.
func (uc *SupplyUseCase) Deactivate(ctx context.Context, id string) (*dto.SupplyResponse, error) {
	return uc.setActive(ctx, id, false)
}

// Activate reactiva una fourniture.
func (uc *SupplyUseCase) Activate(ctx context.Context, id string) (*dto.SupplyResponse, error) {
	return uc.setActive(ctx, id, true)
}

func (uc *SupplyUseCase) setActive(ctx context.Context, id string, active bool) (*dto.SupplyResponse, error) {
	var out *entity.Supply
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		s, err := repos.Stock.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s.Active == active {
			out = s
			return nil
		}
		if !active {
			if s.Stock() != 0 {
				return domain.NewError(domain.ErrConflict, "supply", s.Reference, map[string]any{"stock": s.Stock()})
			}
			open, err := repos.Orders.List(ctx, repository.OrderFilter{
				SupplyID: s.ID,
				Statuses: entity.OpenOrderStatuses,
				Limit:    1,
			})
			if err != nil {
				return err
			}
			if len(open) > 0 {
				return domain.NewError(domain.ErrConflict, "supply", s.Reference, map[string]any{"order": open[0].Number})
			}
		}
		s.Active = active
		s.UpdatedAt = time.Now()
		if err := repos.Supplies.Update(ctx, s); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("supply_id", out.ID).Bool("active", out.Active).Msg("estado de fourniture actualizado")
	return ToSupplyResponse(out), nil
}

// ToSupplyResponse mapea la entidad al DTO de salida.
func ToSupplyResponse(s *entity.Supply) *dto.SupplyResponse {
	return &dto.SupplyResponse{
		ID:              s.ID,
		TypeID:          s.TypeID,
		Reference:       s.Reference,
		Designation:     s.Designation,
		Unit:            string(s.Unit),
		Stock:           s.Stock(),
		StockMax:        s.StockMax,
		AlertThreshold:  s.AlertThreshold,
		StockPercentage: s.StockPercentage(),
		InAlert:         s.InAlert(),
		Active:          s.Active,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
