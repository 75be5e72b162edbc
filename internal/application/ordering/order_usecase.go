// Package ordering implementa el ciclo de vida de los pedidos de reposición:
// PENDING -> VALIDATED -> IN_TRANSIT -> RECEIVED, y CANCELLED desde cualquier estado abierto.
package ordering

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/gestion-fournitures/internal/application/inventory"
	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
	"github.com/jhoicas/gestion-fournitures/pkg/logger"
)

const instrumentationName = "github.com/jhoicas/gestion-fournitures/internal/application/ordering"

// StockReceiver entrada de stock dentro de la transacción del pedido.
type StockReceiver interface {
	ReceiveInTx(ctx context.Context, repos repository.TxRepos, in inventory.StockChangeInput) (*entity.Movement, error)
}

// NumberGenerator genera números de pedido dentro de una transacción.
type NumberGenerator interface {
	NextOrderNumber(ctx context.Context, repos repository.TxRepos, now time.Time) (string, error)
	Retry(ctx context.Context, fn func(ctx context.Context) error) error
}

// Options reglas configurables.
type Options struct {
	RejectDuplicateOpenOrders bool
	Overdue                   entity.OverduePolicy
}

// DefaultOptions rechaza pedidos abiertos duplicados y usa la política de atraso por defecto.
var DefaultOptions = Options{
	RejectDuplicateOpenOrders: true,
	Overdue:                   entity.DefaultOverduePolicy,
}

// CreateOrderInput entrada de Create.
type CreateOrderInput struct {
	SupplyID string
	Quantity int
	UserID   string
	Notes    string
}

// OrderUseCase casos de uso de pedidos. Cada operación es una transacción.
type OrderUseCase struct {
	txRunner repository.TxRunner
	stock    StockReceiver
	numbers  NumberGenerator
	opts     Options
	log      *logger.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(txRunner repository.TxRunner, stock StockReceiver, numbers NumberGenerator, opts Options, log *logger.Logger) *OrderUseCase {
	if opts.Overdue.Validated <= 0 {
		opts.Overdue.Validated = entity.DefaultOverduePolicy.Validated
	}
	if opts.Overdue.InTransit <= 0 {
		opts.Overdue.InTransit = entity.DefaultOverduePolicy.InTransit
	}
	return &OrderUseCase{
		txRunner: txRunner,
		stock:    stock,
		numbers:  numbers,
		opts:     opts,
		log:      log.Component("orders"),
		tracer:   otel.Tracer(instrumentationName),
		now:      time.Now,
	}
}

// Create crea un pedido PENDING con número generado.
func (uc *OrderUseCase) Create(ctx context.Context, in CreateOrderInput) (*entity.Order, error) {
	ctx, span := uc.tracer.Start(ctx, "OrderUseCase.Create", trace.WithAttributes(
		attribute.String("supply.id", in.SupplyID),
		attribute.Int("order.quantity", in.Quantity),
	))
	defer span.End()

	if in.Quantity <= 0 {
		return nil, uc.fail(span, domain.NewError(domain.ErrInvalidQuantity, "order", "", map[string]any{"quantity": in.Quantity}))
	}

	var order *entity.Order
	err := uc.numbers.Retry(ctx, func(ctx context.Context) error {
		return uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
			var err error
			order, err = uc.create(ctx, repos, in)
			return err
		})
	})
	if err != nil {
		return nil, uc.fail(span, err)
	}

	span.SetAttributes(attribute.String("order.number", order.Number))
	uc.log.Info().
		Str("order_id", order.ID).
		Str("number", order.Number).
		Str("supply_id", order.SupplyID).
		Int("quantity", order.Quantity).
		Msg("pedido creado")
	return order, nil
}

func (uc *OrderUseCase) create(ctx context.Context, repos repository.TxRepos, in CreateOrderInput) (*entity.Order, error) {
	// Bloquea la fourniture: serializa pedidos concurrentes sobre la misma fourniture
	s, err := repos.Stock.GetForUpdate(ctx, in.SupplyID)
	if err != nil {
		return nil, err
	}
	if !s.Active {
		return nil, domain.NewError(domain.ErrInactiveSupply, "supply", s.Reference, nil)
	}
	if uc.opts.RejectDuplicateOpenOrders {
		open, err := repos.Orders.List(ctx, repository.OrderFilter{
			SupplyID: s.ID,
			Statuses: entity.OpenOrderStatuses,
			Limit:    1,
		})
		if err != nil {
			return nil, err
		}
		if len(open) > 0 {
			return nil, domain.NewError(domain.ErrDuplicateOpenOrder, "supply", s.Reference, map[string]any{"order": open[0].Number})
		}
	}
	if !s.Fits(in.Quantity) {
		return nil, domain.NewError(domain.ErrCapacityExceeded, "supply", s.Reference, map[string]any{
			"stock": s.Stock(), "quantity": in.Quantity, "stock_max": s.StockMax,
		})
	}

	now := uc.now()
	number, err := uc.numbers.NextOrderNumber(ctx, repos, now)
	if err != nil {
		return nil, err
	}
	o := &entity.Order{
		ID:        uuid.New().String(),
		SupplyID:  s.ID,
		Quantity:  in.Quantity,
		Number:    number,
		Status:    entity.OrderPending,
		CreatedAt: now,
		CreatedBy: in.UserID,
		Notes:     in.Notes,
	}
	if err := repos.Orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate PENDING -> VALIDATED.
func (uc *OrderUseCase) Validate(ctx context.Context, orderID, userID string) (*entity.Order, error) {
	return uc.transition(ctx, "OrderUseCase.Validate", orderID, func(o *entity.Order, now time.Time) error {
		return o.Validate(userID, now)
	})
}

// MarkInTransit PENDING|VALIDATED -> IN_TRANSIT.
func (uc *OrderUseCase) MarkInTransit(ctx context.Context, orderID string) (*entity.Order, error) {
	return uc.transition(ctx, "OrderUseCase.MarkInTransit", orderID, func(o *entity.Order, now time.Time) error {
		return o.MarkInTransit(now)
	})
}

// Cancel cualquier estado abierto -> CANCELLED. Sin efecto sobre el stock.
func (uc *OrderUseCase) Cancel(ctx context.Context, orderID string) (*entity.Order, error) {
	return uc.transition(ctx, "OrderUseCase.Cancel", orderID, func(o *entity.Order, now time.Time) error {
		return o.Cancel(now)
	})
}

func (uc *OrderUseCase) transition(ctx context.Context, op, orderID string, apply func(*entity.Order, time.Time) error) (*entity.Order, error) {
	ctx, span := uc.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		o, err := repos.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := apply(o, uc.now()); err != nil {
			return err
		}
		if err := repos.Orders.Update(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, uc.fail(span, err)
	}

	uc.log.Info().
		Str("order_id", order.ID).
		Str("number", order.Number).
		Str("status", string(order.Status)).
		Msg("estado de pedido actualizado")
	return order, nil
}

// Receive recibe el pedido: entrada de stock con referencia al pedido y paso a RECEIVED,
// en una sola transacción. Si la entrada falla el pedido queda sin cambios.
func (uc *OrderUseCase) Receive(ctx context.Context, orderID, userID string) (*entity.Order, error) {
	ctx, span := uc.tracer.Start(ctx, "OrderUseCase.Receive", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	var (
		order *entity.Order
		mov   *entity.Movement
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		o, err := repos.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := o.CanReceive(); err != nil {
			return err
		}
		mov, err = uc.stock.ReceiveInTx(ctx, repos, inventory.StockChangeInput{
			SupplyID: o.SupplyID,
			Quantity: o.Quantity,
			UserID:   userID,
			Notes:    "Réception commande " + o.Number,
			OrderID:  o.ID,
			Source:   entity.SourceOrderReception,
		})
		if err != nil {
			return err
		}
		if err := o.MarkReceived(uc.now()); err != nil {
			return err
		}
		if err := repos.Orders.Update(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, uc.fail(span, err)
	}

	uc.log.Info().
		Str("order_id", order.ID).
		Str("number", order.Number).
		Str("movement_id", mov.ID).
		Int("quantity", order.Quantity).
		Msg("pedido recibido")
	return order, nil
}

// Get obtiene un pedido por ID.
func (uc *OrderUseCase) Get(ctx context.Context, orderID string) (*entity.Order, error) {
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		var err error
		order, err = repos.Orders.GetByID(ctx, orderID)
		return err
	})
	return order, err
}

// List lista pedidos (más recientes primero).
func (uc *OrderUseCase) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	for _, st := range f.Statuses {
		if !validStatus(st) {
			return nil, domain.NewError(domain.ErrInvalidInput, "order", "", map[string]any{"status": st})
		}
	}
	var out []*entity.Order
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		var err error
		out, err = repos.Orders.List(ctx, f)
		return err
	})
	return out, err
}

// Overdue pedidos VALIDATED / IN_TRANSIT atrasados según la política configurada.
func (uc *OrderUseCase) Overdue(ctx context.Context) ([]*entity.Order, error) {
	orders, err := uc.List(ctx, repository.OrderFilter{Statuses: entity.InFlightOrderStatuses})
	if err != nil {
		return nil, err
	}
	now := uc.now()
	out := make([]*entity.Order, 0, len(orders))
	for _, o := range orders {
		if uc.opts.Overdue.IsOverdue(o, now) {
			out = append(out, o)
		}
	}
	return out, nil
}

// IsOverdue evalúa un pedido con la política configurada.
func (uc *OrderUseCase) IsOverdue(o *entity.Order) bool {
	return uc.opts.Overdue.IsOverdue(o, uc.now())
}

func (uc *OrderUseCase) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, domain.KindOf(err).Error())
	if !domain.IsBusiness(err) {
		uc.log.Error().Err(err).Msg("operación de pedido fallida")
	}
	return err
}

func validStatus(s entity.OrderStatus) bool {
	switch s {
	case entity.OrderPending, entity.OrderValidated, entity.OrderInTransit, entity.OrderReceived, entity.OrderCancelled:
		return true
	}
	return false
}
