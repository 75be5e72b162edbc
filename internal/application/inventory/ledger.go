package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
	"github.com/jhoicas/gestion-fournitures/internal/domain/inventory"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
	"github.com/jhoicas/gestion-fournitures/pkg/logger"
)

const instrumentationName = "github.com/jhoicas/gestion-fournitures/internal/application/inventory"

// StockChangeInput entrada de Receive / Issue / Apply.
type StockChangeInput struct {
	SupplyID string
	Quantity int
	UserID   string
	Notes    string
	OrderID  string                // recepción de pedido (opcional)
	Source   entity.MovementSource // vacío = MANUAL
}

// AdjustStockInput entrada de SetStock (inventario físico).
type AdjustStockInput struct {
	SupplyID string
	Target   int
	UserID   string
	Reason   string
}

// StockLedger único punto de escritura del stock de una fourniture. Cada operación
// bloquea la fila (SELECT FOR UPDATE), valida límites, persiste el stock y agrega
// exactamente un movimiento, todo en una transacción.
type StockLedger struct {
	txRunner  repository.TxRunner
	journal   *MovementJournal
	log       *logger.Logger
	tracer    trace.Tracer
	movements metric.Int64Counter
	now       func() time.Time
}

// NewStockLedger construye el libro de stock.
func NewStockLedger(txRunner repository.TxRunner, journal *MovementJournal, log *logger.Logger) *StockLedger {
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"fournitures.movements",
		metric.WithDescription("movimientos de stock registrados"),
	)
	if err != nil {
		log.Warn().Err(err).Msg("contador de movimientos no disponible")
	}
	return &StockLedger{
		txRunner:  txRunner,
		journal:   journal,
		log:       log.Component("stock_ledger"),
		tracer:    otel.Tracer(instrumentationName),
		movements: counter,
		now:       time.Now,
	}
}

// Receive entrada de stock. Devuelve el stock resultante.
func (l *StockLedger) Receive(ctx context.Context, in StockChangeInput) (int, error) {
	return l.Apply(ctx, entity.MovementEntry, in)
}

// Issue salida de stock. Devuelve el stock resultante.
func (l *StockLedger) Issue(ctx context.Context, in StockChangeInput) (int, error) {
	return l.Apply(ctx, entity.MovementExit, in)
}

// Apply aplica un movimiento ENTRY o EXIT en su propia transacción.
func (l *StockLedger) Apply(ctx context.Context, kind entity.MovementKind, in StockChangeInput) (int, error) {
	ctx, span := l.tracer.Start(ctx, "StockLedger.Apply", trace.WithAttributes(
		attribute.String("supply.id", in.SupplyID),
		attribute.String("movement.kind", string(kind)),
		attribute.Int("movement.quantity", in.Quantity),
	))
	defer span.End()

	if err := checkChange(kind, in); err != nil {
		return 0, l.fail(span, err)
	}

	var (
		supply *entity.Supply
		mov    *entity.Movement
	)
	err := l.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		var err error
		supply, mov, err = l.apply(ctx, repos, kind, in)
		return err
	})
	if err != nil {
		return 0, l.fail(span, err)
	}

	l.record(ctx, mov)
	l.log.Info().
		Str("supply_id", supply.ID).
		Str("kind", string(kind)).
		Int("quantity", in.Quantity).
		Int("stock", supply.Stock()).
		Str("user_id", in.UserID).
		Msg("movimiento registrado")
	return supply.Stock(), nil
}

// ReceiveInTx entrada de stock usando los repositorios de la transacción del caller
// (recepción de pedidos). El caller hace Commit/Rollback.
func (l *StockLedger) ReceiveInTx(ctx context.Context, repos repository.TxRepos, in StockChangeInput) (*entity.Movement, error) {
	if err := checkChange(entity.MovementEntry, in); err != nil {
		return nil, err
	}
	_, mov, err := l.apply(ctx, repos, entity.MovementEntry, in)
	if err != nil {
		return nil, err
	}
	l.record(ctx, mov)
	return mov, nil
}

// SetStock ajusta el stock a target con un único movimiento de ajuste.
func (l *StockLedger) SetStock(ctx context.Context, in AdjustStockInput) (*entity.Movement, error) {
	ctx, span := l.tracer.Start(ctx, "StockLedger.SetStock", trace.WithAttributes(
		attribute.String("supply.id", in.SupplyID),
		attribute.Int("stock.target", in.Target),
	))
	defer span.End()

	if in.Target < 0 {
		return nil, l.fail(span, domain.NewError(domain.ErrInvalidQuantity, "supply", in.SupplyID, map[string]any{"target": in.Target}))
	}

	var (
		mov  *entity.Movement
		prev int
	)
	err := l.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		s, err := repos.Stock.GetForUpdate(ctx, in.SupplyID)
		if err != nil {
			return err
		}
		prev = s.Stock()
		delta := in.Target - prev
		if delta == 0 {
			return domain.NewError(domain.ErrNoOpAdjustment, "supply", s.ID, map[string]any{"stock": prev})
		}
		kind, qty := entity.MovementEntry, delta
		if delta < 0 {
			kind, qty = entity.MovementExit, -delta
		}
		_, mov, err = l.applyLocked(ctx, repos, s, kind, StockChangeInput{
			SupplyID: in.SupplyID,
			Quantity: qty,
			UserID:   in.UserID,
			Notes:    in.Reason,
			Source:   entity.SourceAdjustment,
		})
		return err
	})
	if err != nil {
		return nil, l.fail(span, err)
	}

	l.record(ctx, mov)
	l.log.Info().
		Str("supply_id", in.SupplyID).
		Int("from", prev).
		Int("to", in.Target).
		Str("user_id", in.UserID).
		Msg("stock ajustado")
	return mov, nil
}

// ReorderQuantity cantidad sugerida de pedido para la fourniture, considerando
// los pedidos VALIDATED / IN_TRANSIT.
func (l *StockLedger) ReorderQuantity(ctx context.Context, supplyID string) (int, error) {
	ctx, span := l.tracer.Start(ctx, "StockLedger.ReorderQuantity", trace.WithAttributes(
		attribute.String("supply.id", supplyID),
	))
	defer span.End()

	var qty int
	err := l.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		s, err := repos.Supplies.GetByID(ctx, supplyID)
		if err != nil {
			return err
		}
		pending, err := repos.Orders.SumQuantity(ctx, supplyID, entity.InFlightOrderStatuses)
		if err != nil {
			return err
		}
		qty = inventory.ReorderQuantity(s.Stock(), s.StockMax, s.AlertThreshold, pending)
		return nil
	})
	if err != nil {
		return 0, l.fail(span, err)
	}
	return qty, nil
}

func (l *StockLedger) apply(ctx context.Context, repos repository.TxRepos, kind entity.MovementKind, in StockChangeInput) (*entity.Supply, *entity.Movement, error) {
	// Bloquea la fila de la fourniture hasta Commit/Rollback
	s, err := repos.Stock.GetForUpdate(ctx, in.SupplyID)
	if err != nil {
		return nil, nil, err
	}
	return l.applyLocked(ctx, repos, s, kind, in)
}

func (l *StockLedger) applyLocked(ctx context.Context, repos repository.TxRepos, s *entity.Supply, kind entity.MovementKind, in StockChangeInput) (*entity.Supply, *entity.Movement, error) {
	var err error
	if kind == entity.MovementEntry {
		err = s.ApplyEntry(in.Quantity)
	} else {
		err = s.ApplyExit(in.Quantity)
	}
	if err != nil {
		return nil, nil, err
	}

	now := l.now()
	s.UpdatedAt = now
	if err := repos.Stock.SaveStock(ctx, s); err != nil {
		return nil, nil, err
	}

	source := in.Source
	if source == "" {
		source = entity.SourceManual
	}
	mov := &entity.Movement{
		ID:        uuid.New().String(),
		SupplyID:  s.ID,
		Kind:      kind,
		Source:    source,
		Quantity:  decimal.NewFromInt(int64(in.Quantity)),
		Timestamp: now,
		UserID:    in.UserID,
		Notes:     in.Notes,
		OrderID:   in.OrderID,
	}
	if err := l.journal.appendTo(ctx, repos.Movements, mov); err != nil {
		return nil, nil, err
	}
	return s, mov, nil
}

func (l *StockLedger) record(ctx context.Context, mov *entity.Movement) {
	if l.movements == nil || mov == nil {
		return
	}
	l.movements.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(mov.Kind)),
		attribute.String("source", string(mov.Source)),
	))
}

func (l *StockLedger) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, domain.KindOf(err).Error())
	if !domain.IsBusiness(err) {
		l.log.Error().Err(err).Msg("operación de stock fallida")
	}
	return err
}

func checkChange(kind entity.MovementKind, in StockChangeInput) error {
	if !kind.Valid() {
		return domain.NewError(domain.ErrInvalidMovement, "movement", "", map[string]any{"kind": kind})
	}
	if in.Quantity <= 0 {
		return domain.NewError(domain.ErrInvalidQuantity, "supply", in.SupplyID, map[string]any{"quantity": in.Quantity})
	}
	return nil
}
