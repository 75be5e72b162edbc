package ordering_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-fournitures/internal/application/inventory"
	"github.com/jhoicas/gestion-fournitures/internal/application/numbering"
	"github.com/jhoicas/gestion-fournitures/internal/application/ordering"
	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
	"github.com/jhoicas/gestion-fournitures/internal/domain/sequence"
	"github.com/jhoicas/gestion-fournitures/internal/infrastructure/memory"
	"github.com/jhoicas/gestion-fournitures/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type harness struct {
	store   *memory.Store
	journal *inventory.MovementJournal
	ledger  *inventory.StockLedger
	numbers *numbering.Generator
	orders  *ordering.OrderUseCase
	seq     int
}

func newHarness(t *testing.T, opts ordering.Options) *harness {
	t.Helper()
	store := memory.NewStore()
	log := logger.NewNop()
	journal := inventory.NewMovementJournal(store)
	ledger := inventory.NewStockLedger(store, journal, log)
	numbers := numbering.NewGenerator(store, numbering.DefaultAttempts, log)
	h := &harness{
		store:   store,
		journal: journal,
		ledger:  ledger,
		numbers: numbers,
		orders:  ordering.NewOrderUseCase(store, ledger, numbers, opts, log),
	}
	err := store.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		return repos.Types.Create(ctx, &entity.SupplyType{ID: "t-1", Name: "Papeterie"})
	})
	require.NoError(t, err)
	return h
}

func (h *harness) seedSupply(t *testing.T, stock, max, threshold int, active bool) string {
	t.Helper()
	h.seq++
	id := uuid.NewString()
	err := h.store.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		return repos.Supplies.Create(ctx, entity.RestoreSupply(entity.Supply{
			ID:             id,
			TypeID:         "t-1",
			Reference:      fmt.Sprintf("F%03d", h.seq),
			Designation:    "Fourniture",
			Unit:           entity.UnitUnit,
			StockMax:       max,
			AlertThreshold: threshold,
			Active:         active,
		}, stock))
	})
	require.NoError(t, err)
	return id
}

func (h *harness) stock(t *testing.T, supplyID string) int {
	t.Helper()
	var stock int
	err := h.store.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		s, err := repos.Supplies.GetByID(ctx, supplyID)
		if err == nil {
			stock = s.Stock()
		}
		return err
	})
	require.NoError(t, err)
	return stock
}

func (h *harness) create(t *testing.T, supplyID string, qty int) *entity.Order {
	t.Helper()
	o, err := h.orders.Create(context.Background(), ordering.CreateOrderInput{SupplyID: supplyID, Quantity: qty, UserID: "u-1"})
	require.NoError(t, err)
	return o
}

var orderNumberRe = regexp.MustCompile(`^CMD-\d{4}-\d{2}-\d{3}$`)

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestOrder_CicloCompletoAumentaStockUnaVez(t *testing.T) {
	h := newHarness(t, ordering.DefaultOptions)
	ctx := context.Background()
	id := h.seedSupply(t, 2, 20, 5, true)

	o := h.create(t, id, 10)
	assert.Equal(t, entity.OrderPending, o.Status)
	assert.Regexp(t, orderNumberRe, o.Number)
	assert.Equal(t, "u-1", o.CreatedBy)

	_, err := h.orders.Receive(ctx, o.ID, "u-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "un pedido PENDING no se recibe")
	assert.Equal(t, 2, h.stock(t, id))

	o, err = h.orders.Validate(ctx, o.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderValidated, o.Status)
	assert.Equal(t, "admin-1", o.ValidatedBy)

	o, err = h.orders.MarkInTransit(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderInTransit, o.Status)

	o, err = h.orders.Receive(ctx, o.ID, "u-2")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderReceived, o.Status)
	require.NotNil(t, o.ReceivedAt)
	assert.Equal(t, 12, h.stock(t, id))

	_, err = h.orders.Receive(ctx, o.ID, "u-2")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 12, h.stock(t, id), "la recepción aumenta el stock una sola vez")

	movs, err := h.journal.Query(ctx, repository.MovementFilter{OrderID: o.ID})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.SourceOrderReception, movs[0].Source)
	assert.Equal(t, "u-2", movs[0].UserID)
	assert.Contains(t, movs[0].Notes, o.Number)

	_, err = h.orders.Cancel(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyReceived)
}

func TestOrder_RecepcionDirectaDesdeValidado(t *testing.T) {
	h := newHarness(t, ordering.DefaultOptions)
	id := h.seedSupply(t, 0, 10, 2, true)
	o := h.create(t, id, 10)

	_, err := h.orders.Validate(context.Background(), o.ID, "admin")
	require.NoError(t, err)
	_, err = h.orders.Receive(context.Background(), o.ID, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 10, h.stock(t, id))
}

func TestOrder_RecepcionQueExcedeCapacidad(t *testing.T) {
	h := newHarness(t, ordering.DefaultOptions)
	ctx := context.Background()
	id := h.seedSupply(t, 2, 10, 3, true)
	o := h.create(t, id, 8)
	_, err := h.orders.Validate(ctx, o.ID, "admin")
	require.NoError(t, err)

	// el stock sube por otra vía mientras el pedido está en curso
	_, err = h.ledger.Receive(ctx, inventory.StockChangeInput{SupplyID: id, Quantity: 5})
	require.NoError(t, err)

	_, err = h.orders.Receive(ctx, o.ID, "u-1")
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	got, err := h.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderValidated, got.Status, "el pedido queda sin cambios")
	assert.Equal(t, 7, h.stock(t, id))
}

// stockReceiverMock simula un fallo del libro durante la recepción.
type stockReceiverMock struct {
	mock.Mock
}

func (m *stockReceiverMock) ReceiveInTx(ctx context.Context, repos repository.TxRepos, in inventory.StockChangeInput) (*entity.Movement, error) {
	args := m.Called(ctx, repos, in)
	mov, _ := args.Get(0).(*entity.Movement)
	return mov, args.Error(1)
}

func TestOrder_FalloDelLibroDejaElPedidoSinCambios(t *testing.T) {
	h := newHarness(t, ordering.DefaultOptions)
	ctx := context.Background()
	id := h.seedSupply(t, 0, 10, 2, true)
	o := h.create(t, id, 4)
	_, err := h.orders.Validate(ctx, o.ID, "admin")
	require.NoError(t, err)

	boom := errors.New("disco lleno")
	receiver := &stockReceiverMock{}
	receiver.On("ReceiveInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(in inventory.StockChangeInput) bool {
		return in.SupplyID == id && in.Quantity == 4 && in.OrderID == o.ID && in.Source == entity.SourceOrderReception
	})).Return(nil, boom).Once()

	uc := ordering.NewOrderUseCase(h.store, receiver, h.numbers, ordering.DefaultOptions, logger.NewNop())
	_, err = uc.Receive(ctx, o.ID, "u-1")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, domain.ErrInfrastructure, domain.KindOf(err))
	receiver.AssertExpectations(t)

	got, err := h.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderValidated, got.Status)
	assert.Nil(t, got.ReceivedAt)
	assert.Equal(t, 0, h.stock(t, id))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reglas de creación
// ──────────────────────────────────────────────────────────────────────────────

func TestOrderCreate_Reglas(t *testing.T) {
	h := newHarness(t, ordering.DefaultOptions)
	ctx := context.Background()
	id := h.seedSupply(t, 5, 10, 2, true)

	_, err := h.orders.Create(ctx, ordering.CreateOrderInput{SupplyID: id, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	for _, q := range []int{6, math.MaxInt, math.MaxInt - 4} {
		_, err = h.orders.Create(ctx, ordering.CreateOrderInput{SupplyID: id, Quantity: q})
		assert.ErrorIs(t, err, domain.ErrCapacityExceeded, "cantidad %d", q)
	}

	_, err = h.orders.Create(ctx, ordering.CreateOrderInput{SupplyID: "no-existe", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	inactive := h.seedSupply(t, 0, 10, 2, false)
	_, err = h.orders.Create(ctx, ordering.CreateOrderInput{SupplyID: inactive, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInactiveSupply)

	first := h.create(t, id, 5)
	_, err = h.orders.Create(ctx, ordering.CreateOrderInput{SupplyID: id, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicateOpenOrder)

	_, err = h.orders.Cancel(ctx, first.ID)
	require.NoError(t, err)
	second := h.create(t, id, 1)
	assert.NotEqual(t, first.Number, second.Number)
}

func TestOrderCreate_DuplicadosPermitidosPorConfiguracion(t *testing.T) {
	h := newHarness(t, ordering.Options{RejectDuplicateOpenOrders: false})
	id := h.seedSupply(t, 0, 10, 2, true)

	a := h.create(t, id, 3)
	b := h.create(t, id, 3)
	assert.NotEqual(t, a.Number, b.Number)

	_, _, seqA, okA := sequence.ParseOrderNumber(a.Number)
	_, _, seqB, okB := sequence.ParseOrderNumber(b.Number)
	require.True(t, okA && okB)
	assert.Equal(t, seqA+1, seqB, "numeración consecutiva en el mes")
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones, listados y atrasos
// ──────────────────────────────────────────────────────────────────────────────

func TestOrder_TransicionesInvalidas(t *testing.T) {
	h := newHarness(t, ordering.DefaultOptions)
	ctx := context.Background()
	id := h.seedSupply(t, 0, 10, 2, true)
	o := h.create(t, id, 2)

	_, err := h.orders.Cancel(ctx, o.ID)
	require.NoError(t, err)

	_, err = h.orders.Validate(ctx, o.ID, "admin")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = h.orders.MarkInTransit(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = h.orders.Cancel(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = h.orders.Validate(ctx, "no-existe", "admin")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrder_ListPorEstado(t *testing.T) {
	h := newHarness(t, ordering.Options{RejectDuplicateOpenOrders: false})
	ctx := context.Background()
	id := h.seedSupply(t, 0, 20, 2, true)

	a := h.create(t, id, 1)
	b := h.create(t, id, 1)
	_, err := h.orders.Validate(ctx, b.ID, "admin")
	require.NoError(t, err)

	pending, err := h.orders.List(ctx, repository.OrderFilter{Statuses: []entity.OrderStatus{entity.OrderPending}})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, a.ID, pending[0].ID)

	all, err := h.orders.List(ctx, repository.OrderFilter{SupplyID: id})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = h.orders.List(ctx, repository.OrderFilter{Statuses: []entity.OrderStatus{"LOST"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOrder_Atrasados(t *testing.T) {
	h := newHarness(t, ordering.Options{
		RejectDuplicateOpenOrders: false,
		Overdue:                   entity.OverduePolicy{Validated: time.Millisecond, InTransit: time.Hour},
	})
	ctx := context.Background()
	id := h.seedSupply(t, 0, 20, 2, true)

	late := h.create(t, id, 1)
	_, err := h.orders.Validate(ctx, late.ID, "admin")
	require.NoError(t, err)
	onTime := h.create(t, id, 1)
	_, err = h.orders.MarkInTransit(ctx, onTime.ID)
	require.NoError(t, err)
	h.create(t, id, 1) // PENDING

	time.Sleep(5 * time.Millisecond)

	overdue, err := h.orders.Overdue(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].ID)
	assert.True(t, h.orders.IsOverdue(overdue[0]))
}
