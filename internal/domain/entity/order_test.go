package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
)

var t0 = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func pendingOrder() *entity.Order {
	return &entity.Order{ID: "o-1", SupplyID: "s-1", Quantity: 5, Number: "CMD-2024-03-001", Status: entity.OrderPending, CreatedAt: t0}
}

func TestOrder_CicloCompleto(t *testing.T) {
	o := pendingOrder()
	assert.True(t, o.IsOpen())

	require.NoError(t, o.Validate("admin-1", t0))
	assert.Equal(t, entity.OrderValidated, o.Status)
	assert.Equal(t, "admin-1", o.ValidatedBy)
	require.NotNil(t, o.ValidatedAt)

	require.NoError(t, o.MarkInTransit(t0.Add(time.Hour)))
	assert.Equal(t, entity.OrderInTransit, o.Status)

	require.NoError(t, o.MarkReceived(t0.Add(2*time.Hour)))
	assert.Equal(t, entity.OrderReceived, o.Status)
	assert.False(t, o.IsOpen())
	require.NotNil(t, o.ReceivedAt)
}

func TestOrder_PendienteDirectoEnTransito(t *testing.T) {
	o := pendingOrder()
	require.NoError(t, o.MarkInTransit(t0))
	assert.Equal(t, entity.OrderInTransit, o.Status)
}

func TestOrder_RecibirPendienteEsInvalido(t *testing.T) {
	o := pendingOrder()
	assert.ErrorIs(t, o.CanReceive(), domain.ErrInvalidTransition)
	assert.ErrorIs(t, o.MarkReceived(t0), domain.ErrInvalidTransition)
	assert.Equal(t, entity.OrderPending, o.Status)
	assert.Nil(t, o.ReceivedAt)
}

func TestOrder_TransicionesInvalidas(t *testing.T) {
	o := pendingOrder()
	require.NoError(t, o.Validate("a", t0))
	assert.ErrorIs(t, o.Validate("a", t0), domain.ErrInvalidTransition, "no se valida dos veces")

	require.NoError(t, o.MarkInTransit(t0))
	assert.ErrorIs(t, o.MarkInTransit(t0), domain.ErrInvalidTransition)
}

func TestOrder_Cancelar(t *testing.T) {
	for _, prepare := range []func(o *entity.Order){
		func(o *entity.Order) {},
		func(o *entity.Order) { _ = o.Validate("a", t0) },
		func(o *entity.Order) { _ = o.MarkInTransit(t0) },
	} {
		o := pendingOrder()
		prepare(o)
		require.NoError(t, o.Cancel(t0))
		assert.Equal(t, entity.OrderCancelled, o.Status)
		require.NotNil(t, o.CancelledAt)
	}

	received := pendingOrder()
	require.NoError(t, received.MarkInTransit(t0))
	require.NoError(t, received.MarkReceived(t0))
	assert.ErrorIs(t, received.Cancel(t0), domain.ErrAlreadyReceived)
	assert.Equal(t, entity.OrderReceived, received.Status)

	cancelled := pendingOrder()
	require.NoError(t, cancelled.Cancel(t0))
	assert.ErrorIs(t, cancelled.Cancel(t0), domain.ErrInvalidTransition)
}

func TestOverduePolicy(t *testing.T) {
	p := entity.OverduePolicy{Validated: 7 * 24 * time.Hour, InTransit: 3 * 24 * time.Hour}

	o := pendingOrder()
	assert.False(t, p.IsOverdue(o, t0.Add(30*24*time.Hour)), "un pedido pendiente nunca está atrasado")

	require.NoError(t, o.Validate("a", t0))
	assert.False(t, p.IsOverdue(o, t0.Add(7*24*time.Hour)))
	assert.True(t, p.IsOverdue(o, t0.Add(7*24*time.Hour+time.Minute)))

	require.NoError(t, o.MarkInTransit(t0))
	assert.False(t, p.IsOverdue(o, t0.Add(2*24*time.Hour)))
	assert.True(t, p.IsOverdue(o, t0.Add(4*24*time.Hour)))
	assert.True(t, o.IsOverdue(t0.Add(4*24*time.Hour)), "la política por defecto usa 3 días en tránsito")
}
