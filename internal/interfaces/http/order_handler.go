package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-fournitures/internal/application/dto"
	"github.com/jhoicas/gestion-fournitures/internal/application/numbering"
	"github.com/jhoicas/gestion-fournitures/internal/application/ordering"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
	"github.com/jhoicas/gestion-fournitures/pkg/logger"
)

// OrderHandler pedidos de reposición.
type OrderHandler struct {
	uc      *ordering.OrderUseCase
	numbers *numbering.Generator
	log     *logger.Logger
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *ordering.OrderUseCase, numbers *numbering.Generator, log *logger.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, numbers: numbers, log: log}
}

// Create godoc
// @Summary  Crear pedido
// @Tags     orders
// @Security Bearer
// @Param    body  body  dto.CreateOrderRequest  true  "supply_id, quantity"
// @Success  201  {object}  dto.OrderResponse
// @Failure  409  {object}  dto.ErrorResponse
// @Router   /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	o, err := h.uc.Create(c.UserContext(), ordering.CreateOrderInput{
		SupplyID: in.SupplyID,
		Quantity: in.Quantity,
		UserID:   GetUserID(c),
		Notes:    in.Notes,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.toResponse(o))
}

// List filtros: supply_id, status (separados por coma), limit, offset.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	f := repository.OrderFilter{
		SupplyID: c.Query("supply_id"),
		Limit:    c.QueryInt("limit"),
		Offset:   c.QueryInt("offset"),
	}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			f.Statuses = append(f.Statuses, entity.OrderStatus(strings.ToUpper(strings.TrimSpace(s))))
		}
	}
	orders, err := h.uc.List(c.UserContext(), f)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.OrderListResponse{
		Items: h.toResponses(orders),
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	})
}

func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	o, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(h.toResponse(o))
}

// Validate solo admin (ver router).
func (h *OrderHandler) Validate(c *fiber.Ctx) error {
	return h.reply(c)(h.uc.Validate(c.UserContext(), c.Params("id"), GetUserID(c)))
}

func (h *OrderHandler) MarkInTransit(c *fiber.Ctx) error {
	return h.reply(c)(h.uc.MarkInTransit(c.UserContext(), c.Params("id")))
}

// Receive godoc
// @Summary      Recibir pedido
// @Description  Entrada de stock por la cantidad del pedido y paso a RECEIVED en una sola transacción.
// @Tags         orders
// @Security     Bearer
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receive [post]
func (h *OrderHandler) Receive(c *fiber.Ctx) error {
	return h.reply(c)(h.uc.Receive(c.UserContext(), c.Params("id"), GetUserID(c)))
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	return h.reply(c)(h.uc.Cancel(c.UserContext(), c.Params("id")))
}

// Overdue pedidos atrasados.
func (h *OrderHandler) Overdue(c *fiber.Ctx) error {
	orders, err := h.uc.Overdue(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"total": len(orders), "orders": h.toResponses(orders)})
}

// NextNumber número que se asignaría ahora; no lo reserva.
func (h *OrderHandler) NextNumber(c *fiber.Ctx) error {
	n, err := h.numbers.PeekOrderNumber(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"number": n})
}

func (h *OrderHandler) reply(c *fiber.Ctx) func(*entity.Order, error) error {
	return func(o *entity.Order, err error) error {
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.JSON(h.toResponse(o))
	}
}

func (h *OrderHandler) toResponses(orders []*entity.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, h.toResponse(o))
	}
	return out
}

func (h *OrderHandler) toResponse(o *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:          o.ID,
		SupplyID:    o.SupplyID,
		Number:      o.Number,
		Quantity:    o.Quantity,
		Status:      string(o.Status),
		Overdue:     h.uc.IsOverdue(o),
		CreatedAt:   o.CreatedAt,
		ValidatedAt: o.ValidatedAt,
		InTransitAt: o.InTransitAt,
		ReceivedAt:  o.ReceivedAt,
		CancelledAt: o.CancelledAt,
		CreatedBy:   o.CreatedBy,
		ValidatedBy: o.ValidatedBy,
		Notes:       o.Notes,
	}
}
