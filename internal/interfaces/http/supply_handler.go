package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-fournitures/internal/application/dto"
	"github.com/jhoicas/gestion-fournitures/internal/application/inventory"
	"github.com/jhoicas/gestion-fournitures/internal/application/numbering"
	"github.com/jhoicas/gestion-fournitures/internal/application/usecase"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
	"github.com/jhoicas/gestion-fournitures/pkg/logger"
)

// SupplyTypeHandler tipos de fourniture.
type SupplyTypeHandler struct {
	uc  *usecase.SupplyTypeUseCase
	log *logger.Logger
}

// NewSupplyTypeHandler construye el handler.
func NewSupplyTypeHandler(uc *usecase.SupplyTypeUseCase, log *logger.Logger) *SupplyTypeHandler {
	return &SupplyTypeHandler{uc: uc, log: log}
}

// Create godoc
// @Summary  Crear tipo de fourniture
// @Tags     supply-types
// @Security Bearer
// @Param    body  body  dto.CreateSupplyTypeRequest  true  "name"
// @Success  201  {object}  dto.SupplyTypeResponse
// @Failure  409  {object}  dto.ErrorResponse
// @Router   /api/supply-types [post]
func (h *SupplyTypeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSupplyTypeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *SupplyTypeHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *SupplyTypeHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SupplyHandler catálogo de fournitures.
type SupplyHandler struct {
	uc      *usecase.SupplyUseCase
	ledger  *inventory.StockLedger
	numbers *numbering.Generator
	log     *logger.Logger
}

// NewSupplyHandler construye el handler.
func NewSupplyHandler(uc *usecase.SupplyUseCase, ledger *inventory.StockLedger, numbers *numbering.Generator, log *logger.Logger) *SupplyHandler {
	return &SupplyHandler{uc: uc, ledger: ledger, numbers: numbers, log: log}
}

// Create godoc
// @Summary      Crear fourniture
// @Description  Sin reference se asigna la siguiente (F001, F002, ...). initial_stock > 0 genera un movimiento INITIAL.
// @Tags         supplies
// @Security     Bearer
// @Param        body  body  dto.CreateSupplyRequest  true  "fourniture"
// @Success      201  {object}  dto.SupplyResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/supplies [post]
func (h *SupplyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSupplyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List filtros: type_id, in_alert, active_only, limit, offset.
func (h *SupplyHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), repository.SupplyFilter{
		TypeID:     c.Query("type_id"),
		InAlert:    c.QueryBool("in_alert"),
		ActiveOnly: c.QueryBool("active_only"),
		Limit:      c.QueryInt("limit"),
		Offset:     c.QueryInt("offset"),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *SupplyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *SupplyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSupplyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *SupplyHandler) Deactivate(c *fiber.Ctx) error {
	out, err := h.uc.Deactivate(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *SupplyHandler) Activate(c *fiber.Ctx) error {
	out, err := h.uc.Activate(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// NextReference referencia que se asignaría ahora; no la reserva.
func (h *SupplyHandler) NextReference(c *fiber.Ctx) error {
	ref, err := h.numbers.PeekSupplyReference(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.NextReferenceResponse{Reference: ref})
}

func (h *SupplyHandler) ReorderQuantity(c *fiber.Ctx) error {
	id := c.Params("id")
	qty, err := h.ledger.ReorderQuantity(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.ReorderQuantityResponse{SupplyID: id, Quantity: qty})
}
