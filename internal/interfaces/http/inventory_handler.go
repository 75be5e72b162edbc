package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-fournitures/internal/application/dto"
	"github.com/jhoicas/gestion-fournitures/internal/application/inventory"
	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
	"github.com/jhoicas/gestion-fournitures/pkg/logger"
)

// InventoryHandler maneja las peticiones HTTP de movimientos e inventario (protegido).
type InventoryHandler struct {
	ledger        *inventory.StockLedger
	journal       *inventory.MovementJournal
	replenishment *inventory.ReplenishmentUseCase
	log           *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.StockLedger, journal *inventory.MovementJournal, replenishment *inventory.ReplenishmentUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, journal: journal, replenishment: replenishment, log: log}
}

// Receive godoc
// @Summary  Entrada de stock
// @Tags     inventory
// @Security Bearer
// @Param    id    path  string                       true  "ID de la fourniture"
// @Param    body  body  dto.RegisterMovementRequest  true  "quantity, notes"
// @Success  201  {object}  dto.StockChangeResponse
// @Failure  400  {object}  dto.ErrorResponse
// @Failure  409  {object}  dto.ErrorResponse
// @Router   /api/supplies/{id}/receive [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	return h.stockChange(c, entity.MovementEntry)
}

// Issue godoc
// @Summary  Salida de stock
// @Tags     inventory
// @Security Bearer
// @Param    id    path  string                       true  "ID de la fourniture"
// @Param    body  body  dto.RegisterMovementRequest  true  "quantity, notes"
// @Success  201  {object}  dto.StockChangeResponse
// @Failure  409  {object}  dto.ErrorResponse
// @Router   /api/supplies/{id}/issue [post]
func (h *InventoryHandler) Issue(c *fiber.Ctx) error {
	return h.stockChange(c, entity.MovementExit)
}

func (h *InventoryHandler) stockChange(c *fiber.Ctx, kind entity.MovementKind) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.SupplyID = c.Params("id")
	stock, err := h.ledger.RegisterMovementFromRequest(c.UserContext(), kind, GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StockChangeResponse{SupplyID: in.SupplyID, Stock: stock})
}

// RegisterMovement POST /api/movements con kind ENTRY | EXIT explícito.
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	kind := entity.MovementKind(in.Kind)
	if !kind.Valid() {
		return respondError(c, h.log, domain.NewError(domain.ErrInvalidMovement, "movement", "", map[string]any{"kind": in.Kind}))
	}
	stock, err := h.ledger.RegisterMovementFromRequest(c.UserContext(), kind, GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StockChangeResponse{SupplyID: in.SupplyID, Stock: stock})
}

// Adjust inventario físico: fija el stock a target con un movimiento de ajuste.
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	mov, err := h.ledger.SetStock(c.UserContext(), inventory.AdjustStockInput{
		SupplyID: c.Params("id"),
		Target:   in.Target,
		UserID:   GetUserID(c),
		Reason:   in.Reason,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResponse(mov))
}

// ListMovements filtros: supply_id, order_id, kind, from, to (RFC3339), order=asc, limit, offset.
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	f := repository.MovementFilter{
		SupplyID:  c.Query("supply_id", c.Params("id")),
		OrderID:   c.Query("order_id"),
		Kind:      entity.MovementKind(c.Query("kind")),
		Ascending: c.Query("order") == "asc",
		Limit:     c.QueryInt("limit"),
		Offset:    c.QueryInt("offset"),
	}
	var err error
	if f.From, err = queryTime(c, "from"); err != nil {
		return respondError(c, h.log, err)
	}
	if f.To, err = queryTime(c, "to"); err != nil {
		return respondError(c, h.log, err)
	}
	list, err := h.journal.Query(c.UserContext(), f)
	if err != nil {
		return respondError(c, h.log, err)
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, inventory.ToMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	})
}

// GetReplenishmentList godoc
// @Summary      Lista de fournitures a pedir
// @Description  Fournitures activas en alerta con la cantidad sugerida de pedido, ordenadas por déficit.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        type_id  query  string  false  "Filtrar por tipo"
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), c.Query("type_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}

func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.NewError(domain.ErrInvalidInput, "movement", "", map[string]any{key: raw})
	}
	return &t, nil
}
