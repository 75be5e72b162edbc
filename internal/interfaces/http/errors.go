package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-fournitures/internal/application/dto"
	"github.com/jhoicas/gestion-fournitures/internal/domain"
	"github.com/jhoicas/gestion-fournitures/pkg/logger"
)

type errorMapping struct {
	status int
	code   string
}

// errorTable tipo de error de dominio -> respuesta HTTP.
var errorTable = map[error]errorMapping{
	domain.ErrNotFound:           {fiber.StatusNotFound, "NOT_FOUND"},
	domain.ErrInvalidInput:       {fiber.StatusBadRequest, "VALIDATION"},
	domain.ErrInvalidQuantity:    {fiber.StatusBadRequest, "INVALID_QUANTITY"},
	domain.ErrInvalidMovement:    {fiber.StatusBadRequest, "INVALID_MOVEMENT"},
	domain.ErrInsufficientStock:  {fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	domain.ErrCapacityExceeded:   {fiber.StatusConflict, "CAPACITY_EXCEEDED"},
	domain.ErrNoOpAdjustment:     {fiber.StatusConflict, "NO_OP_ADJUSTMENT"},
	domain.ErrInvalidTransition:  {fiber.StatusConflict, "INVALID_TRANSITION"},
	domain.ErrDuplicateOpenOrder: {fiber.StatusConflict, "DUPLICATE_OPEN_ORDER"},
	domain.ErrInactiveSupply:     {fiber.StatusConflict, "INACTIVE_SUPPLY"},
	domain.ErrAlreadyReceived:    {fiber.StatusConflict, "ALREADY_RECEIVED"},
	domain.ErrDuplicateReference: {fiber.StatusConflict, "DUPLICATE_REFERENCE"},
	domain.ErrDuplicateNumber:    {fiber.StatusConflict, "DUPLICATE_NUMBER"},
	domain.ErrDuplicate:          {fiber.StatusConflict, "DUPLICATE"},
	domain.ErrConflict:           {fiber.StatusConflict, "CONFLICT"},
	domain.ErrUnauthorized:       {fiber.StatusUnauthorized, "UNAUTHORIZED"},
	domain.ErrForbidden:          {fiber.StatusForbidden, "FORBIDDEN"},
	domain.ErrInfrastructure:     {fiber.StatusInternalServerError, "INTERNAL"},
}

// respondError escribe el error de dominio con su código HTTP. Los errores de
// infraestructura se registran y no exponen el detalle.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	kind := domain.KindOf(err)
	m, ok := errorTable[kind]
	if !ok {
		m = errorTable[domain.ErrInfrastructure]
	}
	if kind == domain.ErrInfrastructure {
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: "error interno"})
	}
	return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
