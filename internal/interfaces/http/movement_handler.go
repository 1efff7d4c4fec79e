package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/farmadesk/stockdesk/internal/application/dto"
	"github.com/farmadesk/stockdesk/internal/domain"
	"github.com/farmadesk/stockdesk/internal/infrastructure/memory"
)

// MovementHandler recibe movimientos de stock (protegido).
type MovementHandler struct {
	store *memory.Store
}

// NewMovementHandler construye el handler.
func NewMovementHandler(store *memory.Store) *MovementHandler {
	return &MovementHandler{store: store}
}

// Create aplica el movimiento completo o lo rechaza completo. Un rechazo por
// stock sale como 409 INSUFFICIENT_STOCK con la lista de renglones rechazados;
// es el código distinguido sobre el que el cliente ramifica la reconciliación.
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rejected, err := h.store.ApplyMovement(in)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			return c.Status(fiber.StatusConflict).JSON(dto.StockConflictResponse{
				Code:     "INSUFFICIENT_STOCK",
				Message:  "stock insuficiente",
				Rejected: rejected,
			})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "movimiento registrado"})
}
