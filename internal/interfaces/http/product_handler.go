package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmadesk/stockdesk/internal/infrastructure/memory"
)

// ProductHandler expone el catálogo de productos con stock.
type ProductHandler struct {
	store *memory.Store
}

// NewProductHandler construye el handler.
func NewProductHandler(store *memory.Store) *ProductHandler {
	return &ProductHandler{store: store}
}

// List devuelve el catálogo, filtrado opcionalmente por ?q=subcadena.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.store.ListProducts(c.Query("q")))
}
