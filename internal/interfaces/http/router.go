package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmadesk/stockdesk/internal/infrastructure/memory"
)

// RouterDeps dependencias para el router del backend de desarrollo.
type RouterDeps struct {
	Store         *memory.Store
	JWTSecret     string
	JWTIssuer     string
	JWTExpMinutes int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.Store, deps.JWTSecret, deps.JWTIssuer, deps.JWTExpMinutes)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	productHandler := NewProductHandler(deps.Store)
	protected.Get("/products", productHandler.List)

	movementHandler := NewMovementHandler(deps.Store)
	protected.Post("/movements", movementHandler.Create)
}
