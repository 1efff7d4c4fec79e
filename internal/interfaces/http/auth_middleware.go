package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/farmadesk/stockdesk/internal/application/dto"
	pkgjwt "github.com/farmadesk/stockdesk/pkg/jwt"
)

// Claves en c.Locals.
const (
	localUsername = "username"
	localRole     = "role"
)

// AuthMiddleware valida el Bearer token y carga username y role en locals.
func AuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "falta el token"})
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "esquema inválido"})
		}
		username, role, err := pkgjwt.Parse(secret, token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(localUsername, username)
		c.Locals(localRole, role)
		return c.Next()
	}
}

// GetUsername devuelve el username cargado por AuthMiddleware.
func GetUsername(c *fiber.Ctx) string {
	if v, ok := c.Locals(localUsername).(string); ok {
		return v
	}
	return ""
}

// GetRole devuelve el rol cargado por AuthMiddleware.
func GetRole(c *fiber.Ctx) string {
	if v, ok := c.Locals(localRole).(string); ok {
		return v
	}
	return ""
}
