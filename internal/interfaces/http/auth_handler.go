package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmadesk/stockdesk/internal/application/dto"
	"github.com/farmadesk/stockdesk/internal/infrastructure/memory"
	pkgjwt "github.com/farmadesk/stockdesk/pkg/jwt"
)

// AuthHandler maneja el login contra las cuentas sembradas.
type AuthHandler struct {
	store      *memory.Store
	jwtSecret  string
	jwtIssuer  string
	expMinutes int
}

// NewAuthHandler construye el handler.
func NewAuthHandler(store *memory.Store, secret, issuer string, expMinutes int) *AuthHandler {
	return &AuthHandler{store: store, jwtSecret: secret, jwtIssuer: issuer, expMinutes: expMinutes}
}

// Login valida credenciales y emite un JWT.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	user, err := h.store.Authenticate(in.Username, in.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	}
	token, err := pkgjwt.Generate(h.jwtSecret, user.Username, user.Role, h.jwtIssuer, h.expMinutes)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.LoginResponse{Token: token, Role: user.Role})
}
