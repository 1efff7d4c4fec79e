package dto

import (
	"github.com/shopspring/decimal"

	"github.com/farmadesk/stockdesk/internal/domain/movement"
)

// MovementLineRequest renglón serializado de un movimiento.
type MovementLineRequest struct {
	ProductID      int64            `json:"product_id"`
	Quantity       int              `json:"quantity"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	BatchNumber    string           `json:"batch_number,omitempty"`
	ExpirationDate string           `json:"expiration_date,omitempty"` // YYYY-MM-DD
}

// CreateMovementRequest body para POST /api/movements. Provider y
// PaymentMethod viajan según el tipo (proveedor en entradas, método de pago
// en ventas).
type CreateMovementRequest struct {
	Type          string                `json:"type"` // entry | sale | adjustment | return
	ProviderID    *int64                `json:"provider_id,omitempty"`
	PaymentMethod string                `json:"payment_method,omitempty"`
	Lines         []MovementLineRequest `json:"lines"`
}

// StockConflictResponse body del 409 INSUFFICIENT_STOCK: la lista de renglones
// rechazados con su motivo y el stock realmente disponible al commit.
type StockConflictResponse struct {
	Code     string                  `json:"code"`
	Message  string                  `json:"message"`
	Rejected []movement.RejectedLine `json:"rejected"`
}

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse token emitido por el backend.
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}
