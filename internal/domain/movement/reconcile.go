package movement

import (
	"fmt"
	"strings"

	"github.com/farmadesk/stockdesk/internal/domain"
)

// RejectedLine es un renglón rechazado por el servidor al confirmar un
// movimiento: el stock disponible al momento del commit no alcanzó.
type RejectedLine struct {
	ProductID int64  `json:"product_id"`
	Reason    string `json:"reason"`
	Available int    `json:"available"`
}

// StockConflictError es el rechazo distinguido del servidor por stock
// insuficiente. La lista del servidor es autoritativa: las fotos de stock del
// cliente pueden estar viejas si otro usuario movió inventario en el medio.
type StockConflictError struct {
	Rejected []RejectedLine
}

func (e *StockConflictError) Error() string {
	ids := make([]string, 0, len(e.Rejected))
	for _, r := range e.Rejected {
		ids = append(ids, fmt.Sprintf("%d", r.ProductID))
	}
	return fmt.Sprintf("stock insuficiente para productos [%s]", strings.Join(ids, ", "))
}

// Unwrap permite errors.Is(err, domain.ErrInsufficientStock).
func (e *StockConflictError) Unwrap() error { return domain.ErrInsufficientStock }

// Reconcile intersecta los product_id rechazados por el servidor con los
// renglones actuales del borrador y devuelve los IDs de renglón (no de
// producto) a marcar, en orden de inserción. Es una función pura: no toca el
// borrador. Productos rechazados que ya no están en el borrador se ignoran;
// renglones sin rechazo quedan fuera del resultado.
func Reconcile(lines []Line, rejected []RejectedLine) []string {
	if len(lines) == 0 || len(rejected) == 0 {
		return nil
	}
	byProduct := make(map[int64]RejectedLine, len(rejected))
	for _, r := range rejected {
		byProduct[r.ProductID] = r
	}
	var flagged []string
	for _, ln := range lines {
		if _, ok := byProduct[ln.ProductID]; ok {
			flagged = append(flagged, ln.ID)
		}
	}
	return flagged
}
