package movement

import (
	"context"

	"github.com/farmadesk/stockdesk/internal/application/dto"
	"github.com/farmadesk/stockdesk/internal/domain/entity"
)

// CatalogSource es el origen del catálogo de productos con stock.
// SearchCatalog puede resolverse en el servidor; el mínimo aceptable es el
// filtrado por subcadena del lado del cliente sobre FetchStockCatalog.
type CatalogSource interface {
	FetchStockCatalog(ctx context.Context) ([]entity.CatalogProduct, error)
	SearchCatalog(ctx context.Context, filter string) ([]entity.CatalogProduct, error)
}

// MovementSink recibe el movimiento serializado. Un conflicto de stock se
// devuelve como *movement.StockConflictError; cualquier otra falla colapsa en
// un error genérico. El protocolo no es idempotente: el caller nunca
// reintenta solo.
type MovementSink interface {
	CreateMovement(ctx context.Context, req dto.CreateMovementRequest) error
}

// Notifier toasts de éxito/aviso/error. Fuego y olvido: el flujo de control
// jamás depende de él.
type Notifier interface {
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}
