package movement

import (
	"context"
	"errors"
	"fmt"

	"github.com/farmadesk/stockdesk/internal/application/dto"
	"github.com/farmadesk/stockdesk/internal/domain/catalog"
	domainmov "github.com/farmadesk/stockdesk/internal/domain/movement"
	"github.com/farmadesk/stockdesk/pkg/logger"
)

// SubmitUseCase serializa un borrador, lo envía como unidad y resuelve el
// resultado: éxito descarta el borrador y refresca el catálogo completo (el
// stock pudo cambiar para todos los productos del movimiento, no solo los
// visibles); un conflicto de stock conserva el borrador y marca exactamente
// los renglones rechazados; cualquier otra falla conserva todo y es
// reintentable a mano.
type SubmitUseCase struct {
	source   CatalogSource
	sink     MovementSink
	notifier Notifier
	index    *catalog.Index
	log      *logger.Logger
}

// NewSubmitUseCase construye el caso de uso.
func NewSubmitUseCase(source CatalogSource, sink MovementSink, notifier Notifier, index *catalog.Index, log *logger.Logger) *SubmitUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SubmitUseCase{
		source:   source,
		sink:     sink,
		notifier: notifier,
		index:    index,
		log:      log,
	}
}

// Submit envía el borrador. BeginSubmit garantiza el single-flight (un
// segundo Submit sobre el mismo borrador mientras el primero está en vuelo
// falla sin tocar la red) y bloquea las ediciones hasta resolver.
func (uc *SubmitUseCase) Submit(ctx context.Context, draft *domainmov.Draft) error {
	if err := draft.BeginSubmit(); err != nil {
		return err
	}

	req := Serialize(draft)
	err := uc.sink.CreateMovement(ctx, req)
	if err == nil {
		// El handler de la respuesta es el único lugar donde se limpia el
		// borrador tras un éxito.
		draft.FinishSuccess()
		uc.notifier.Success("Movimiento guardado")
		if refreshErr := uc.refreshCatalog(ctx); refreshErr != nil {
			uc.log.Warn().Err(refreshErr).Msg("no se pudo refrescar el catálogo tras el movimiento")
		}
		return nil
	}

	var conflict *domainmov.StockConflictError
	if errors.As(err, &conflict) {
		flagged := draft.FinishConflict(conflict.Rejected)
		uc.log.Info().Int("renglones_marcados", flagged).Msg("conflicto de stock reportado por el servidor")
		uc.notifier.Warn(fmt.Sprintf("Stock insuficiente en %d renglón(es); corrija o quite los marcados", flagged))
		return err
	}

	draft.FinishFailure()
	uc.notifier.Error("No se pudo guardar el movimiento; el borrador se conserva")
	return err
}

// RefreshCatalog recarga la foto completa del catálogo en el índice.
func (uc *SubmitUseCase) RefreshCatalog(ctx context.Context) error {
	return uc.refreshCatalog(ctx)
}

func (uc *SubmitUseCase) refreshCatalog(ctx context.Context) error {
	products, err := uc.source.FetchStockCatalog(ctx)
	if err != nil {
		return err
	}
	uc.index.Replace(products)
	return nil
}

// Serialize convierte el borrador al request de movimiento: un renglón por
// línea más los metadatos del borrador según el tipo.
func Serialize(draft *domainmov.Draft) dto.CreateMovementRequest {
	req := dto.CreateMovementRequest{Type: string(draft.Type())}
	if p := draft.Provider(); p != nil && draft.Type().RequiresProvider() {
		id := p.ID
		req.ProviderID = &id
	}
	if pm := draft.PaymentMethod(); pm != nil && draft.Type().RequiresPaymentMethod() {
		req.PaymentMethod = pm.Name
	}
	for _, ln := range draft.Lines() {
		lineReq := dto.MovementLineRequest{
			ProductID:   ln.ProductID,
			Quantity:    ln.Quantity,
			BatchNumber: ln.BatchNumber,
		}
		if draft.Type().HasPrice() {
			price := ln.Price
			lineReq.Price = &price
		}
		if ln.ExpirationDate != nil {
			lineReq.ExpirationDate = ln.ExpirationDate.Format("2006-01-02")
		}
		req.Lines = append(req.Lines, lineReq)
	}
	return req
}
