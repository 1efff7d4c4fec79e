package movement_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmadesk/stockdesk/internal/application/dto"
	appmovement "github.com/farmadesk/stockdesk/internal/application/movement"
	"github.com/farmadesk/stockdesk/internal/domain"
	"github.com/farmadesk/stockdesk/internal/domain/catalog"
	"github.com/farmadesk/stockdesk/internal/domain/entity"
	domainmov "github.com/farmadesk/stockdesk/internal/domain/movement"
)

// ─────────────────────────────────────────────
// Fakes de los puertos
// ─────────────────────────────────────────────

type fakeSource struct {
	catalog  []entity.CatalogProduct
	fetchErr error
	fetches  int
}

func (f *fakeSource) FetchStockCatalog(ctx context.Context) ([]entity.CatalogProduct, error) {
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.catalog, nil
}

func (f *fakeSource) SearchCatalog(ctx context.Context, filter string) ([]entity.CatalogProduct, error) {
	return f.catalog, nil
}

type fakeSink struct {
	err      error
	calls    int
	requests []dto.CreateMovementRequest
	// onCreate permite simular un segundo Submit disparado mientras el
	// primero sigue en vuelo.
	onCreate func()
}

func (f *fakeSink) CreateMovement(ctx context.Context, req dto.CreateMovementRequest) error {
	f.calls++
	f.requests = append(f.requests, req)
	if f.onCreate != nil {
		f.onCreate()
	}
	return f.err
}

type fakeNotifier struct {
	successes []string
	warns     []string
	errs      []string
}

func (f *fakeNotifier) Success(msg string) { f.successes = append(f.successes, msg) }
func (f *fakeNotifier) Warn(msg string)    { f.warns = append(f.warns, msg) }
func (f *fakeNotifier) Error(msg string)   { f.errs = append(f.errs, msg) }

func productoVenta(id int64, name string, stock int) entity.CatalogProduct {
	return entity.CatalogProduct{ID: id, Name: name, Price: decimal.NewFromInt(1000), Stock: stock}
}

func borradorVenta(t *testing.T, products ...entity.CatalogProduct) *domainmov.Draft {
	t.Helper()
	d := domainmov.NewDraft(domainmov.TypeSale)
	_, err := d.AddProducts(products)
	require.NoError(t, err)
	require.NoError(t, d.SetPaymentMethod(&entity.PaymentMethod{ID: 1, Name: "efectivo"}))
	return d
}

// ─────────────────────────────────────────────
// Submit
// ─────────────────────────────────────────────

// Éxito: el borrador se descarta, se notifica y el catálogo se refresca entero.
func TestSubmit_Exito(t *testing.T) {
	source := &fakeSource{catalog: []entity.CatalogProduct{productoVenta(1, "Ibuprofeno 400mg", 46)}}
	sink := &fakeSink{}
	notifier := &fakeNotifier{}
	index := catalog.NewIndex(nil)
	uc := appmovement.NewSubmitUseCase(source, sink, notifier, index, nil)

	d := borradorVenta(t, productoVenta(1, "Ibuprofeno 400mg", 48))
	require.NoError(t, uc.Submit(context.Background(), d))

	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, domainmov.PhaseClosed, d.Phase())
	assert.Equal(t, 0, d.Len())
	assert.Len(t, notifier.successes, 1)
	assert.Equal(t, 1, source.fetches, "tras el éxito se recarga la foto completa")
	assert.Equal(t, 1, index.Len())
}

// El request serializado lleva un renglón por línea y los metadatos del tipo.
func TestSubmit_SerializaElBorrador(t *testing.T) {
	sink := &fakeSink{}
	uc := appmovement.NewSubmitUseCase(&fakeSource{}, sink, &fakeNotifier{}, catalog.NewIndex(nil), nil)

	d := borradorVenta(t,
		productoVenta(1, "Ibuprofeno 400mg", 48),
		productoVenta(2, "Paracetamol 500mg", 60),
	)
	require.NoError(t, uc.Submit(context.Background(), d))

	require.Len(t, sink.requests, 1)
	req := sink.requests[0]
	assert.Equal(t, "sale", req.Type)
	assert.Equal(t, "efectivo", req.PaymentMethod)
	assert.Nil(t, req.ProviderID)
	require.Len(t, req.Lines, 2)
	assert.Equal(t, int64(1), req.Lines[0].ProductID)
	assert.Equal(t, 1, req.Lines[0].Quantity)
	require.NotNil(t, req.Lines[0].Price)
	assert.True(t, req.Lines[0].Price.Equal(decimal.NewFromInt(1000)))
}

// Conflicto de stock: el borrador sobrevive con exactamente los renglones
// rechazados marcados; corregir y reenviar funciona.
func TestSubmit_ConflictoYReenvio(t *testing.T) {
	source := &fakeSource{catalog: []entity.CatalogProduct{productoVenta(1, "A", 10)}}
	sink := &fakeSink{err: &domainmov.StockConflictError{
		Rejected: []domainmov.RejectedLine{{ProductID: 2, Reason: "stock insuficiente", Available: 0}},
	}}
	notifier := &fakeNotifier{}
	uc := appmovement.NewSubmitUseCase(source, sink, notifier, catalog.NewIndex(nil), nil)

	d := borradorVenta(t, productoVenta(1, "A", 10), productoVenta(2, "B", 5))
	err := uc.Submit(context.Background(), d)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, domainmov.PhaseEditing, d.Phase())
	require.Equal(t, 2, d.Len(), "el conflicto conserva todos los renglones")
	lines := d.Lines()
	assert.Empty(t, lines[0].Error)
	assert.NotEmpty(t, lines[1].Error)
	assert.Len(t, notifier.warns, 1)
	assert.Equal(t, 0, source.fetches, "el conflicto no refresca el catálogo")

	// Quitar el renglón rechazado y reenviar: éxito y borrador descartado.
	_, err = d.RemoveProducts([]entity.CatalogProduct{{ID: 2}})
	require.NoError(t, err)
	sink.err = nil
	require.NoError(t, uc.Submit(context.Background(), d))
	assert.Equal(t, 2, sink.calls)
	assert.Equal(t, 0, d.Len())
}

// Falla genérica: todo el borrador se conserva y se puede reintentar a mano.
func TestSubmit_FallaGenerica(t *testing.T) {
	sink := &fakeSink{err: errors.New("timeout")}
	notifier := &fakeNotifier{}
	uc := appmovement.NewSubmitUseCase(&fakeSource{}, sink, notifier, catalog.NewIndex(nil), nil)

	d := borradorVenta(t, productoVenta(1, "A", 10))
	err := uc.Submit(context.Background(), d)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, domainmov.PhaseEditing, d.Phase())
	assert.Equal(t, 1, d.Len())
	assert.Empty(t, d.Lines()[0].Error, "una falla ajena al stock no marca renglones")
	assert.Len(t, notifier.errs, 1)
}

// Single-flight: un Submit reentrante mientras el primero está en vuelo no
// genera una segunda llamada de red.
func TestSubmit_SingleFlight(t *testing.T) {
	sink := &fakeSink{}
	uc := appmovement.NewSubmitUseCase(&fakeSource{}, sink, &fakeNotifier{}, catalog.NewIndex(nil), nil)

	d := borradorVenta(t, productoVenta(1, "A", 10))
	var reentrantErr error
	sink.onCreate = func() {
		sink.onCreate = nil
		reentrantErr = uc.Submit(context.Background(), d)
	}

	require.NoError(t, uc.Submit(context.Background(), d))
	assert.ErrorIs(t, reentrantErr, domain.ErrSubmitInFlight)
	assert.Equal(t, 1, sink.calls, "el doble clic no duplica el movimiento")
}

// Un borrador inválido nunca toca la red.
func TestSubmit_BorradorInvalidoNoLlamaRed(t *testing.T) {
	sink := &fakeSink{}
	uc := appmovement.NewSubmitUseCase(&fakeSource{}, sink, &fakeNotifier{}, catalog.NewIndex(nil), nil)

	vacio := domainmov.NewDraft(domainmov.TypeSale)
	err := uc.Submit(context.Background(), vacio)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, sink.calls)
}

// Si el refresco del catálogo falla tras un éxito, el éxito no se degrada.
func TestSubmit_ExitoConRefrescoFallido(t *testing.T) {
	source := &fakeSource{fetchErr: errors.New("catálogo caído")}
	notifier := &fakeNotifier{}
	uc := appmovement.NewSubmitUseCase(source, &fakeSink{}, notifier, catalog.NewIndex(nil), nil)

	d := borradorVenta(t, productoVenta(1, "A", 10))
	require.NoError(t, uc.Submit(context.Background(), d))
	assert.Len(t, notifier.successes, 1)
	assert.Equal(t, domainmov.PhaseClosed, d.Phase())
}

// Serialize de una entrada: proveedor y campos de lote viajan, precio no.
func TestSerialize_Entrada(t *testing.T) {
	d := domainmov.NewDraft(domainmov.TypeEntry)
	added, err := d.AddProducts([]entity.CatalogProduct{productoVenta(1, "A", 10)})
	require.NoError(t, err)
	require.NoError(t, d.SetProvider(&entity.Provider{ID: 4, Name: "Distrifarma"}))
	require.NoError(t, d.EditBatchNumber(added[0].ID, "L-2026-09"))

	req := appmovement.Serialize(d)
	assert.Equal(t, "entry", req.Type)
	require.NotNil(t, req.ProviderID)
	assert.Equal(t, int64(4), *req.ProviderID)
	assert.Empty(t, req.PaymentMethod)
	require.Len(t, req.Lines, 1)
	assert.Nil(t, req.Lines[0].Price)
	assert.Equal(t, "L-2026-09", req.Lines[0].BatchNumber)
}
