package movement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmadesk/stockdesk/internal/domain"
	"github.com/farmadesk/stockdesk/internal/domain/entity"
)

// Phase fase visible del borrador. El ciclo por intento de envío es
// Editing -> Submitting -> {Closed | Editing}; nunca hay commit parcial.
type Phase int

const (
	PhaseEditing Phase = iota
	PhaseSubmitting
	PhaseClosed
)

// Line es un renglón del borrador. ID es un token opaco estable asignado al
// crear el renglón y es la clave de reconciliación (no ProductID: un producto
// quitado y re-agregado no debe confundirse con el renglón original).
type Line struct {
	ID             string
	ProductID      int64
	ProductName    string
	Description    string
	Quantity       int
	Stock          int // foto del stock disponible al seleccionar
	Price          decimal.Decimal
	ExpirationDate *time.Time
	BatchNumber    string
	Error          string // error a nivel de renglón (stock), vacío si no hay
}

// FieldError error de validación a nivel de formulario.
type FieldError struct {
	Field   string
	Message string
}

// Draft es el borrador en memoria de un movimiento en curso: la colección
// ordenada de renglones (orden de inserción = orden visible) con sus
// invariantes de cantidad/stock. Un borrador nunca sobrevive al cierre del
// modal; se descarta en cancelar, cerrar o guardado exitoso.
type Draft struct {
	typ           Type
	lines         []*Line
	byProduct     map[int64]*Line
	provider      *entity.Provider
	paymentMethod *entity.PaymentMethod
	phase         Phase
}

// NewDraft crea un borrador vacío del tipo dado.
func NewDraft(t Type) *Draft {
	return &Draft{
		typ:       t,
		byProduct: make(map[int64]*Line),
	}
}

// NewDraftSeeded crea un borrador con un renglón inicial (acción de fila:
// devolución o ajuste sobre un producto puntual).
func NewDraftSeeded(t Type, p entity.CatalogProduct) *Draft {
	d := NewDraft(t)
	_, _ = d.AddProducts([]entity.CatalogProduct{p})
	return d
}

// Type devuelve el tipo de movimiento, fijo para la vida del borrador.
func (d *Draft) Type() Type { return d.typ }

// Phase devuelve la fase actual.
func (d *Draft) Phase() Phase { return d.phase }

// Len cantidad de renglones.
func (d *Draft) Len() int { return len(d.lines) }

// Lines devuelve copias de los renglones en orden de inserción.
func (d *Draft) Lines() []Line {
	out := make([]Line, 0, len(d.lines))
	for _, ln := range d.lines {
		out = append(out, *ln)
	}
	return out
}

// ProductIDs devuelve los product_id presentes, en orden de inserción.
// Lo usa el picker para restaurar el resaltado al reabrirse.
func (d *Draft) ProductIDs() []int64 {
	out := make([]int64, 0, len(d.lines))
	for _, ln := range d.lines {
		out = append(out, ln.ProductID)
	}
	return out
}

// Provider devuelve el proveedor seleccionado (entradas).
func (d *Draft) Provider() *entity.Provider { return d.provider }

// PaymentMethod devuelve el método de pago seleccionado (ventas).
func (d *Draft) PaymentMethod() *entity.PaymentMethod { return d.paymentMethod }

// SetProvider fija el proveedor de una entrada.
func (d *Draft) SetProvider(p *entity.Provider) error {
	if err := d.editable(); err != nil {
		return err
	}
	d.provider = p
	return nil
}

// SetPaymentMethod fija el método de pago de una venta.
func (d *Draft) SetPaymentMethod(pm *entity.PaymentMethod) error {
	if err := d.editable(); err != nil {
		return err
	}
	d.paymentMethod = pm
	return nil
}

// AddProducts agrega un renglón por cada producto que aún no esté presente
// (por product_id). Cantidad inicial 1, stock copiado de la foto del catálogo,
// campos opcionales según el tipo: precio del catálogo si venta; vencimiento
// nulo y lote vacío si entrada. Productos ya presentes se omiten.
// Devuelve copias de los renglones creados.
func (d *Draft) AddProducts(products []entity.CatalogProduct) ([]Line, error) {
	if err := d.editable(); err != nil {
		return nil, err
	}
	added := make([]Line, 0, len(products))
	for _, p := range products {
		if _, exists := d.byProduct[p.ID]; exists {
			continue
		}
		ln := &Line{
			ID:          uuid.New().String(),
			ProductID:   p.ID,
			ProductName: p.Name,
			Description: p.Description,
			Quantity:    1,
			Stock:       p.Stock,
		}
		if d.typ.HasPrice() {
			ln.Price = p.Price
		}
		d.lines = append(d.lines, ln)
		d.byProduct[p.ID] = ln
		added = append(added, *ln)
	}
	return added, nil
}

// RemoveProducts quita los renglones cuyo product_id coincida y devuelve
// copias de los quitados (para notificar uno a uno o en resumen).
func (d *Draft) RemoveProducts(products []entity.CatalogProduct) ([]Line, error) {
	if err := d.editable(); err != nil {
		return nil, err
	}
	drop := make(map[int64]struct{}, len(products))
	for _, p := range products {
		drop[p.ID] = struct{}{}
	}
	var removed []Line
	kept := d.lines[:0]
	for _, ln := range d.lines {
		if _, ok := drop[ln.ProductID]; ok {
			removed = append(removed, *ln)
			delete(d.byProduct, ln.ProductID)
			continue
		}
		kept = append(kept, ln)
	}
	d.lines = kept
	return removed, nil
}

// IncrementQuantity suma 1 a la cantidad del renglón. Para venta y ajuste un
// incremento que supere el stock se rechaza: la cantidad queda igual y el
// renglón recibe un error visible que nombra al producto (nunca se recorta ni
// se descarta en silencio).
func (d *Draft) IncrementQuantity(lineID string) error {
	ln, err := d.line(lineID)
	if err != nil {
		return err
	}
	if d.typ.ChecksStock() && ln.Quantity+1 > ln.Stock {
		ln.Error = fmt.Sprintf("stock insuficiente para %s (disponible: %d)", ln.ProductName, ln.Stock)
		return domain.ErrInsufficientStock
	}
	ln.Quantity++
	ln.Error = ""
	return nil
}

// DecrementQuantity resta 1 a la cantidad con piso 1; por debajo es no-op.
func (d *Draft) DecrementQuantity(lineID string) error {
	ln, err := d.line(lineID)
	if err != nil {
		return err
	}
	if ln.Quantity <= 1 {
		return nil
	}
	ln.Quantity--
	ln.Error = ""
	return nil
}

// EditDescription edita la descripción libre del renglón.
func (d *Draft) EditDescription(lineID, value string) error {
	ln, err := d.line(lineID)
	if err != nil {
		return err
	}
	ln.Description = value
	ln.Error = ""
	return nil
}

// EditBatchNumber edita el número de lote (entradas).
func (d *Draft) EditBatchNumber(lineID, value string) error {
	if !d.typ.HasBatch() {
		return domain.ErrInvalidInput
	}
	ln, err := d.line(lineID)
	if err != nil {
		return err
	}
	ln.BatchNumber = value
	ln.Error = ""
	return nil
}

// EditExpirationDate edita la fecha de vencimiento (entradas); nil la limpia.
func (d *Draft) EditExpirationDate(lineID string, value *time.Time) error {
	if !d.typ.HasBatch() {
		return domain.ErrInvalidInput
	}
	ln, err := d.line(lineID)
	if err != nil {
		return err
	}
	ln.ExpirationDate = value
	ln.Error = ""
	return nil
}

// EditPrice edita el precio del renglón (solo ventas).
func (d *Draft) EditPrice(lineID string, value decimal.Decimal) error {
	if !d.typ.HasPrice() {
		return domain.ErrInvalidInput
	}
	ln, err := d.line(lineID)
	if err != nil {
		return err
	}
	ln.Price = value
	ln.Error = ""
	return nil
}

// Total suma cantidad × precio sobre los renglones. Definido solo para venta;
// para el resto devuelve cero. Se recalcula en cada llamada, nunca se cachea.
func (d *Draft) Total() decimal.Decimal {
	total := decimal.Zero
	if !d.typ.HasPrice() {
		return total
	}
	for _, ln := range d.lines {
		total = total.Add(ln.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}
	return total
}

// ValidateForSubmit valida el borrador completo antes del envío, sin tocar la
// red. Renglones aún marcados por el servidor bloquean el reenvío hasta que el
// usuario los corrija o los quite.
func (d *Draft) ValidateForSubmit() []FieldError {
	var errs []FieldError
	if len(d.lines) == 0 {
		errs = append(errs, FieldError{Field: "lines", Message: "Debe agregar al menos un producto"})
	}
	if d.typ.RequiresProvider() && d.provider == nil {
		errs = append(errs, FieldError{Field: "provider", Message: "Seleccione un proveedor"})
	}
	if d.typ.RequiresPaymentMethod() && d.paymentMethod == nil {
		errs = append(errs, FieldError{Field: "payment_method", Message: "Seleccione un método de pago"})
	}
	for _, ln := range d.lines {
		if ln.Error != "" {
			errs = append(errs, FieldError{
				Field:   "lines",
				Message: fmt.Sprintf("Corrija o elimine el renglón con error: %s", ln.ProductName),
			})
		}
	}
	return errs
}

// BeginSubmit valida y pasa a Submitting. Garantiza single-flight: un segundo
// intento mientras hay un envío en curso falla con ErrSubmitInFlight y no debe
// generar una segunda llamada de red.
func (d *Draft) BeginSubmit() error {
	if d.phase == PhaseSubmitting {
		return domain.ErrSubmitInFlight
	}
	if d.phase == PhaseClosed {
		return domain.ErrInvalidInput
	}
	if errs := d.ValidateForSubmit(); len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, errs[0].Message)
	}
	d.phase = PhaseSubmitting
	return nil
}

// FinishSuccess cierra el borrador tras un guardado exitoso y lo descarta.
func (d *Draft) FinishSuccess() {
	d.phase = PhaseClosed
	d.lines = nil
	d.byProduct = make(map[int64]*Line)
	d.provider = nil
	d.paymentMethod = nil
}

// FinishConflict vuelve a Editing conservando todos los renglones y marca
// exactamente la intersección de los rechazos del servidor con los renglones
// actuales. Todo lo demás (precios, fechas, lotes ya tipeados) sobrevive
// intacto al viaje de ida y vuelta. Devuelve cuántos renglones quedaron
// marcados.
func (d *Draft) FinishConflict(rejected []RejectedLine) int {
	d.phase = PhaseEditing
	byProduct := make(map[int64]RejectedLine, len(rejected))
	for _, r := range rejected {
		byProduct[r.ProductID] = r
	}
	flagged := Reconcile(d.Lines(), rejected)
	for _, id := range flagged {
		ln, err := d.line(id)
		if err != nil {
			continue
		}
		r := byProduct[ln.ProductID]
		reason := r.Reason
		if reason == "" {
			reason = "stock insuficiente"
		}
		ln.Error = fmt.Sprintf("%s: %s (disponible: %d)", ln.ProductName, reason, r.Available)
	}
	return len(flagged)
}

// FinishFailure vuelve a Editing conservando el borrador tal cual; el error es
// ajeno al stock y el envío se puede reintentar a mano (nunca auto-reintento:
// el protocolo no es idempotente y reintentar tras un éxito real duplicaría el
// movimiento).
func (d *Draft) FinishFailure() {
	d.phase = PhaseEditing
}

// Reset descarta el borrador (cerrar o cancelar el modal). Con un envío en
// vuelo el descarte se pospone: el handler de la respuesta es el único que
// limpia estado, así un cierre apurado no pisa un guardado que sí entró.
func (d *Draft) Reset() {
	if d.phase == PhaseSubmitting {
		return
	}
	d.FinishSuccess()
}

func (d *Draft) line(lineID string) (*Line, error) {
	if err := d.editable(); err != nil {
		return nil, err
	}
	for _, ln := range d.lines {
		if ln.ID == lineID {
			return ln, nil
		}
	}
	return nil, domain.ErrLineNotFound
}

// editable rechaza mutaciones fuera de la fase de edición. Durante Submitting
// el borrador queda bloqueado hasta que el envío pendiente se resuelva.
func (d *Draft) editable() error {
	switch d.phase {
	case PhaseSubmitting:
		return domain.ErrDraftLocked
	case PhaseClosed:
		return domain.ErrInvalidInput
	}
	return nil
}
