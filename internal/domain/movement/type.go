package movement

// Type es el tipo de movimiento de stock. Es cerrado y fijo durante la vida
// de un borrador: decide qué campos opcionales aplican por renglón y si la
// cantidad se valida contra el stock disponible del lado del cliente.
type Type string

// Tipos de movimiento.
const (
	TypeEntry      Type = "entry"      // entrada de medicamentos (suma stock)
	TypeSale       Type = "sale"       // venta (resta stock)
	TypeAdjustment Type = "adjustment" // ajuste de stock (resta)
	TypeReturn     Type = "return"     // devolución (suma stock)
)

// Valid indica si el tipo es uno de los cuatro conocidos.
func (t Type) Valid() bool {
	switch t {
	case TypeEntry, TypeSale, TypeAdjustment, TypeReturn:
		return true
	}
	return false
}

// RequiresProvider: una entrada necesita proveedor.
func (t Type) RequiresProvider() bool { return t == TypeEntry }

// RequiresPaymentMethod: una venta necesita método de pago.
func (t Type) RequiresPaymentMethod() bool { return t == TypeSale }

// HasPrice: solo la venta lleva precio editable por renglón.
func (t Type) HasPrice() bool { return t == TypeSale }

// HasBatch: solo la entrada lleva lote y fecha de vencimiento.
func (t Type) HasBatch() bool { return t == TypeEntry }

// ChecksStock: venta y ajuste validan cantidad <= stock del lado del cliente.
// Para entrada y devolución la dirección suma stock y la valida el servidor.
func (t Type) ChecksStock() bool { return t == TypeSale || t == TypeAdjustment }

// Label título visible del movimiento.
func (t Type) Label() string {
	switch t {
	case TypeEntry:
		return "Nueva entrada de medicamentos"
	case TypeSale:
		return "Nueva venta"
	case TypeAdjustment:
		return "Ajuste de stock (resta)"
	case TypeReturn:
		return "Devolución"
	}
	return string(t)
}
