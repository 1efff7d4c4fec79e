package entity

import "github.com/shopspring/decimal"

// CatalogProduct es la foto inmutable de un producto del catálogo de stock.
// Se obtiene al abrir la pantalla y se refresca tras un movimiento exitoso;
// Stock refleja la existencia al momento de la consulta y puede quedar vieja.
type CatalogProduct struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

// Provider proveedor de una entrada de medicamentos.
type Provider struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PaymentMethod método de pago de una venta.
type PaymentMethod struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
