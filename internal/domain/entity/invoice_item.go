package entity

import "github.com/shopspring/decimal"

// InvoiceItem representa una línea de una factura.
// Total se recalcula siempre como Quantity * Price; un total enviado por el
// cliente nunca es autoritativo.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	Total       decimal.Decimal
}
