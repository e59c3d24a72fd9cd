// Package invoice contiene el motor de cálculo y la validación de facturas
// (servicios de dominio puros, sin dependencias de infraestructura).
//
// Reglas monetarias:
//
//	total de línea = cantidad * precio
//	subtotal       = Σ totales de línea
//	impuesto       = subtotal * tasa / 100
//	total          = subtotal + impuesto
//
// No se aplica redondeo al almacenar; el formato a 2 decimales es un asunto
// de presentación (PDF, respuestas JSON), no de dominio.
package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/facturio/facturio-api/internal/domain/entity"
)

// Totals agrupa los campos monetarios derivados de una factura.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// LineTotal calcula el total de una línea: cantidad * precio.
// Cantidades <= 0 o precios negativos se rechazan en la validación, no aquí.
func LineTotal(quantity, price decimal.Decimal) decimal.Decimal {
	return quantity.Mul(price)
}

// ComputeTotals deriva subtotal, impuesto y total a partir de las líneas y la
// tasa de impuesto. Los totales de línea se recalculan siempre desde
// cantidad * precio: un Total enviado por el cliente nunca es autoritativo.
func ComputeTotals(items []*entity.InvoiceItem, taxRate decimal.Decimal) Totals {
	var subtotal decimal.Decimal
	for _, item := range items {
		subtotal = subtotal.Add(LineTotal(item.Quantity, item.Price))
	}
	taxAmount := subtotal.Mul(taxRate).Div(decimal.NewFromInt(100))
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount),
	}
}

// Recalculate sobreescribe todos los campos derivados de la factura:
// el Total de cada línea y Subtotal/TaxAmount/Total de la cabecera.
// Debe invocarse después de CADA mutación de líneas o tasa; no hay
// recálculo diferido.
func Recalculate(inv *entity.Invoice) {
	for _, item := range inv.Items {
		item.Total = LineTotal(item.Quantity, item.Price)
	}
	t := ComputeTotals(inv.Items, inv.TaxRate)
	inv.Subtotal = t.Subtotal
	inv.TaxAmount = t.TaxAmount
	inv.Total = t.Total
}
