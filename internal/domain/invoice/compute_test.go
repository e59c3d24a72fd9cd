package invoice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/invoice"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del motor de cálculo monetario.
//
// Invariantes que protegen estos tests:
//
//	total de línea = cantidad * precio        (siempre recalculado)
//	subtotal       = Σ totales de línea
//	impuesto       = subtotal * tasa / 100
//	total          = subtotal + impuesto
//
// Con shopspring/decimal las igualdades son exactas, no hay epsilon de float.
// ──────────────────────────────────────────────────────────────────────────────

func item(qty, price string) *entity.InvoiceItem {
	return &entity.InvoiceItem{
		Description: "ítem de prueba",
		Quantity:    decimal.RequireFromString(qty),
		Price:       decimal.RequireFromString(price),
	}
}

func TestLineTotal_Determinista(t *testing.T) {
	total := invoice.LineTotal(decimal.RequireFromString("2"), decimal.RequireFromString("50.00"))
	assert.True(t, total.Equal(decimal.RequireFromString("100.00")),
		"2 * 50.00 debe ser exactamente 100.00, fue %s", total)
}

func TestLineTotal_CantidadFraccionaria(t *testing.T) {
	total := invoice.LineTotal(decimal.RequireFromString("0.5"), decimal.RequireFromString("19.99"))
	assert.True(t, total.Equal(decimal.RequireFromString("9.995")),
		"sin redondeo interno: 0.5 * 19.99 = 9.995, fue %s", total)
}

// TestComputeTotals_VectorExacto usa el escenario de referencia:
// [{2 x 50.00}, {1 x 25.00}] con tasa 19% → 125.00 / 23.75 / 148.75.
func TestComputeTotals_VectorExacto(t *testing.T) {
	items := []*entity.InvoiceItem{
		item("2", "50.00"),
		item("1", "25.00"),
	}
	totals := invoice.ComputeTotals(items, decimal.NewFromInt(19))

	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("125.00")), "subtotal: %s", totals.Subtotal)
	assert.True(t, totals.TaxAmount.Equal(decimal.RequireFromString("23.75")), "impuesto: %s", totals.TaxAmount)
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("148.75")), "total: %s", totals.Total)
}

// TestComputeTotals_Invariante comprueba total == subtotal + impuesto e
// impuesto == subtotal * tasa / 100 para varias combinaciones de líneas y tasas.
func TestComputeTotals_Invariante(t *testing.T) {
	cases := []struct {
		name    string
		items   []*entity.InvoiceItem
		taxRate string
	}{
		{"una línea sin impuesto", []*entity.InvoiceItem{item("1", "100")}, "0"},
		{"tasa máxima", []*entity.InvoiceItem{item("3", "33.33")}, "100"},
		{"tasa fraccionaria", []*entity.InvoiceItem{item("7", "19.99"), item("2", "0.01")}, "7.5"},
		{"precio cero", []*entity.InvoiceItem{item("10", "0")}, "19"},
		{"muchas líneas", []*entity.InvoiceItem{item("1", "1.11"), item("2", "2.22"), item("3", "3.33"), item("4", "4.44")}, "21"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rate := decimal.RequireFromString(tc.taxRate)
			totals := invoice.ComputeTotals(tc.items, rate)

			expectedTax := totals.Subtotal.Mul(rate).Div(decimal.NewFromInt(100))
			assert.True(t, totals.TaxAmount.Equal(expectedTax),
				"impuesto = subtotal * tasa / 100: %s != %s", totals.TaxAmount, expectedTax)
			assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.TaxAmount)),
				"total = subtotal + impuesto: %s != %s", totals.Total, totals.Subtotal.Add(totals.TaxAmount))
		})
	}
}

func TestComputeTotals_SinLineas(t *testing.T) {
	totals := invoice.ComputeTotals(nil, decimal.NewFromInt(19))
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.Total.IsZero())
}

// TestRecalculate_IgnoraTotalesDelCliente verifica que un Total enviado por el
// cliente que no coincide con cantidad * precio siempre se sobreescribe.
func TestRecalculate_IgnoraTotalesDelCliente(t *testing.T) {
	manipulated := item("2", "50.00")
	manipulated.Total = decimal.RequireFromString("1.00") // total adulterado

	inv := &entity.Invoice{
		TaxRate: decimal.NewFromInt(19),
		Items:   []*entity.InvoiceItem{manipulated},
	}
	inv.Subtotal = decimal.RequireFromString("1.00")  // derivados adulterados
	inv.Total = decimal.RequireFromString("1.19")

	invoice.Recalculate(inv)

	require.True(t, manipulated.Total.Equal(decimal.RequireFromString("100.00")),
		"el total de línea debe recalcularse desde cantidad * precio")
	assert.True(t, inv.Subtotal.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, inv.TaxAmount.Equal(decimal.RequireFromString("19.00")))
	assert.True(t, inv.Total.Equal(decimal.RequireFromString("119.00")))
}

// TestRecalculate_Idempotente: recalcular dos veces no cambia nada.
func TestRecalculate_Idempotente(t *testing.T) {
	inv := &entity.Invoice{
		TaxRate: decimal.RequireFromString("7.5"),
		Items:   []*entity.InvoiceItem{item("7", "19.99"), item("2", "0.01")},
	}
	invoice.Recalculate(inv)
	first := inv.Total

	invoice.Recalculate(inv)
	assert.True(t, inv.Total.Equal(first), "Recalculate debe ser idempotente")
}
