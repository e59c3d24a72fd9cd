// Package pdf implementa la representación gráfica de la factura con Maroto v2.
//
// Cada factura lleva su plantilla (modern, classic o minimal); las tres
// comparten estructura y solo cambian tipografía, paleta y separadores:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: "FACTURA" + N° + fechas                            │
//	│  RECEPTOR: nombre / email / dirección                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Cant. | Precio | Total                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuesto (tasa %) / TOTAL              │
//	│  DATOS DE PAGO: titular / banco / IBAN / BIC  (opcional)    │
//	│  NOTAS                                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/facturio/facturio-api/internal/application/billing"
	"github.com/facturio/facturio-api/internal/domain/entity"
)

// ── Estilo por plantilla ──────────────────────────────────────────────────────

type templateStyle struct {
	font      string
	accent    *props.Color
	secondary *props.Color
	withLines bool
}

var (
	colorBlue  = &props.Color{Red: 37, Green: 99, Blue: 235}
	colorInk   = &props.Color{Red: 30, Green: 30, Blue: 30}
	colorGray  = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLight = &props.Color{Red: 150, Green: 150, Blue: 150}
)

var templateStyles = map[string]templateStyle{
	entity.TemplateModern:  {font: "helvetica", accent: colorBlue, secondary: colorGray, withLines: true},
	entity.TemplateClassic: {font: "times", accent: colorInk, secondary: colorGray, withLines: true},
	entity.TemplateMinimal: {font: "helvetica", accent: colorInk, secondary: colorLight, withLines: false},
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.EuropeanSpanish)}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
// bank puede ser nil: la factura no referencia cuenta o esta fue borrada.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	bank *entity.BankAccount,
) ([]byte, error) {
	style, ok := templateStyles[invoice.Template]
	if !ok {
		style = templateStyles[entity.TemplateModern]
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: style.font, Size: 9}).
		WithTitle("Factura "+invoice.InvoiceNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(invoice, style))
	if style.withLines {
		m.AddRows(line.NewRow(1, props.Line{Color: style.accent, Thickness: 0.5}))
	}
	m.AddRows(g.customerRow(invoice, style))
	if style.withLines {
		m.AddRows(line.NewRow(1, props.Line{Color: style.accent, Thickness: 0.3}))
	}

	m.AddRows(g.tableHeaderRow(style))
	for _, r := range g.tableItemRows(invoice.Items, style) {
		m.AddRows(r)
	}

	if style.withLines {
		m.AddRows(line.NewRow(1, props.Line{Color: style.accent, Thickness: 0.3}))
	}
	m.AddRows(g.totalsRow(invoice, style))

	if bank != nil {
		m.AddRows(line.NewRow(3))
		m.AddRows(g.bankRow(bank, style))
	}
	if invoice.Notes != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(g.notesRow(invoice.Notes, style))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: "FACTURA" + número (izq) y fechas (der).
func (g *MarotoPDFGenerator) headerRow(invoice *entity.Invoice, style templateStyle) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New("FACTURA", props.Text{
				Style: fontstyle.Bold, Size: 16, Color: style.accent, Top: 1,
			}),
			text.New(invoice.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 10,
			}),
		),
		col.New(5).Add(
			text.New("Fecha: "+invoice.Date.Format("02/01/2006"), props.Text{
				Size: 9, Align: align.Right, Top: 3, Color: style.secondary,
			}),
			text.New("Vencimiento: "+invoice.DueDate.Format("02/01/2006"), props.Text{
				Size: 9, Align: align.Right, Top: 9, Color: style.secondary,
			}),
		),
	)
}

// customerRow: datos del cliente facturado.
func (g *MarotoPDFGenerator) customerRow(invoice *entity.Invoice, style templateStyle) core.Row {
	contact := invoice.CustomerEmail
	if invoice.CustomerAddress != "" {
		if contact != "" {
			contact += "   |   "
		}
		contact += invoice.CustomerAddress
	}
	if contact == "" {
		contact = "—"
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("FACTURAR A", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: style.accent, Top: 1,
			}),
			text.New(invoice.CustomerName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(contact, props.Text{Size: 8, Top: 12, Color: style.secondary}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func (g *MarotoPDFGenerator) tableHeaderRow(style templateStyle) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: style.accent, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Descripción", 6, align.Left),
		h("Cant.", 2, align.Right),
		h("Precio", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableItemRows: una fila por línea de factura, en su orden original.
func (g *MarotoPDFGenerator) tableItemRows(items []*entity.InvoiceItem, style templateStyle) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, item := range items {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(
				item.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				g.quantity(item.Quantity),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				g.amount(item.Price),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				g.amount(item.Total),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: subtotal, impuesto con su tasa y total a pagar.
func (g *MarotoPDFGenerator) totalsRow(invoice *entity.Invoice, style templateStyle) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right,
			Color: style.accent, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right,
			Color: style.accent, Right: 1,
		})
	}

	taxLabel := fmt.Sprintf("Impuesto (%s%%):", invoice.TaxRate.StringFixed(0))

	return row.New(26).Add(
		col.New(4),
		col.New(4).Add(
			label("Subtotal:"),
			label(taxLabel),
			grandLabel("TOTAL:"),
		),
		col.New(4).Add(
			value(g.amount(invoice.Subtotal)),
			value(g.amount(invoice.TaxAmount)),
			grandValue(g.amount(invoice.Total)),
		),
	)
}

// bankRow: datos de pago impresos desde la cuenta bancaria referenciada.
func (g *MarotoPDFGenerator) bankRow(bank *entity.BankAccount, style templateStyle) core.Row {
	detail := fmt.Sprintf("%s   |   %s   |   IBAN: %s",
		bank.AccountHolder, bank.BankName, bank.IBAN)
	if bank.BIC != "" {
		detail += "   |   BIC: " + bank.BIC
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DE PAGO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: style.accent, Top: 1,
			}),
			text.New(detail, props.Text{Size: 8, Top: 7, Color: style.secondary}),
		),
	)
}

// notesRow: notas libres al pie.
func (g *MarotoPDFGenerator) notesRow(notes string, style templateStyle) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("NOTAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: style.accent, Top: 1,
			}),
			text.New(notes, props.Text{Size: 8, Top: 7, Color: style.secondary}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// amount formatea un importe con separador de miles y dos decimales según la
// localización (1.234,50).
func (g *MarotoPDFGenerator) amount(d decimal.Decimal) string {
	f, _ := d.Float64()
	return g.printer.Sprintf("%v", number.Decimal(f,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// quantity formatea una cantidad sin ceros de relleno (2, no 2,00; 1,5 queda 1,5).
func (g *MarotoPDFGenerator) quantity(d decimal.Decimal) string {
	f, _ := d.Float64()
	return g.printer.Sprintf("%v", number.Decimal(f, number.MaxFractionDigits(3)))
}
