package invoice_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/invoice"
)

// validInvoice devuelve una factura que pasa todas las validaciones; cada test
// rompe un solo campo sobre esta base.
func validInvoice() *entity.Invoice {
	return &entity.Invoice{
		InvoiceNumber: "INV-001_A",
		Date:          time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
		CustomerName:  "ACME S.A.S.",
		CustomerEmail: "facturacion@acme.co",
		TaxRate:       decimal.NewFromInt(19),
		Status:        entity.InvoiceStatusDraft,
		Template:      entity.TemplateModern,
		Items: []*entity.InvoiceItem{
			{Description: "Servicio de consultoría", Quantity: decimal.NewFromInt(2), Price: decimal.RequireFromString("50.00")},
		},
	}
}

func TestValidateInvoice_FacturaValida(t *testing.T) {
	fe := invoice.ValidateInvoice(validInvoice())
	assert.True(t, fe.Valid(), "no debe haber errores: %v", fe)
}

// ── Número de factura ─────────────────────────────────────────────────────────

func TestValidateInvoice_NumeroConEspaciosYSignos(t *testing.T) {
	inv := validInvoice()
	inv.InvoiceNumber = "INV 001!"
	fe := invoice.ValidateInvoice(inv)
	require.False(t, fe.Valid())
	assert.Contains(t, fe, "invoice_number", "espacios y signos de puntuación deben rechazarse")
}

func TestValidateInvoice_NumeroVacio(t *testing.T) {
	inv := validInvoice()
	inv.InvoiceNumber = "   "
	fe := invoice.ValidateInvoice(inv)
	assert.Contains(t, fe, "invoice_number")
}

func TestValidateInvoice_NumeroDemasiadoLargo(t *testing.T) {
	inv := validInvoice()
	inv.InvoiceNumber = strings.Repeat("A", invoice.MaxInvoiceNumberLen+1)
	fe := invoice.ValidateInvoice(inv)
	assert.Contains(t, fe, "invoice_number")
}

// ── Cliente ───────────────────────────────────────────────────────────────────

func TestValidateInvoice_NombreClienteObligatorio(t *testing.T) {
	inv := validInvoice()
	inv.CustomerName = ""
	fe := invoice.ValidateInvoice(inv)
	assert.Contains(t, fe, "customer_name")
}

func TestValidateInvoice_EmailOpcionalPeroBienFormado(t *testing.T) {
	inv := validInvoice()
	inv.CustomerEmail = ""
	assert.True(t, invoice.ValidateInvoice(inv).Valid(), "email vacío es válido (opcional)")

	inv.CustomerEmail = "no-es-un-email"
	fe := invoice.ValidateInvoice(inv)
	assert.Contains(t, fe, "customer_email")
}

// ── Cantidades y precios ──────────────────────────────────────────────────────

func TestValidateInvoice_CantidadCeroYNegativa(t *testing.T) {
	for _, qty := range []string{"0", "-5"} {
		inv := validInvoice()
		inv.Items[0].Quantity = decimal.RequireFromString(qty)
		fe := invoice.ValidateInvoice(inv)
		assert.Contains(t, fe, "items[0].quantity", "cantidad %s debe rechazarse", qty)
	}
}

func TestValidateInvoice_CantidadFraccionariaValida(t *testing.T) {
	inv := validInvoice()
	inv.Items[0].Quantity = decimal.RequireFromString("0.01")
	assert.True(t, invoice.ValidateInvoice(inv).Valid(), "0.01 es una cantidad válida")
}

func TestValidateInvoice_CantidadExcesiva(t *testing.T) {
	inv := validInvoice()
	inv.Items[0].Quantity = decimal.NewFromInt(10_000_000)
	fe := invoice.ValidateInvoice(inv)
	assert.Contains(t, fe, "items[0].quantity")
}

func TestValidateInvoice_PrecioNegativo(t *testing.T) {
	inv := validInvoice()
	inv.Items[0].Price = decimal.RequireFromString("-0.01")
	fe := invoice.ValidateInvoice(inv)
	assert.Contains(t, fe, "items[0].price")
}

func TestValidateInvoice_PrecioCeroValido(t *testing.T) {
	inv := validInvoice()
	inv.Items[0].Price = decimal.Zero
	assert.True(t, invoice.ValidateInvoice(inv).Valid(), "precio 0 es válido (cortesías)")
}

// ── Tasa de impuesto ──────────────────────────────────────────────────────────

func TestValidateInvoice_TasaFueraDeRango(t *testing.T) {
	inv := validInvoice()
	inv.TaxRate = decimal.NewFromInt(101)
	assert.Contains(t, invoice.ValidateInvoice(inv), "tax_rate")

	inv.TaxRate = decimal.NewFromInt(-1)
	assert.Contains(t, invoice.ValidateInvoice(inv), "tax_rate")
}

// ── Líneas ────────────────────────────────────────────────────────────────────

func TestValidateInvoice_SinLineas(t *testing.T) {
	inv := validInvoice()
	inv.Items = nil
	fe := invoice.ValidateInvoice(inv)
	assert.Contains(t, fe, "items")
}

func TestValidateInvoice_DescripcionObligatoria(t *testing.T) {
	inv := validInvoice()
	inv.Items[0].Description = "  "
	fe := invoice.ValidateInvoice(inv)
	assert.Contains(t, fe, "items[0].description")
}

func TestValidateInvoice_DemasiadasLineas(t *testing.T) {
	inv := validInvoice()
	inv.Items = nil
	for i := 0; i <= invoice.MaxItems; i++ {
		inv.Items = append(inv.Items, &entity.InvoiceItem{
			Description: "línea",
			Quantity:    decimal.NewFromInt(1),
			Price:       decimal.NewFromInt(1),
		})
	}
	fe := invoice.ValidateInvoice(inv)
	assert.Contains(t, fe, "items")
}

// ── Enumeraciones cerradas ────────────────────────────────────────────────────

func TestValidateInvoice_EstadoDesconocido(t *testing.T) {
	inv := validInvoice()
	inv.Status = "archived"
	fe := invoice.ValidateInvoice(inv)
	assert.Contains(t, fe, "status", "estados fuera de la enumeración se rechazan, no se propagan")
}

func TestValidateInvoice_PlantillaDesconocida(t *testing.T) {
	inv := validInvoice()
	inv.Template = "neon"
	fe := invoice.ValidateInvoice(inv)
	assert.Contains(t, fe, "template")
}

// ── Logo ──────────────────────────────────────────────────────────────────────

func TestValidateInvoice_LogoURLMalformada(t *testing.T) {
	inv := validInvoice()
	inv.CustomerLogoURL = "not a url"
	assert.Contains(t, invoice.ValidateInvoice(inv), "customer_logo_url")

	inv.CustomerLogoURL = "ftp://example.com/logo.png"
	assert.Contains(t, invoice.ValidateInvoice(inv), "customer_logo_url")

	inv.CustomerLogoURL = "https://cdn.example.com/logo.png"
	assert.True(t, invoice.ValidateInvoice(inv).Valid())
}

// ── Varios errores a la vez ───────────────────────────────────────────────────

func TestValidateInvoice_AcumulaErroresPorCampo(t *testing.T) {
	inv := validInvoice()
	inv.InvoiceNumber = ""
	inv.CustomerName = ""
	inv.Items[0].Quantity = decimal.Zero

	fe := invoice.ValidateInvoice(inv)
	require.Len(t, fe, 3, "un error por cada campo inválido: %v", fe)
	assert.Contains(t, fe, "invoice_number")
	assert.Contains(t, fe, "customer_name")
	assert.Contains(t, fe, "items[0].quantity")
}
