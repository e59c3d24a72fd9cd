package invoice

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/facturio/facturio-api/internal/domain/entity"
)

// Límites de campos (mantenerlos alineados con el esquema de la base de datos).
const (
	MaxInvoiceNumberLen = 50
	MaxCustomerNameLen  = 200
	MaxEmailLen         = 255
	MaxAddressLen       = 1000
	MaxDescriptionLen   = 500
	MaxNotesLen         = 2000
	MaxLogoURLLen       = 500
	MaxItems            = 100
)

// Cotas numéricas.
var (
	maxQuantity = decimal.NewFromInt(9_999_999)
	maxPrice    = decimal.NewFromInt(999_999_999)
	maxTaxRate  = decimal.NewFromInt(100)
)

var (
	invoiceNumberRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// Forma RFC básica: algo@algo.algo, sin espacios. La verificación real del
	// buzón no es asunto de validación de campos.
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// FieldErrors acumula errores de validación por campo. Las claves usan la
// notación del API (invoice_number, items[2].quantity, ...). Un mapa vacío
// significa entrada válida.
type FieldErrors map[string]string

// Add registra un error para el campo dado (el primero gana).
func (fe FieldErrors) Add(field, msg string) {
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

// Valid indica que no hubo errores.
func (fe FieldErrors) Valid() bool { return len(fe) == 0 }

// Error implementa error para poder envolver FieldErrors en los casos de uso.
func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "sin errores de validación"
	}
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	return "validación: " + strings.Join(parts, "; ")
}

// ValidateInvoice valida todos los campos editables por el usuario y devuelve
// los errores acumulados por campo. Nunca entra en pánico: entrada numérica
// malformada ya fue rechazada al decodificar el DTO (decimal.Decimal no acepta
// strings no numéricos), y aquí se rechazan rangos fuera de límite.
func ValidateInvoice(inv *entity.Invoice) FieldErrors {
	fe := FieldErrors{}

	number := strings.TrimSpace(inv.InvoiceNumber)
	switch {
	case number == "":
		fe.Add("invoice_number", "el número de factura es obligatorio")
	case len(number) > MaxInvoiceNumberLen:
		fe.Add("invoice_number", fmt.Sprintf("máximo %d caracteres", MaxInvoiceNumberLen))
	case !invoiceNumberRe.MatchString(number):
		fe.Add("invoice_number", "solo letras, números, guiones y guiones bajos")
	}

	name := strings.TrimSpace(inv.CustomerName)
	switch {
	case name == "":
		fe.Add("customer_name", "el nombre del cliente es obligatorio")
	case len(name) > MaxCustomerNameLen:
		fe.Add("customer_name", fmt.Sprintf("máximo %d caracteres", MaxCustomerNameLen))
	}

	if email := strings.TrimSpace(inv.CustomerEmail); email != "" {
		if len(email) > MaxEmailLen {
			fe.Add("customer_email", fmt.Sprintf("máximo %d caracteres", MaxEmailLen))
		} else if !emailRe.MatchString(email) {
			fe.Add("customer_email", "email inválido")
		}
	}

	if len(inv.CustomerAddress) > MaxAddressLen {
		fe.Add("customer_address", fmt.Sprintf("máximo %d caracteres", MaxAddressLen))
	}

	if inv.Date.IsZero() {
		fe.Add("date", "la fecha es obligatoria")
	}
	if inv.DueDate.IsZero() {
		fe.Add("due_date", "la fecha de vencimiento es obligatoria")
	}

	if logoURL := inv.CustomerLogoURL; logoURL != "" {
		if len(logoURL) > MaxLogoURLLen {
			fe.Add("customer_logo_url", fmt.Sprintf("máximo %d caracteres", MaxLogoURLLen))
		} else if u, err := url.Parse(logoURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			fe.Add("customer_logo_url", "URL inválida")
		}
	}

	if inv.TaxRate.IsNegative() {
		fe.Add("tax_rate", "la tasa de impuesto no puede ser negativa")
	} else if inv.TaxRate.GreaterThan(maxTaxRate) {
		fe.Add("tax_rate", "la tasa de impuesto no puede superar 100%")
	}

	if len(inv.Notes) > MaxNotesLen {
		fe.Add("notes", fmt.Sprintf("máximo %d caracteres", MaxNotesLen))
	}

	if inv.Status != "" && !entity.ValidInvoiceStatus(inv.Status) {
		fe.Add("status", "estado desconocido")
	}
	if inv.Template != "" && !entity.ValidTemplate(inv.Template) {
		fe.Add("template", "plantilla desconocida")
	}

	switch {
	case len(inv.Items) == 0:
		fe.Add("items", "se requiere al menos una línea")
	case len(inv.Items) > MaxItems:
		fe.Add("items", fmt.Sprintf("máximo %d líneas", MaxItems))
	default:
		for i, item := range inv.Items {
			validateItem(fe, i, item)
		}
	}

	return fe
}

func validateItem(fe FieldErrors, idx int, item *entity.InvoiceItem) {
	key := func(field string) string { return fmt.Sprintf("items[%d].%s", idx, field) }

	desc := strings.TrimSpace(item.Description)
	switch {
	case desc == "":
		fe.Add(key("description"), "la descripción es obligatoria")
	case len(desc) > MaxDescriptionLen:
		fe.Add(key("description"), fmt.Sprintf("máximo %d caracteres", MaxDescriptionLen))
	}

	if !item.Quantity.GreaterThan(decimal.Zero) {
		fe.Add(key("quantity"), "la cantidad debe ser mayor que cero")
	} else if item.Quantity.GreaterThan(maxQuantity) {
		fe.Add(key("quantity"), "cantidad demasiado grande")
	}

	if item.Price.IsNegative() {
		fe.Add(key("price"), "el precio no puede ser negativo")
	} else if item.Price.GreaterThan(maxPrice) {
		fe.Add(key("price"), "precio demasiado grande")
	}
}
