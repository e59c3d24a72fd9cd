package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una factura.
// Se decodifican como enumeración cerrada al leer de la base de datos:
// un valor desconocido es un error, nunca se propaga tal cual.
const (
	InvoiceStatusDraft     = "draft"     // Borrador, editable
	InvoiceStatusSent      = "sent"      // Enviada al cliente, pendiente de pago
	InvoiceStatusPaid      = "paid"      // Pagada
	InvoiceStatusOverdue   = "overdue"   // Vencida sin pago
	InvoiceStatusCancelled = "cancelled" // Anulada
)

// Plantillas visuales disponibles para la representación gráfica de la factura.
const (
	TemplateModern  = "modern"
	TemplateClassic = "classic"
	TemplateMinimal = "minimal"
)

// ValidInvoiceStatus verifica que s sea uno de los cinco estados conocidos.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// ValidTemplate verifica que t sea una plantilla conocida.
func ValidTemplate(t string) bool {
	switch t {
	case TemplateModern, TemplateClassic, TemplateMinimal:
		return true
	}
	return false
}

// Invoice representa la cabecera de una factura.
//
// Los datos del cliente (nombre, email, dirección) son una copia desnormalizada
// tomada al momento de crear la factura: editar el Customer después no cambia
// facturas ya emitidas.
type Invoice struct {
	ID              string
	UserID          string
	InvoiceNumber   string // asignado por el usuario; [A-Za-z0-9_-]+
	Date            time.Time
	DueDate         time.Time
	CustomerName    string
	CustomerEmail   string
	CustomerAddress string
	CustomerLogoURL string // opcional; URL de la imagen ya subida al object store
	BankAccountID   string // opcional; referencia a BankAccount del mismo usuario
	Subtotal        decimal.Decimal
	TaxRate         decimal.Decimal // porcentaje 0..100
	TaxAmount       decimal.Decimal
	Total           decimal.Decimal
	Status          string // draft|sent|paid|overdue|cancelled
	Notes           string
	Template        string // modern|classic|minimal
	Items           []*InvoiceItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
